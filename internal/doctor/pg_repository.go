package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const doctorColumns = `
	doctor_id, name, specialization, qualification, phone_number, email,
	hospital_name, is_approved, password_hash, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var specialization, qualification, phone, email, hospital, passwordHash *string

	err := row.Scan(
		&d.DoctorID,
		&d.Name,
		&specialization,
		&qualification,
		&phone,
		&email,
		&hospital,
		&d.IsApproved,
		&passwordHash,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDoctorNotFound
		}
		return nil, err
	}

	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&d.Specialization, specialization)
	setIf(&d.Qualification, qualification)
	setIf(&d.PhoneNumber, phone)
	setIf(&d.Email, email)
	setIf(&d.HospitalName, hospital)
	setIf(&d.PasswordHash, passwordHash)

	return &d, nil
}

func (r *PgRepository) GetByDoctorID(ctx context.Context, doctorID string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE doctor_id = $1
	`, doctorID)
	return scanDoctor(row)
}

func (r *PgRepository) GetByPhone(ctx context.Context, phone string) (*Doctor, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE phone_number = $1
	`, phone)
	return scanDoctor(row)
}

func (r *PgRepository) Insert(ctx context.Context, d Doctor) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO doctors (doctor_id, name, specialization, qualification,
			phone_number, email, hospital_name, is_approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
	`, d.DoctorID, d.Name, d.Specialization, d.Qualification,
		d.PhoneNumber, d.Email, d.HospitalName, d.IsApproved)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDoctorExists
		}
		return fmt.Errorf("insert doctor: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, doctorID string, d Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET name            = COALESCE(NULLIF($2, ''), name),
			specialization  = COALESCE(NULLIF($3, ''), specialization),
			qualification   = COALESCE(NULLIF($4, ''), qualification),
			phone_number    = COALESCE(NULLIF($5, ''), phone_number),
			email           = COALESCE(NULLIF($6, ''), email),
			hospital_name   = COALESCE(NULLIF($7, ''), hospital_name),
			updated_at      = now()
		WHERE doctor_id = $1
	`, doctorID, d.Name, d.Specialization, d.Qualification,
		d.PhoneNumber, d.Email, d.HospitalName)
	if err != nil {
		return fmt.Errorf("update doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) SetPassword(ctx context.Context, doctorID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctors
		SET password_hash = $2, updated_at = now()
		WHERE doctor_id = $1
	`, doctorID, passwordHash)
	if err != nil {
		return fmt.Errorf("set doctor password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *PgRepository) ListApproved(ctx context.Context) ([]Doctor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+doctorColumns+`
		FROM doctors
		WHERE is_approved
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		d.PasswordHash = ""
		doctors = append(doctors, *d)
	}
	return doctors, rows.Err()
}

func (r *PgRepository) IsApproved(ctx context.Context, doctorID string) (bool, error) {
	var approved bool
	err := r.pool.QueryRow(ctx, `
		SELECT is_approved FROM doctors WHERE doctor_id = $1
	`, doctorID).Scan(&approved)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return approved, nil
}
