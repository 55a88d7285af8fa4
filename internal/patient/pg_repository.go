package patient

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

const patientColumns = `
	patient_id, name, dob, gender, blood_group, phone_number, address,
	medical_conditions, current_medications, emergency_details, doctor_id,
	created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var dob, gender, bloodGroup, address, conditions, medications, emergency, doctorID *string

	err := row.Scan(
		&p.PatientID,
		&p.Name,
		&dob,
		&gender,
		&bloodGroup,
		&p.PhoneNumber,
		&address,
		&conditions,
		&medications,
		&emergency,
		&doctorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&p.DOB, dob)
	setIf(&p.Gender, gender)
	setIf(&p.BloodGroup, bloodGroup)
	setIf(&p.Address, address)
	setIf(&p.MedicalConditions, conditions)
	setIf(&p.CurrentMedication, medications)
	setIf(&p.EmergencyDetails, emergency)
	setIf(&p.DoctorID, doctorID)

	return &p, nil
}

func (r *PgRepository) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE patient_id = $1
	`, patientID)
	return scanPatient(row)
}

func (r *PgRepository) GetByPhone(ctx context.Context, phone string) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE phone_number = $1
	`, phone)
	return scanPatient(row)
}

func (r *PgRepository) Insert(ctx context.Context, p Patient) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (patient_id, name, dob, gender, blood_group,
			phone_number, address, medical_conditions, current_medications,
			emergency_details, doctor_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), now(), now())
	`, p.PatientID, p.Name, p.DOB, p.Gender, p.BloodGroup,
		p.PhoneNumber, p.Address, p.MedicalConditions, p.CurrentMedication,
		p.EmergencyDetails, p.DoctorID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrPatientExists
		}
		return fmt.Errorf("insert patient: %w", err)
	}
	return nil
}

func (r *PgRepository) Update(ctx context.Context, patientID string, p Patient) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET name                = COALESCE(NULLIF($2, ''), name),
			dob                 = COALESCE(NULLIF($3, ''), dob),
			gender              = COALESCE(NULLIF($4, ''), gender),
			blood_group         = COALESCE(NULLIF($5, ''), blood_group),
			address             = COALESCE(NULLIF($6, ''), address),
			medical_conditions  = COALESCE(NULLIF($7, ''), medical_conditions),
			current_medications = COALESCE(NULLIF($8, ''), current_medications),
			emergency_details   = COALESCE(NULLIF($9, ''), emergency_details),
			updated_at          = now()
		WHERE patient_id = $1
	`, patientID, p.Name, p.DOB, p.Gender, p.BloodGroup, p.Address,
		p.MedicalConditions, p.CurrentMedication, p.EmergencyDetails)
	if err != nil {
		return fmt.Errorf("update patient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *PgRepository) AssignDoctor(ctx context.Context, patientID, doctorID string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET doctor_id = $2, updated_at = now()
		WHERE patient_id = $1
	`, patientID, doctorID)
	if err != nil {
		return fmt.Errorf("assign doctor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPatientNotFound
	}
	return nil
}

func (r *PgRepository) ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE doctor_id = $1
		ORDER BY name
	`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patients []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		patients = append(patients, *p)
	}
	return patients, rows.Err()
}
