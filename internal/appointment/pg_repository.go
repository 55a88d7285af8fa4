package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
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

const apptColumns = `
	id, patient_id, doctor_id, date, time, reason, status,
	created_at, cancellation_reason, cancelled_by, cancelled_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DoctorID,
		&a.Date,
		&a.Time,
		&a.Reason,
		&a.Status,
		&a.CreatedAt,
		&a.CancellationReason,
		&a.CancelledBy,
		&a.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

func (r *PgRepository) queryAppointments(ctx context.Context, query string, args ...any) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		appts = append(appts, *appt)
	}
	return appts, rows.Err()
}

func (r *PgRepository) ActiveByDoctorDate(ctx context.Context, doctorID, date string) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status <> 'cancelled'
		ORDER BY time
	`, doctorID, date)
}

func (r *PgRepository) ListByDoctorDate(ctx context.Context, doctorID, date string) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time
	`, doctorID, date)
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	return r.queryAppointments(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, time
	`, patientID)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+apptColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) Insert(ctx context.Context, appt Appointment) (uuid.UUID, error) {
	id := uuid.New()

	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
	`, id, appt.PatientID, appt.DoctorID, appt.Date, appt.Time, appt.Reason, appt.Status)
	if err != nil {
		// The partial unique index on (doctor_id, date, time) for
		// non-cancelled rows closes the race the lock cannot see.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, ErrSlotTaken
		}
		return uuid.Nil, fmt.Errorf("insert appointment: %w", err)
	}

	return id, nil
}

func (r *PgRepository) Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
			cancellation_reason = $2,
			cancelled_by = $3,
			cancelled_at = now()
		WHERE id = $1 AND status <> 'cancelled'
	`, id, reason, cancelledBy)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
