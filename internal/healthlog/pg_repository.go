package healthlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Insert(ctx context.Context, entry HealthLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO health_logs (id, patient_id, current_symptoms,
			medical_history, notes, generated_insights, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, entry.ID, entry.PatientID, entry.CurrentSymptoms,
		entry.MedicalHistory, entry.Notes, entry.GeneratedInsights)
	if err != nil {
		return fmt.Errorf("insert health log: %w", err)
	}
	return nil
}

func (r *PgRepository) Recent(ctx context.Context, patientID string, limit int) ([]HealthLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, current_symptoms, medical_history, notes,
			generated_insights, created_at
		FROM health_logs
		WHERE patient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []HealthLog
	for rows.Next() {
		var l HealthLog
		err := rows.Scan(
			&l.ID,
			&l.PatientID,
			&l.CurrentSymptoms,
			&l.MedicalHistory,
			&l.Notes,
			&l.GeneratedInsights,
			&l.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
