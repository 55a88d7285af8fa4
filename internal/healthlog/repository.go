package healthlog

import (
	"context"
	"errors"
)

var (
	ErrMissingSymptoms  = errors.New("symptoms are required")
	ErrMissingPatientID = errors.New("patient id is required")

	// ErrInsightProvider wraps any upstream generation failure. Nothing
	// is persisted when the provider fails; there are no partial logs.
	ErrInsightProvider = errors.New("insight provider failed")
)

type Repository interface {
	Insert(ctx context.Context, entry HealthLog) error

	// Recent returns the newest entries for a patient, newest first.
	Recent(ctx context.Context, patientID string, limit int) ([]HealthLog, error)
}

// InsightProvider generates medical insights from a prompt. Single
// attempt, caller-enforced deadline, no retry.
type InsightProvider interface {
	GenerateInsights(ctx context.Context, prompt string) (string, error)
}
