package healthlog

import (
	"time"

	"github.com/google/uuid"
)

type HealthLog struct {
	ID                uuid.UUID `json:"id"`
	PatientID         string    `json:"patientId"`
	CurrentSymptoms   string    `json:"currentSymptoms"`
	MedicalHistory    string    `json:"medicalHistory,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	GeneratedInsights string    `json:"generatedInsights"`
	CreatedAt         time.Time `json:"createdAt"`
}

// LogResult is what the symptom-logging operation returns: the fresh
// insights plus the prior entries that informed them.
type LogResult struct {
	Insights     string      `json:"insights"`
	PreviousLogs []HealthLog `json:"previousLogs"`
}
