package presence

import "time"

type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
)

// ConnectionRecord is one row in the connection directory. A record is
// created on connect, gains a UserID once the client registers, and is
// marked disconnected rather than deleted so it stays available for audit.
type ConnectionRecord struct {
	ConnectionID   string
	UserID         string // empty until a register action is processed
	Status         ConnectionStatus
	ConnectedAt    time.Time
	DisconnectedAt *time.Time
}

// UpsertFields carries the partial update merged into a directory record.
// Zero values are skipped, matching a document-store $set.
type UpsertFields struct {
	UserID      string
	Status      ConnectionStatus
	ConnectedAt time.Time
}

// Outbound notification payloads pushed over the gateway.

type RegistrationResponse struct {
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type DoctorRequest struct {
	Type           string `json:"type"`
	DoctorID       string `json:"doctorId"`
	DoctorName     string `json:"doctorName,omitempty"`
	Specialization string `json:"specialization,omitempty"`
}

type PatientResponse struct {
	Type      string `json:"type"`
	Accepted  bool   `json:"accepted"`
	PatientID string `json:"patientId"`
}
