package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Slots is the fixed daily slot set, in listing order.
var Slots = []string{"10:00", "12:00", "14:00"}

// MaxPerDay caps non-cancelled appointments per doctor per date.
const MaxPerDay = 3

type Appointment struct {
	ID                 uuid.UUID
	PatientID          string
	DoctorID           string
	Date               string // calendar day, YYYY-MM-DD
	Time               string // one of Slots, HH:mm
	Reason             string
	Status             Status
	CreatedAt          time.Time
	CancellationReason *string
	CancelledBy        *string
	CancelledAt        *time.Time
}
