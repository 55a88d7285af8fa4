package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found or not approved")
	ErrDoctorFullyBooked   = errors.New("doctor is fully booked for this date")
	ErrSlotTaken           = errors.New("time slot is already booked")
	ErrInvalidSlot         = errors.New("time is not a bookable slot")
	ErrMissingFields       = errors.New("missing required appointment fields")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// ActiveByDoctorDate returns the non-cancelled appointments for a
	// doctor on a date, used for capacity and slot-uniqueness checks.
	ActiveByDoctorDate(ctx context.Context, doctorID, date string) ([]Appointment, error)

	ListByDoctorDate(ctx context.Context, doctorID, date string) ([]Appointment, error)
	ListByPatient(ctx context.Context, patientID string) ([]Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Insert creates a confirmed appointment. A storage-level uniqueness
	// violation on (doctor, date, time) surfaces as ErrSlotTaken.
	Insert(ctx context.Context, appt Appointment) (uuid.UUID, error)

	// Cancel soft-cancels: status flips to cancelled with reason, actor
	// and timestamp recorded. The row is retained.
	Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) error
}

// DoctorGate answers whether a doctor exists and is approved to take
// bookings. Implemented by the doctor package's repository.
type DoctorGate interface {
	IsApproved(ctx context.Context, doctorID string) (bool, error)
}
