package patient

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrPatientExists   = errors.New("patient already registered with this phone number")
	ErrMissingFields   = errors.New("missing required patient fields")
)

type Repository interface {
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	GetByPhone(ctx context.Context, phone string) (*Patient, error)
	Insert(ctx context.Context, p Patient) error
	Update(ctx context.Context, patientID string, p Patient) error
	AssignDoctor(ctx context.Context, patientID, doctorID string) error
	ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error)
}
