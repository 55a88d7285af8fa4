package doctor

import (
	"context"
	"errors"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorExists      = errors.New("doctor already registered")
	ErrInvalidCredential = errors.New("invalid doctor credentials")
	ErrNotApproved       = errors.New("doctor is not approved yet")
	ErrMissingFields     = errors.New("missing required doctor fields")
)

type Repository interface {
	GetByDoctorID(ctx context.Context, doctorID string) (*Doctor, error)
	GetByPhone(ctx context.Context, phone string) (*Doctor, error)
	Insert(ctx context.Context, d Doctor) error
	Update(ctx context.Context, doctorID string, d Doctor) error
	SetPassword(ctx context.Context, doctorID, passwordHash string) error
	ListApproved(ctx context.Context) ([]Doctor, error)
	IsApproved(ctx context.Context, doctorID string) (bool, error)
}
