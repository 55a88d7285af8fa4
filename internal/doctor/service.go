package doctor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "doctor_service").Logger(),
	}
}

// newDoctorID builds a human-readable unique login id, DOC- plus the tail
// of the current unix millis and two random digits.
func newDoctorID() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("DOC-%s%02d", millis[len(millis)-6:], rand.Intn(90)+10)
}

// Register creates an unapproved doctor. Approval is a manual step; an
// unapproved doctor cannot log in or take bookings.
func (s *Service) Register(ctx context.Context, d Doctor) (string, error) {
	if d.Name == "" || d.PhoneNumber == "" {
		return "", ErrMissingFields
	}

	if _, err := s.repo.GetByPhone(ctx, d.PhoneNumber); err == nil {
		return "", ErrDoctorExists
	} else if !errors.Is(err, ErrDoctorNotFound) {
		return "", fmt.Errorf("check existing doctor: %w", err)
	}

	d.DoctorID = newDoctorID()
	d.IsApproved = false

	if err := s.repo.Insert(ctx, d); err != nil {
		return "", err
	}

	s.log.Info().Str("doctor_id", d.DoctorID).Msg("doctor registered, pending approval")
	return d.DoctorID, nil
}

// SetPassword hashes and stores the doctor's password.
func (s *Service) SetPassword(ctx context.Context, doctorID, password string) error {
	if doctorID == "" || password == "" {
		return ErrMissingFields
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.repo.SetPassword(ctx, doctorID, string(hash))
}

// Login authenticates by doctor id and password. Unapproved doctors are
// rejected even with valid credentials.
func (s *Service) Login(ctx context.Context, doctorID, password string) (*Doctor, error) {
	if doctorID == "" || password == "" {
		return nil, ErrMissingFields
	}

	d, err := s.repo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if !d.IsApproved {
		return nil, ErrNotApproved
	}
	if d.PasswordHash == "" {
		return nil, ErrInvalidCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(d.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredential
	}

	d.PasswordHash = ""
	return d, nil
}

func (s *Service) Get(ctx context.Context, doctorID string) (*Doctor, error) {
	d, err := s.repo.GetByDoctorID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	d.PasswordHash = ""
	return d, nil
}

func (s *Service) Update(ctx context.Context, doctorID string, d Doctor) error {
	if doctorID == "" {
		return ErrMissingFields
	}
	return s.repo.Update(ctx, doctorID, d)
}

func (s *Service) ListApproved(ctx context.Context) ([]Doctor, error) {
	return s.repo.ListApproved(ctx)
}
