package patient

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

type Service struct {
	repo Repository
	log  zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log.With().Str("component", "patient_service").Logger(),
	}
}

func newPatientID() string {
	millis := fmt.Sprintf("%d", time.Now().UnixMilli())
	return fmt.Sprintf("PAT-%s%02d", millis[len(millis)-6:], rand.Intn(90)+10)
}

// Register creates a patient keyed by a generated PAT- id. The phone
// number is the login identifier and must be unique.
func (s *Service) Register(ctx context.Context, p Patient) (string, error) {
	if p.Name == "" || p.PhoneNumber == "" {
		return "", ErrMissingFields
	}

	if _, err := s.repo.GetByPhone(ctx, p.PhoneNumber); err == nil {
		return "", ErrPatientExists
	} else if !errors.Is(err, ErrPatientNotFound) {
		return "", fmt.Errorf("check existing patient: %w", err)
	}

	p.PatientID = newPatientID()

	if err := s.repo.Insert(ctx, p); err != nil {
		return "", err
	}

	s.log.Info().Str("patient_id", p.PatientID).Msg("patient registered")
	return p.PatientID, nil
}

// Login looks a patient up by phone number. ErrPatientNotFound tells the
// client to proceed to registration.
func (s *Service) Login(ctx context.Context, phone string) (*Patient, error) {
	if phone == "" {
		return nil, ErrMissingFields
	}
	return s.repo.GetByPhone(ctx, phone)
}

func (s *Service) Get(ctx context.Context, patientID string) (*Patient, error) {
	return s.repo.GetByPatientID(ctx, patientID)
}

func (s *Service) Update(ctx context.Context, patientID string, p Patient) error {
	if patientID == "" {
		return ErrMissingFields
	}
	return s.repo.Update(ctx, patientID, p)
}

// AssignDoctor associates a doctor with a patient. Called by the presence
// router when a doctor accepts a connection request.
func (s *Service) AssignDoctor(ctx context.Context, patientID, doctorID string) error {
	if patientID == "" || doctorID == "" {
		return ErrMissingFields
	}

	if err := s.repo.AssignDoctor(ctx, patientID, doctorID); err != nil {
		return err
	}

	s.log.Info().
		Str("patient_id", patientID).
		Str("doctor_id", doctorID).
		Msg("patient associated with doctor")
	return nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string) ([]Patient, error) {
	if doctorID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}
