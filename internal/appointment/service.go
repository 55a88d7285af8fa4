package appointment

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	redisclient "github.com/medinex/telehealth-backend/internal/redis"
)

type BookingRequest struct {
	PatientID string
	DoctorID  string
	Date      string
	Time      string
	Reason    string
}

type Service struct {
	repo    Repository
	doctors DoctorGate
	locker  redisclient.Locker
	log     zerolog.Logger
}

func NewService(repo Repository, doctors DoctorGate, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		doctors: doctors,
		locker:  locker,
		log:     log.With().Str("component", "appointment_service").Logger(),
	}
}

// Book reserves a slot for a patient with a confirmed appointment. The
// capacity and uniqueness checks run inside a per doctor-per-date lock so
// two concurrent bookings cannot both pass them; the storage layer's
// unique index backs the lock up.
func (s *Service) Book(ctx context.Context, req BookingRequest) (uuid.UUID, error) {
	if req.PatientID == "" || req.DoctorID == "" || req.Date == "" || req.Time == "" || req.Reason == "" {
		return uuid.Nil, ErrMissingFields
	}
	if !slices.Contains(Slots, req.Time) {
		return uuid.Nil, ErrInvalidSlot
	}

	approved, err := s.doctors.IsApproved(ctx, req.DoctorID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("check doctor: %w", err)
	}
	if !approved {
		return uuid.Nil, ErrDoctorNotFound
	}

	var created uuid.UUID

	err = s.locker.WithBookingLock(ctx, req.DoctorID, req.Date, func(lockCtx context.Context) error {
		active, err := s.repo.ActiveByDoctorDate(lockCtx, req.DoctorID, req.Date)
		if err != nil {
			return fmt.Errorf("load appointments: %w", err)
		}

		if len(active) >= MaxPerDay {
			return ErrDoctorFullyBooked
		}
		for _, appt := range active {
			if appt.Time == req.Time {
				return ErrSlotTaken
			}
		}

		id, err := s.repo.Insert(lockCtx, Appointment{
			PatientID: req.PatientID,
			DoctorID:  req.DoctorID,
			Date:      req.Date,
			Time:      req.Time,
			Reason:    req.Reason,
			Status:    StatusConfirmed,
		})
		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}

		created = id
		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			// Someone else is booking this doctor and date right now;
			// the caller retries.
			return uuid.Nil, ErrSlotTaken
		}
		return uuid.Nil, err
	}

	s.log.Info().
		Stringer("appointment_id", created).
		Str("doctor_id", req.DoctorID).
		Str("date", req.Date).
		Str("time", req.Time).
		Msg("appointment booked")

	return created, nil
}

// Cancel soft-cancels an appointment, keeping the row for audit.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason, cancelledBy string) error {
	if err := s.repo.Cancel(ctx, id, reason, cancelledBy); err != nil {
		return err
	}

	s.log.Info().
		Stringer("appointment_id", id).
		Str("cancelled_by", cancelledBy).
		Msg("appointment cancelled")
	return nil
}

// AvailableSlots returns the fixed slot set minus the booked times for a
// doctor and date, order preserved.
func (s *Service) AvailableSlots(ctx context.Context, doctorID, date string) ([]string, error) {
	if doctorID == "" || date == "" {
		return nil, ErrMissingFields
	}

	active, err := s.repo.ActiveByDoctorDate(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load appointments: %w", err)
	}

	booked := make(map[string]bool, len(active))
	for _, appt := range active {
		booked[appt.Time] = true
	}

	available := make([]string, 0, len(Slots))
	for _, slot := range Slots {
		if !booked[slot] {
			available = append(available, slot)
		}
	}
	return available, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByDoctorDate(ctx context.Context, doctorID, date string) ([]Appointment, error) {
	if doctorID == "" || date == "" {
		return nil, ErrMissingFields
	}
	return s.repo.ListByDoctorDate(ctx, doctorID, date)
}

func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]Appointment, error) {
	if patientID == "" {
		return nil, ErrMissingFields
	}
	return s.repo.ListByPatient(ctx, patientID)
}
