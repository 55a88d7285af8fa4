package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrMissingPhone = errors.New("phone number required")
	ErrCodeExpired  = errors.New("passcode expired or never issued")
	ErrCodeMismatch = errors.New("passcode does not match")

	// ErrSenderUnavailable wraps a dispatch failure. The stored code is
	// discarded so a code the user never received cannot be verified.
	ErrSenderUnavailable = errors.New("passcode sender unavailable")
)

// Sender dispatches the passcode out of band (SMS or similar). Single
// attempt; the caller owns the deadline.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// CodeStore holds issued codes under a TTL.
type CodeStore interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	// Get returns the live code or ErrCodeExpired.
	Get(ctx context.Context, phone string) (string, error)
	Delete(ctx context.Context, phone string) error
}

// Service issues and verifies one-time passcodes.
type Service struct {
	store  CodeStore
	sender Sender
	ttl    time.Duration
	log    zerolog.Logger
}

func NewService(store CodeStore, sender Sender, ttl time.Duration, log zerolog.Logger) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		store:  store,
		sender: sender,
		ttl:    ttl,
		log:    log.With().Str("component", "otp_service").Logger(),
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()+1000), nil
}

// Send issues a fresh 4-digit code for the phone number. A failure to
// dispatch discards the stored code.
func (s *Service) Send(ctx context.Context, phone string) error {
	if phone == "" {
		return ErrMissingPhone
	}

	code, err := generateCode()
	if err != nil {
		return fmt.Errorf("generate passcode: %w", err)
	}

	if err := s.store.Put(ctx, phone, code, s.ttl); err != nil {
		return fmt.Errorf("store passcode: %w", err)
	}

	if err := s.sender.Send(ctx, phone, fmt.Sprintf("Your OTP is %s", code)); err != nil {
		_ = s.store.Delete(ctx, phone)
		return fmt.Errorf("%w: %v", ErrSenderUnavailable, err)
	}

	s.log.Info().Str("phone", phone).Msg("passcode sent")
	return nil
}

// Verify checks the code and consumes it on success.
func (s *Service) Verify(ctx context.Context, phone, code string) error {
	if phone == "" {
		return ErrMissingPhone
	}

	stored, err := s.store.Get(ctx, phone)
	if err != nil {
		return err
	}

	if stored != code {
		return ErrCodeMismatch
	}

	if err := s.store.Delete(ctx, phone); err != nil {
		s.log.Warn().Err(err).Str("phone", phone).Msg("failed to consume verified passcode")
	}
	return nil
}

// LogSender is the dev fallback Sender: it logs instead of dispatching.
type LogSender struct {
	Log zerolog.Logger
}

func (s LogSender) Send(_ context.Context, phone, message string) error {
	s.Log.Info().Str("phone", phone).Str("message", message).Msg("otp (log sender)")
	return nil
}
