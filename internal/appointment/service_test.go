package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/medinex/telehealth-backend/internal/redis"
)

type fakeRepo struct {
	mu    sync.Mutex
	appts map[uuid.UUID]*Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appts: make(map[uuid.UUID]*Appointment)}
}

func (r *fakeRepo) ActiveByDoctorDate(_ context.Context, doctorID, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date == date && a.Status != StatusCancelled {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByDoctorDate(_ context.Context, doctorID, date string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date == date {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListByPatient(_ context.Context, patientID string) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Appointment
	for _, a := range r.appts {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) Insert(_ context.Context, appt Appointment) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == appt.DoctorID && a.Date == appt.Date && a.Time == appt.Time && a.Status != StatusCancelled {
			return uuid.Nil, ErrSlotTaken
		}
	}
	appt.ID = uuid.New()
	appt.CreatedAt = time.Now()
	r.appts[appt.ID] = &appt
	return appt.ID, nil
}

func (r *fakeRepo) Cancel(_ context.Context, id uuid.UUID, reason, cancelledBy string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok || a.Status == StatusCancelled {
		return ErrAppointmentNotFound
	}
	now := time.Now()
	a.Status = StatusCancelled
	a.CancellationReason = &reason
	a.CancelledBy = &cancelledBy
	a.CancelledAt = &now
	return nil
}

type fakeGate struct {
	approved map[string]bool
}

func (g fakeGate) IsApproved(_ context.Context, doctorID string) (bool, error) {
	return g.approved[doctorID], nil
}

// passLocker runs the critical section inline, no Redis involved.
type passLocker struct{}

func (passLocker) WithBookingLock(ctx context.Context, _, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

type busyLocker struct{ err error }

func (l busyLocker) WithBookingLock(context.Context, string, string, func(context.Context) error) error {
	return l.err
}

func newTestService(repo Repository) *Service {
	gate := fakeGate{approved: map[string]bool{"DOC-1": true}}
	return NewService(repo, gate, passLocker{}, zerolog.Nop())
}

func validRequest() BookingRequest {
	return BookingRequest{
		PatientID: "PAT-1",
		DoctorID:  "DOC-1",
		Date:      "2026-09-10",
		Time:      "10:00",
		Reason:    "checkup",
	}
}

func TestBookConfirmsAppointment(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	id, err := svc.Book(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	appt, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, appt.Status)
	assert.Equal(t, "10:00", appt.Time)
}

func TestBookValidation(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(*BookingRequest)
		wantErr error
	}{
		{"missing patient", func(r *BookingRequest) { r.PatientID = "" }, ErrMissingFields},
		{"missing doctor", func(r *BookingRequest) { r.DoctorID = "" }, ErrMissingFields},
		{"missing date", func(r *BookingRequest) { r.Date = "" }, ErrMissingFields},
		{"missing time", func(r *BookingRequest) { r.Time = "" }, ErrMissingFields},
		{"missing reason", func(r *BookingRequest) { r.Reason = "" }, ErrMissingFields},
		{"off-grid time", func(r *BookingRequest) { r.Time = "11:30" }, ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			_, err := svc.Book(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBookUnknownDoctor(t *testing.T) {
	svc := newTestService(newFakeRepo())

	req := validRequest()
	req.DoctorID = "DOC-GHOST"
	_, err := svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookSlotTaken(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Book(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.PatientID = "PAT-2"
	_, err = svc.Book(ctx, req)
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookDifferentSlotSucceeds(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Book(ctx, validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.PatientID = "PAT-2"
	req.Time = "12:00"
	_, err = svc.Book(ctx, req)
	assert.NoError(t, err)
}

func TestBookFullyBooked(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	for i, slot := range Slots {
		req := validRequest()
		req.PatientID = string(rune('A' + i))
		req.Time = slot
		_, err := svc.Book(ctx, req)
		require.NoError(t, err)
	}

	req := validRequest()
	req.PatientID = "PAT-LATE"
	_, err := svc.Book(ctx, req)
	assert.ErrorIs(t, err, ErrDoctorFullyBooked)
}

func TestBookCancelledSlotReopens(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	id, err := svc.Book(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, id, "patient request", "PAT-1"))

	req := validRequest()
	req.PatientID = "PAT-2"
	_, err = svc.Book(ctx, req)
	assert.NoError(t, err)
}

func TestBookLockContention(t *testing.T) {
	gate := fakeGate{approved: map[string]bool{"DOC-1": true}}
	svc := NewService(newFakeRepo(), gate, busyLocker{err: redisclient.ErrLockNotAcquired}, zerolog.Nop())

	_, err := svc.Book(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCancelIsSoft(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	id, err := svc.Book(ctx, validRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Cancel(ctx, id, "feeling better", "PAT-1"))

	appt, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancellationReason)
	assert.Equal(t, "feeling better", *appt.CancellationReason)
	require.NotNil(t, appt.CancelledBy)
	assert.Equal(t, "PAT-1", *appt.CancelledBy)
	assert.NotNil(t, appt.CancelledAt)
}

func TestCancelUnknownAppointment(t *testing.T) {
	svc := newTestService(newFakeRepo())

	err := svc.Cancel(context.Background(), uuid.New(), "x", "PAT-1")
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestAvailableSlotsPreservesOrder(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	slots, err := svc.AvailableSlots(ctx, "DOC-1", "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "12:00", "14:00"}, slots)

	_, err = svc.Book(ctx, validRequest())
	require.NoError(t, err)

	slots, err = svc.AvailableSlots(ctx, "DOC-1", "2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, []string{"12:00", "14:00"}, slots)
}

func TestAvailableSlotsEmptyWhenFullyBooked(t *testing.T) {
	svc := newTestService(newFakeRepo())
	ctx := context.Background()

	for i, slot := range Slots {
		req := validRequest()
		req.PatientID = string(rune('A' + i))
		req.Time = slot
		_, err := svc.Book(ctx, req)
		require.NoError(t, err)
	}

	slots, err := svc.AvailableSlots(ctx, "DOC-1", "2026-09-10")
	require.NoError(t, err)
	assert.Empty(t, slots)
}
