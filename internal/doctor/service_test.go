package doctor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoctorRepo struct {
	doctors map[string]*Doctor // keyed by doctor id
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[string]*Doctor)}
}

func (r *fakeDoctorRepo) GetByDoctorID(_ context.Context, doctorID string) (*Doctor, error) {
	d, ok := r.doctors[doctorID]
	if !ok {
		return nil, ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDoctorRepo) GetByPhone(_ context.Context, phone string) (*Doctor, error) {
	for _, d := range r.doctors {
		if d.PhoneNumber == phone {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrDoctorNotFound
}

func (r *fakeDoctorRepo) Insert(_ context.Context, d Doctor) error {
	if _, exists := r.doctors[d.DoctorID]; exists {
		return ErrDoctorExists
	}
	d.CreatedAt = time.Now()
	r.doctors[d.DoctorID] = &d
	return nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, doctorID string, in Doctor) error {
	d, ok := r.doctors[doctorID]
	if !ok {
		return ErrDoctorNotFound
	}
	if in.Name != "" {
		d.Name = in.Name
	}
	if in.Specialization != "" {
		d.Specialization = in.Specialization
	}
	if in.HospitalName != "" {
		d.HospitalName = in.HospitalName
	}
	return nil
}

func (r *fakeDoctorRepo) SetPassword(_ context.Context, doctorID, passwordHash string) error {
	d, ok := r.doctors[doctorID]
	if !ok {
		return ErrDoctorNotFound
	}
	d.PasswordHash = passwordHash
	return nil
}

func (r *fakeDoctorRepo) ListApproved(_ context.Context) ([]Doctor, error) {
	var out []Doctor
	for _, d := range r.doctors {
		if d.IsApproved {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (r *fakeDoctorRepo) IsApproved(_ context.Context, doctorID string) (bool, error) {
	d, ok := r.doctors[doctorID]
	if !ok {
		return false, nil
	}
	return d.IsApproved, nil
}

func (r *fakeDoctorRepo) approve(doctorID string) {
	r.doctors[doctorID].IsApproved = true
}

func registerTestDoctor(t *testing.T, svc *Service) string {
	t.Helper()
	id, err := svc.Register(context.Background(), Doctor{
		Name:           "Dr. Ray",
		PhoneNumber:    "+15550001",
		Specialization: "Cardiology",
	})
	require.NoError(t, err)
	return id
}

func TestRegisterCreatesUnapprovedDoctor(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, zerolog.Nop())

	id := registerTestDoctor(t, svc)
	assert.True(t, strings.HasPrefix(id, "DOC-"))

	d, err := repo.GetByDoctorID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, d.IsApproved)
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.Register(ctx, Doctor{PhoneNumber: "+15550001"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Register(ctx, Doctor{Name: "Dr. Ray"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(), zerolog.Nop())
	registerTestDoctor(t, svc)

	_, err := svc.Register(context.Background(), Doctor{
		Name:        "Dr. Also Ray",
		PhoneNumber: "+15550001",
	})
	assert.ErrorIs(t, err, ErrDoctorExists)
}

func TestLoginFlow(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	id := registerTestDoctor(t, svc)
	require.NoError(t, svc.SetPassword(ctx, id, "s3cret"))

	// Valid credentials, not yet approved.
	_, err := svc.Login(ctx, id, "s3cret")
	assert.ErrorIs(t, err, ErrNotApproved)

	repo.approve(id)

	d, err := svc.Login(ctx, id, "s3cret")
	require.NoError(t, err)
	assert.Equal(t, id, d.DoctorID)
	assert.Empty(t, d.PasswordHash)

	_, err = svc.Login(ctx, id, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginWithoutPassword(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, zerolog.Nop())

	id := registerTestDoctor(t, svc)
	repo.approve(id)

	_, err := svc.Login(context.Background(), id, "anything")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestLoginUnknownDoctor(t *testing.T) {
	svc := NewService(newFakeDoctorRepo(), zerolog.Nop())

	_, err := svc.Login(context.Background(), "DOC-GHOST", "pw")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestGetStripsPasswordHash(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	id := registerTestDoctor(t, svc)
	require.NoError(t, svc.SetPassword(ctx, id, "s3cret"))

	d, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, d.PasswordHash)
}

func TestListApprovedFiltersPending(t *testing.T) {
	repo := newFakeDoctorRepo()
	svc := NewService(repo, zerolog.Nop())
	ctx := context.Background()

	approved := registerTestDoctor(t, svc)
	repo.approve(approved)

	_, err := svc.Register(ctx, Doctor{Name: "Dr. Pending", PhoneNumber: "+15550002"})
	require.NoError(t, err)

	list, err := svc.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, approved, list[0].DoctorID)
}

func TestNewDoctorIDFormat(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		id := newDoctorID()
		assert.Regexp(t, `^DOC-\d{8}$`, id)
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1)
}
