package presence

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnConnectRecordsConnection(t *testing.T) {
	directory := newFakeDirectory()
	cache := NewIdentityCache(time.Minute)
	lc := NewLifecycle(directory, cache, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, lc.OnConnect(ctx, "conn-1"))

	rec, err := directory.FindByConnectionID(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusConnected, rec.Status)
	assert.Empty(t, rec.UserID)
	assert.False(t, rec.ConnectedAt.IsZero())
}

func TestOnConnectDirectoryOutageIsFatal(t *testing.T) {
	directory := newFakeDirectory()
	directory.down = true
	lc := NewLifecycle(directory, NewIdentityCache(time.Minute), zerolog.Nop())

	err := lc.OnConnect(context.Background(), "conn-1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestOnDisconnectMarksRecordAndClearsCache(t *testing.T) {
	directory := newFakeDirectory()
	cache := NewIdentityCache(time.Minute)
	lc := NewLifecycle(directory, cache, zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, lc.OnConnect(ctx, "conn-1"))
	require.NoError(t, directory.Upsert(ctx, "conn-1", UpsertFields{UserID: "PAT-1"}))
	cache.Set("PAT-1", "conn-1")

	require.NoError(t, lc.OnDisconnect(ctx, "conn-1"))

	rec, err := directory.FindByConnectionID(ctx, "conn-1")
	require.NoError(t, err)
	assert.Equal(t, StatusDisconnected, rec.Status)
	require.NotNil(t, rec.DisconnectedAt)

	_, found := cache.Get("PAT-1")
	assert.False(t, found)
	_, found = cache.GetUserID("conn-1")
	assert.False(t, found)
}

func TestOnDisconnectUnknownConnectionIsTolerated(t *testing.T) {
	lc := NewLifecycle(newFakeDirectory(), NewIdentityCache(time.Minute), zerolog.Nop())

	assert.NoError(t, lc.OnDisconnect(context.Background(), "never-seen"))
}

func TestOnDisconnectFallsBackToCacheIdentity(t *testing.T) {
	directory := newFakeDirectory()
	cache := NewIdentityCache(time.Minute)
	lc := NewLifecycle(directory, cache, zerolog.Nop())
	ctx := context.Background()

	// Directory never saw the registration, the cache did.
	cache.Set("PAT-1", "conn-1")
	directory.down = true

	err := lc.OnDisconnect(ctx, "conn-1")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	// Cache is still cleaned up despite the directory outage.
	_, found := cache.Get("PAT-1")
	assert.False(t, found)
	_, found = cache.GetUserID("conn-1")
	assert.False(t, found)
}
