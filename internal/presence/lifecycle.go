package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Lifecycle handles transport-level connect and disconnect events and
// keeps the directory and identity cache in step with them.
type Lifecycle struct {
	directory Directory
	cache     *IdentityCache
	log       zerolog.Logger
}

func NewLifecycle(directory Directory, cache *IdentityCache, log zerolog.Logger) *Lifecycle {
	return &Lifecycle{
		directory: directory,
		cache:     cache,
		log:       log.With().Str("component", "presence_lifecycle").Logger(),
	}
}

// OnConnect records the new connection in the directory. This is the one
// place a directory failure is fatal: without a row, later identity
// resolution for this connection is impossible.
func (l *Lifecycle) OnConnect(ctx context.Context, connectionID string) error {
	err := l.directory.Upsert(ctx, connectionID, UpsertFields{
		Status:      StatusConnected,
		ConnectedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("establish connection %s: %w", connectionID, err)
	}
	return nil
}

// OnDisconnect marks the record disconnected and invalidates the cache
// entries so stale in-memory state does not outlive the session. The
// identity lookup is best-effort, for log correlation only.
func (l *Lifecycle) OnDisconnect(ctx context.Context, connectionID string) error {
	rec, err := l.directory.FindByConnectionID(ctx, connectionID)
	if err == nil && rec.UserID != "" {
		l.log.Info().
			Str("connection_id", connectionID).
			Str("user_id", rec.UserID).
			Msg("user disconnected")
		l.cache.DeleteUser(rec.UserID)
	} else if userID, found := l.cache.GetUserID(connectionID); found {
		l.cache.DeleteUser(userID)
	}
	l.cache.DeleteConnection(connectionID)

	if err := l.directory.MarkDisconnected(ctx, connectionID); err != nil {
		if errors.Is(err, ErrConnectionNotFound) {
			return nil
		}
		return fmt.Errorf("mark disconnected %s: %w", connectionID, err)
	}
	return nil
}
