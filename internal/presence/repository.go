package presence

import (
	"context"
	"errors"
)

var (
	ErrConnectionNotFound = errors.New("connection not found")

	// ErrStoreUnavailable means the directory's backing store is
	// unreachable. The router treats it as a degraded mode and keeps
	// serving from the identity cache; only connection establishment
	// treats it as fatal.
	ErrStoreUnavailable = errors.New("connection directory unavailable")
)

// Directory is the persisted mapping from logical user identity to the
// current transport connection. It survives process restarts and is the
// source of truth the identity cache reconciles against.
type Directory interface {
	// Upsert inserts or updates the record keyed by connectionID,
	// merging the given fields. Idempotent.
	Upsert(ctx context.Context, connectionID string, fields UpsertFields) error

	// FindByUserID returns the most recently updated record for the
	// user, or ErrConnectionNotFound.
	FindByUserID(ctx context.Context, userID string) (*ConnectionRecord, error)

	FindByConnectionID(ctx context.Context, connectionID string) (*ConnectionRecord, error)

	// Remove hard-deletes a record. Used only for stale-connection cleanup.
	Remove(ctx context.Context, connectionID string) error

	// MarkDisconnected flips the record to disconnected and stamps the
	// time. The record is retained.
	MarkDisconnected(ctx context.Context, connectionID string) error
}
