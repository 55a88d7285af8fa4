package gateway

import (
	"context"
	"errors"
)

var (
	// ErrStaleConnection means the target transport session no longer
	// exists. Callers must purge the cache and directory entries for the
	// connection; there is nothing to retry.
	ErrStaleConnection = errors.New("stale connection")

	// ErrTransportError is a generic delivery failure. The connection may
	// still be live, so no cleanup happens and the caller decides whether
	// to resend out of band.
	ErrTransportError = errors.New("transport delivery failed")
)

// Client pushes an out-of-band payload to a specific live connection.
type Client interface {
	PostToConnection(ctx context.Context, connectionID string, payload any) error
}
