package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgDirectory is the Postgres-backed Directory. Every operation runs under
// a short deadline so a hung store cannot block a frame handler, and any
// operational failure surfaces as ErrStoreUnavailable.
type PgDirectory struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPgDirectory(pool *pgxpool.Pool, timeout time.Duration) *PgDirectory {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &PgDirectory{pool: pool, timeout: timeout}
}

func (d *PgDirectory) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, op, err)
}

func scanConnection(row pgx.Row) (*ConnectionRecord, error) {
	var rec ConnectionRecord
	var userID *string
	var disconnectedAt *time.Time

	err := row.Scan(
		&rec.ConnectionID,
		&userID,
		&rec.Status,
		&rec.ConnectedAt,
		&disconnectedAt,
	)
	if err != nil {
		return nil, err
	}

	if userID != nil {
		rec.UserID = *userID
	}
	rec.DisconnectedAt = disconnectedAt
	return &rec, nil
}

func (d *PgDirectory) Upsert(ctx context.Context, connectionID string, fields UpsertFields) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	connectedAt := fields.ConnectedAt
	if connectedAt.IsZero() {
		connectedAt = time.Now()
	}
	status := fields.Status
	if status == "" {
		status = StatusConnected
	}

	var userID *string
	if fields.UserID != "" {
		userID = &fields.UserID
	}

	_, err := d.pool.Exec(opCtx, `
		INSERT INTO connections (connection_id, user_id, status, connected_at, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (connection_id) DO UPDATE SET
			user_id      = COALESCE(EXCLUDED.user_id, connections.user_id),
			status       = EXCLUDED.status,
			connected_at = EXCLUDED.connected_at,
			updated_at   = now()
	`, connectionID, userID, status, connectedAt)
	if err != nil {
		return storeErr("upsert connection", err)
	}
	return nil
}

func (d *PgDirectory) FindByUserID(ctx context.Context, userID string) (*ConnectionRecord, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	// user_id is not unique; take the most recently updated record.
	row := d.pool.QueryRow(opCtx, `
		SELECT connection_id, user_id, status, connected_at, disconnected_at
		FROM connections
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID)

	rec, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, storeErr("find by user id", err)
	}
	return rec, nil
}

func (d *PgDirectory) FindByConnectionID(ctx context.Context, connectionID string) (*ConnectionRecord, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	row := d.pool.QueryRow(opCtx, `
		SELECT connection_id, user_id, status, connected_at, disconnected_at
		FROM connections
		WHERE connection_id = $1
	`, connectionID)

	rec, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, storeErr("find by connection id", err)
	}
	return rec, nil
}

func (d *PgDirectory) Remove(ctx context.Context, connectionID string) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	_, err := d.pool.Exec(opCtx, `
		DELETE FROM connections WHERE connection_id = $1
	`, connectionID)
	if err != nil {
		return storeErr("remove connection", err)
	}
	return nil
}

func (d *PgDirectory) MarkDisconnected(ctx context.Context, connectionID string) error {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	tag, err := d.pool.Exec(opCtx, `
		UPDATE connections
		SET status = $2, disconnected_at = now(), updated_at = now()
		WHERE connection_id = $1
	`, connectionID, StatusDisconnected)
	if err != nil {
		return storeErr("mark disconnected", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConnectionNotFound
	}
	return nil
}

// PurgeDisconnectedBefore hard-deletes records that have been disconnected
// since before the cutoff. Called by the cleanup worker, not the router.
func (d *PgDirectory) PurgeDisconnectedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	opCtx, cancel := d.opCtx(ctx)
	defer cancel()

	tag, err := d.pool.Exec(opCtx, `
		DELETE FROM connections
		WHERE status = $1 AND disconnected_at < $2
	`, StatusDisconnected, cutoff)
	if err != nil {
		return 0, storeErr("purge disconnected", err)
	}
	return tag.RowsAffected(), nil
}
