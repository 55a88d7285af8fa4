package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Conn abstracts the underlying websocket connection for testability.
// *websocket.Conn from gorilla/websocket satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// TextMessage matches gorilla/websocket.TextMessage. Declared here so the
// hub does not force the websocket dependency onto every importer.
const TextMessage = 1

type connEntry struct {
	conn Conn
	mu   sync.Mutex // serializes writes to one connection
}

// Hub tracks the live websocket connections owned by this process and
// implements Client against them. Posting to a connection id the hub does
// not know, or writing to a closed socket, reports ErrStaleConnection.
type Hub struct {
	mu           sync.RWMutex
	conns        map[string]*connEntry
	writeTimeout time.Duration
}

func NewHub(writeTimeout time.Duration) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	return &Hub{
		conns:        make(map[string]*connEntry),
		writeTimeout: writeTimeout,
	}
}

// Attach registers a live connection under connectionID, replacing and
// closing any previous connection with the same id.
func (h *Hub) Attach(connectionID string, conn Conn) {
	h.mu.Lock()
	prev, existed := h.conns[connectionID]
	h.conns[connectionID] = &connEntry{conn: conn}
	h.mu.Unlock()

	if existed {
		_ = prev.conn.Close()
	}
}

// Detach forgets the connection. Idempotent; the socket itself is closed
// by the read loop that owns it.
func (h *Hub) Detach(connectionID string) {
	h.mu.Lock()
	delete(h.conns, connectionID)
	h.mu.Unlock()
}

// Has reports whether the hub currently tracks the connection.
func (h *Hub) Has(connectionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[connectionID]
	return ok
}

// Count returns the number of live connections, for health reporting.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

func (h *Hub) PostToConnection(ctx context.Context, connectionID string, payload any) error {
	h.mu.RLock()
	entry, ok := h.conns[connectionID]
	h.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrStaleConnection, connectionID)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal payload: %v", ErrTransportError, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransportError, err)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if err := entry.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
		return h.writeFailed(connectionID, err)
	}
	if err := entry.conn.WriteMessage(TextMessage, data); err != nil {
		return h.writeFailed(connectionID, err)
	}
	return nil
}

// writeFailed detaches the broken connection and reports it stale. A write
// error on a websocket means the session is gone for our purposes.
func (h *Hub) writeFailed(connectionID string, err error) error {
	h.Detach(connectionID)
	return fmt.Errorf("%w: %v", ErrStaleConnection, err)
}
