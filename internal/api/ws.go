package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/medinex/telehealth-backend/internal/gateway"
	"github.com/medinex/telehealth-backend/internal/presence"
)

// WSHandler owns the websocket endpoint: it upgrades the request, assigns
// a connection id, runs the lifecycle hooks and feeds every inbound frame
// through the presence router.
type WSHandler struct {
	hub       *gateway.Hub
	lifecycle *presence.Lifecycle
	router    *presence.Router
	upgrader  websocket.Upgrader
	log       zerolog.Logger
}

func NewWSHandler(hub *gateway.Hub, lifecycle *presence.Lifecycle, router *presence.Router, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		hub:       hub,
		lifecycle: lifecycle,
		router:    router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log.With().Str("component", "ws_handler").Logger(),
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	connectionID := uuid.NewString()
	h.hub.Attach(connectionID, conn)

	if err := h.lifecycle.OnConnect(r.Context(), connectionID); err != nil {
		// Without a directory row this connection can never be resolved,
		// so establishment fails outright.
		h.log.Error().Err(err).Str("connection_id", connectionID).
			Msg("connection establishment failed")
		h.hub.Detach(connectionID)
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "service unavailable"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}

	h.log.Info().Str("connection_id", connectionID).Msg("websocket connected")

	h.readLoop(r.Context(), connectionID, conn)

	h.hub.Detach(connectionID)
	_ = conn.Close()

	// The request context is dead once the client is gone; the disconnect
	// bookkeeping gets its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.lifecycle.OnDisconnect(ctx, connectionID); err != nil {
		h.log.Warn().Err(err).Str("connection_id", connectionID).
			Msg("disconnect bookkeeping failed")
	}
	h.log.Info().Str("connection_id", connectionID).Msg("websocket disconnected")
}

func (h *WSHandler) readLoop(ctx context.Context, connectionID string, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn().Err(err).Str("connection_id", connectionID).
					Msg("websocket read error")
			}
			return
		}

		result := h.router.Dispatch(ctx, connectionID, raw)

		// The structured outcome goes back on the same connection. If the
		// socket died mid-dispatch the read loop will notice next
		// iteration; nothing to do here.
		if err := h.hub.PostToConnection(ctx, connectionID, result); err != nil {
			h.log.Warn().Err(err).Str("connection_id", connectionID).
				Msg("failed to write dispatch result")
			return
		}
	}
}
