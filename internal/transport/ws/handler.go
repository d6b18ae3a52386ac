package ws

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wordduel/internal/app"
)

// Handler upgrades HTTP requests to WebSocket connections and spawns a
// client per player.
type Handler struct {
	registry *app.Registry
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a WebSocket handler backed by the given registry.
func NewHandler(registry *app.Registry, logger zerolog.Logger) *Handler {
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin checking is delegated to the CORS layer.
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP handles a WebSocket connection request. Each connection gets a
// fresh player identity; rooms are created and joined through intents on
// the open socket.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	playerID := uuid.New().String()
	client := NewClient(conn, h.registry, playerID, h.logger)

	h.logger.Debug().Str("playerID", playerID).Str("remote", r.RemoteAddr).Msg("player connected")
	go client.Run()
}
