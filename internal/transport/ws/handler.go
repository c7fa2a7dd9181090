package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"sketchguess/internal/config"
)

// Handler handles WebSocket connections
type Handler struct {
	router      Router
	upgrader    websocket.Upgrader
	createRate  rate.Limit
	createBurst int
	logger      *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(router Router, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		router: router,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return cfg.AllowsOrigin(r.Header.Get("Origin"))
			},
		},
		createRate:  rate.Limit(cfg.Game.CreateRoomRate),
		createBurst: cfg.Game.CreateRoomBurst,
		logger:      logger,
	}
}

// ServeHTTP upgrades the request and serves the connection until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	id := uuid.New().String()
	client := NewClient(id, conn, h.router, rate.NewLimiter(h.createRate, h.createBurst), h.logger)

	h.logger.Info("websocket connected", "connID", id, "remoteAddr", r.RemoteAddr)

	client.Run()

	h.logger.Info("websocket disconnected", "connID", id)
}
