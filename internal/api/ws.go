package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/pookiesms/pookiesms/internal/middleware"
	"github.com/pookiesms/pookiesms/internal/notify"
	"go.uber.org/zap"
)

// WSHandler upgrades authenticated dashboard connections and attaches them
// to the notification hub, so new messages appear without polling.
type WSHandler struct {
	hub      *notify.Hub
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(hub *notify.Hub, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Connect handles GET /v1/ws
//
// The connection is bound to the signed-in principal; a recipient only ever
// receives their own messages on it.
func (h *WSHandler) Connect(c *gin.Context) {
	username := middleware.GetUsername(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := notify.NewClient(h.hub, conn, username)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
