package handlers

import (
	"net/http"

	"trivia/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is open to every origin
	},
}

type EventsHandler struct {
	hub    *services.Hub
	logger *zap.Logger
}

func NewEventsHandler(hub *services.Hub, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, logger: logger}
}

// Subscribe upgrades the request to a websocket that receives every question
// created or deleted through the API.
func (h *EventsHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Info("websocket upgrade failed", zap.Error(err))
		return
	}

	client := h.hub.RegisterClient(conn)
	if client == nil {
		h.logger.Info("hub stopped, websocket rejected")
	}
}
