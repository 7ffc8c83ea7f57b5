package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pion/logging"

	"github.com/thereayou/voxus-signal/internal/middleware"
	ws "github.com/thereayou/voxus-signal/internal/websocket"
)

// WebSocketHandler upgrades signaling connections and hands them to the hub.
type WebSocketHandler struct {
	hub            *ws.Hub
	messageHandler *MessageHandler
	upgrader       websocket.Upgrader
	clientOpts     ws.ClientOptions
	log            logging.LeveledLogger
}

func NewWebSocketHandler(hub *ws.Hub, messageHandler *MessageHandler, policy *middleware.OriginPolicy, clientOpts ws.ClientOptions, log logging.LeveledLogger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:            hub,
		messageHandler: messageHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     policy.CheckOrigin,
		},
		clientOpts: clientOpts,
		log:        log,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debugf("upgrade from %s failed: %v", c.ClientIP(), err)
		return
	}

	connID := uuid.NewString()
	client := ws.NewClient(h.hub, conn, connID, h.clientOpts)

	h.messageHandler.HandleConnect(connID)
	if err := h.hub.Register(client); err != nil {
		h.log.Warnf("rejecting %s: %v", connID, err)
		h.messageHandler.HandleDisconnect(connID)
		conn.Close()
		return
	}

	go client.WritePump()
	go client.ReadPump(h.messageHandler)
}
