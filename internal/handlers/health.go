package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/voxus-signal/internal/services"
)

const Version = "1.0.0"

type HealthHandler struct {
	relay *services.Relay
}

func NewHealthHandler(relay *services.Relay) *HealthHandler {
	return &HealthHandler{relay: relay}
}

// Health reports the live room and connection counts.
func (h *HealthHandler) Health(c *gin.Context) {
	stats := h.relay.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"rooms":     stats.Rooms,
		"users":     stats.Users,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "WebRTC signaling server is running",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
