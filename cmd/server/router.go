package main

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/voxus-signal/internal/handlers"
	"github.com/thereayou/voxus-signal/internal/middleware"
)

func APIEndpoints(r *gin.Engine, policy *middleware.OriginPolicy, healthH *handlers.HealthHandler, wsH *handlers.WebSocketHandler) {
	r.Use(middleware.CORS(policy))

	r.GET("/", healthH.Banner)
	r.GET("/health", healthH.Health)

	// Signaling socket
	r.GET("/ws", wsH.HandleWebSocket)
}
