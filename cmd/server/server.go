package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pion/logging"
	"golang.org/x/sync/errgroup"

	"github.com/thereayou/voxus-signal/internal/config"
	"github.com/thereayou/voxus-signal/internal/handlers"
	"github.com/thereayou/voxus-signal/internal/middleware"
	"github.com/thereayou/voxus-signal/internal/services"
	ws "github.com/thereayou/voxus-signal/internal/websocket"
	"github.com/thereayou/voxus-signal/pkg/logger"
)

type Server struct {
	Router *gin.Engine
	Relay  *services.Relay
	Hub    *ws.Hub
	Timer  *services.RoomTimer

	http *http.Server
	log  logging.LeveledLogger
}

func NewServer(cfg *config.Config) *Server {
	relay := services.NewRelay(services.RelayOptions{
		RoomCapacity: cfg.Rooms.Capacity,
		HistoryLimit: cfg.Rooms.HistoryLimit,
	})
	hub := ws.NewHub(logger.Scope("hub"))
	timer := services.NewRoomTimer(relay, hub, cfg.Rooms.TickInterval, logger.Scope("timer"))

	messageH := handlers.NewMessageHandler(relay, timer, hub, handlers.RouterOptions{
		DefaultRoomMinutes: cfg.Rooms.DefaultMinutes,
		MaxRoomMinutes:     cfg.Rooms.MaxMinutes,
		JoinAnnounceDelay:  cfg.Rooms.JoinAnnounceDelay,
	}, logger.Scope("router"))

	policy := middleware.NewOriginPolicy(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedSuffixes)
	wsH := handlers.NewWebSocketHandler(hub, messageH, policy, ws.ClientOptions{
		MaxMessageBytes: cfg.Socket.MaxMessageBytes,
		PongWait:        cfg.Socket.PongWait,
		PingInterval:    cfg.Socket.PingInterval,
	}, logger.Scope("ws"))
	healthH := handlers.NewHealthHandler(relay)

	router := gin.Default()
	APIEndpoints(router, policy, healthH, wsH)

	return &Server{
		Router: router,
		Relay:  relay,
		Hub:    hub,
		Timer:  timer,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: logger.Scope("server"),
	}
}

// Run serves HTTP and drives the hub until either fails or Shutdown is called.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.Hub.Run(ctx)
	})
	g.Go(func() error {
		s.log.Infof("Server starting on %s", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return g.Wait()
}

// Shutdown stops accepting requests, then tears down the timer, the hub and
// the relay state in that order.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)

	s.Timer.Stop()
	s.Hub.Stop()
	s.Relay.Close()

	s.log.Info("relay state released")
	return err
}
