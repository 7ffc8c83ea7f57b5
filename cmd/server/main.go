package main

import (
	"context"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"

	"github.com/thereayou/voxus-signal/internal/config"
	"github.com/thereayou/voxus-signal/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("%v", err)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("%v", err)
	}
	logger.SetLevel(level)

	srv := NewServer(cfg)
	go func() {
		if err := srv.Run(context.Background()); err != nil {
			logger.Fatalf("server run error: %v", err)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.Server.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"signaling": func(ctx context.Context) error {
				logger.Infof("graceful shutdown initiated")
				return srv.Shutdown(ctx)
			},
		},
	)

	exitCode := <-wait
	logger.Infof("exited with code %d", exitCode)
	os.Exit(exitCode)
}
