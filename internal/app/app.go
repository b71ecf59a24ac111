package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/config"
	"github.com/vovakirdan/sketchroom-server/internal/core"
	transporthttp "github.com/vovakirdan/sketchroom-server/internal/transport/http"
)

// App wires together the core gateway and the transport layer.
type App struct {
	server          *stdhttp.Server
	gateway         *core.Gateway
	shutdownTimeout time.Duration
	sweepInterval   time.Duration
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	gateway := core.NewGateway(logger)
	server := transporthttp.NewServer(gateway, cfg, logger)

	return &App{
		server:          server,
		gateway:         gateway,
		shutdownTimeout: cfg.ShutdownTimeout,
		sweepInterval:   cfg.SweepInterval,
		log:             logger,
	}
}

// Run starts the HTTP server and the idle-room sweeper and blocks until
// context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.sweepLoop(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// sweepLoop periodically reclaims empty rooms. Advisory only: the gateway
// removes a room synchronously when its last player leaves.
func (a *App) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := a.gateway.SweepEmptyRooms(); removed > 0 {
				a.log.Debug().Int("removed", removed).Msg("swept empty rooms")
			}
		}
	}
}
