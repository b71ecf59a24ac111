package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/sketchroom-server/internal/config"
	"github.com/vovakirdan/sketchroom-server/internal/core"
)

// NewServer builds the HTTP server: REST endpoints for room management and
// monitoring plus the WebSocket drawing endpoint.
func NewServer(gateway *core.Gateway, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	rooms := NewRoomHandlers(gateway.Registry(), logger)
	api := router.Group("/api/rooms")
	api.POST("/create", rooms.CreateRoom)
	api.GET("/health", rooms.Health)
	api.GET("/status", rooms.Status)
	api.GET("/users", rooms.Users)

	monitoring := NewMonitoringHandlers()
	router.GET("/monitoring/health", monitoring.Health)

	router.GET("/drawing", gin.WrapH(NewWSHandler(gateway, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
