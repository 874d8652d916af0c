package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mkazancev/relaychat-server/internal/auth"
	"github.com/mkazancev/relaychat-server/internal/config"
	"github.com/mkazancev/relaychat-server/internal/core"
	"github.com/mkazancev/relaychat-server/internal/store"
)

// NewServer builds the HTTP server: REST API, health check and the
// WebSocket endpoint.
func NewServer(hub *core.Hub, authService *auth.Service, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	api := NewAPIHandlers(authService, st, logger)

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	router.POST("/api/signup", api.Signup)
	router.POST("/api/signin", api.Signin)

	authorized := router.Group("/api", AuthMiddleware(authService, logger))
	authorized.GET("/users", api.ListUsers)
	authorized.GET("/messages", api.ListMessages)

	ws := NewWSHandler(hub, cfg.WSMsgRateLimit, logger)
	router.GET("/ws", gin.WrapH(ws))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
