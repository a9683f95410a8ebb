// Package api exposes the service over HTTP.
package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/rpgo/fire-engine/internal/service"
)

// Options configures the router.
type Options struct {
	AllowOrigins []string
	Logger       zerolog.Logger
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(svc *service.Service, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(opts.Logger))

	if len(opts.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{headerRunID, headerCache},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handler{svc: svc}
	r.GET("/healthz", h.health)

	api := r.Group("/api")
	{
		api.POST("/simulations", h.simulate)
		api.POST("/projections", h.project)
		api.POST("/targets", h.targets)
		api.GET("/history", h.history)
	}
	return r
}

// requestLogger writes one zerolog event per request.
func requestLogger(zl zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := zl.Info()
		switch {
		case status >= 500:
			event = zl.Error()
		case status >= 400:
			event = zl.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
