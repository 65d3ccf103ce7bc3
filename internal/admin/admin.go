// Package admin exposes the HTTP side surface: health, readiness, metrics,
// and connection counters. It never touches client sockets.
package admin

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jmorgan81/calcwire/internal/observability"
	"github.com/jmorgan81/calcwire/internal/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Admin serves the operational HTTP endpoints next to the TCP listener.
type Admin struct {
	ID       string
	Addr     string
	Started  time.Time
	srv      *server.Server
	router   *gin.Engine
	basePath string
}

func New(id, addr string, srv *server.Server, corsOrigins []string) *Admin {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(corsOrigins),
		AllowMethods: []string{"GET"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	return &Admin{
		ID:      id,
		Addr:    addr,
		Started: time.Now(),
		srv:     srv,
		router:  r,
	}
}

// Attach mounts the admin routes on an existing engine, for tests.
func Attach(id string, router *gin.Engine, basePath string, srv *server.Server) *Admin {
	return &Admin{
		ID:       id,
		Started:  time.Now(),
		srv:      srv,
		router:   router,
		basePath: basePath,
	}
}

func (a *Admin) RegisterRoutes() {
	routes := a.routes()
	routes.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(a.Started).String(),
			"server":  a.ID,
			"version": "0.1.0",
		})
	})

	routes.GET("/ready", func(c *gin.Context) {
		ready := a.srv != nil && a.srv.Addr() != nil
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ready":  ready,
			"uptime": time.Since(a.Started).String(),
			"server": a.ID,
		})
	})

	routes.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.GET("/stats", func(c *gin.Context) {
		if a.srv == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "server not running"})
			return
		}
		c.JSON(http.StatusOK, a.srv.Snapshot())
	})
}

func (a *Admin) Serve() error {
	a.RegisterRoutes()
	return a.router.Run(a.Addr)
}

func (a *Admin) routes() gin.IRoutes {
	if a.basePath == "" {
		return a.router
	}
	return a.router.Group(a.basePath)
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
