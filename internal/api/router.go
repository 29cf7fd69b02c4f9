package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/api/handlers"
	"github.com/thanhnp/web3relay/internal/api/middleware"
)

// NodeStatus reports node connectivity for the health check.
type NodeStatus interface {
	Connected() bool
}

// Router wraps the Gin router with handlers
type Router struct {
	engine  *gin.Engine
	relay   *Relay
	node    NodeStatus
	metrics bool
	log     *zap.Logger
}

// NewRouter creates a new Router serving the relay endpoint, the health
// check and, if enabled, prometheus metrics.
func NewRouter(h *handlers.Handlers, node NodeStatus, metricsEnabled bool, log *zap.Logger) *Router {
	gin.SetMode(gin.ReleaseMode)
	if log == nil {
		log = zap.NewNop()
	}

	r := &Router{
		engine:  gin.New(),
		relay:   NewRelay(h, log),
		node:    node,
		metrics: metricsEnabled,
		log:     log,
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.RequestID())
	r.engine.Use(middleware.Logger(r.log))
	r.engine.Use(middleware.CORS())
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	// Health check
	r.engine.GET("/health", func(c *gin.Context) {
		connected := r.node != nil && r.node.Connected()
		status := "ok"
		if !connected {
			status = "degraded"
		}
		c.JSON(http.StatusOK, gin.H{"status": status, "node_connected": connected})
	})

	if r.metrics {
		r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.engine.POST("/web3relay", r.relay.Handle)
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
