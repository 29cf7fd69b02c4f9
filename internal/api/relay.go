package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/api/handlers"
	"github.com/thanhnp/web3relay/pkg/logger"
	"github.com/thanhnp/web3relay/pkg/metrics"
)

// Relay serves POST /web3relay.
type Relay struct {
	handlers *handlers.Handlers
	log      *zap.Logger
}

// NewRelay creates the relay endpoint
func NewRelay(h *handlers.Handlers, log *zap.Logger) *Relay {
	if log == nil {
		log = zap.NewNop()
	}
	return &Relay{handlers: h, log: log}
}

// Handle parses the body, runs exactly one handler and writes its payload
// once. Bodies without a known key get an empty 400.
func (r *Relay) Handle(c *gin.Context) {
	start := time.Now()
	ctx := c.Request.Context()
	log := logger.WithContext(ctx, r.log)

	var body map[string]json.RawMessage
	if err := c.ShouldBindJSON(&body); err != nil {
		log.Warn("Invalid request body", zap.Error(err))
		metrics.ObserveRequest("invalid", "rejected", time.Since(start).Seconds())
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	req, err := ParseRequest(body)
	if err != nil {
		log.Warn("Invalid request", zap.Error(err))
		metrics.ObserveRequest("invalid", "rejected", time.Since(start).Seconds())
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	payload := r.dispatch(ctx, req)

	outcome := "ok"
	if handlers.Failed(payload) {
		outcome = "error"
	}
	metrics.ObserveRequest(req.Kind(), outcome, time.Since(start).Seconds())
	log.Debug("Relay request served", zap.String("kind", req.Kind()), zap.String("outcome", outcome))

	c.JSON(http.StatusOK, payload)
}

func (r *Relay) dispatch(ctx context.Context, req Request) interface{} {
	h := r.handlers
	switch req := req.(type) {
	case TxRequest:
		return h.Transaction(ctx, req.Hash)
	case SendRequest:
		return h.SendRaw(ctx, req.Raw)
	case TxTraceRequest:
		return h.TxTrace(ctx, req.Hash)
	case AddrTraceRequest:
		return h.AddrTrace(ctx, req.Addr)
	case AddrRequest:
		return h.Address(ctx, req.Addr, req.Options)
	case BlockRequest:
		return h.Block(ctx, req.Ref)
	case UncleRequest:
		return h.Uncle(ctx, req.Ref)
	case HashrateRequest:
		return h.Hashrate(ctx)
	}
	panic("api: unhandled request kind " + req.Kind())
}
