package handlers

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/pkg/logger"
)

// Node is the live node as seen by the handlers. *rpc.Conn implements it.
type Node interface {
	EnsureConnected(ctx context.Context) error
	TransactionByHash(ctx context.Context, hash string) (*rpc.Transaction, error)
	TransactionReceipt(ctx context.Context, hash string) (*rpc.Receipt, error)
	BlockByRef(ctx context.Context, ref models.BlockRef) (*models.Block, error)
	LatestBlock(ctx context.Context) (*models.Block, error)
	UncleByRef(ctx context.Context, ref models.BlockRef, index uint64) (*models.Block, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, addr string) (*big.Int, error)
	TransactionCount(ctx context.Context, addr string) (uint64, error)
	Code(ctx context.Context, addr string) (string, error)
	TraceTransaction(ctx context.Context, hash string) ([]models.Trace, error)
	TraceFilter(ctx context.Context, filter rpc.TraceFilter) ([]models.Trace, error)
	SendRawTransaction(ctx context.Context, raw string) (string, error)
}

// Cache is the read-only explorer cache. Lookups return (nil, nil) on a miss.
type Cache interface {
	TransactionByHash(ctx context.Context, hash string) (*models.Transaction, error)
	BlockByRef(ctx context.Context, ref models.BlockRef) (*models.Block, error)
	TransactionHashesByBlock(ctx context.Context, number uint64) ([]string, error)
	LatestMarket(ctx context.Context) (*models.Market, error)
	SyncedHeight(ctx context.Context) (int64, error)
}

// Options tune handler behaviour.
type Options struct {
	UseFiat bool
	// TraceFromBlock is the first block scanned by address traces.
	TraceFromBlock uint64
	// RetryInterval is the pause before the single reconnect-and-retry.
	RetryInterval time.Duration
}

// ErrorResponse is the generic failure payload.
type ErrorResponse struct {
	Error   bool `json:"error"`
	IsBlock bool `json:"isBlock,omitempty"`
}

var errorResponse = ErrorResponse{Error: true}

var errAbsent = errors.New("not found")

// Handlers answers the relay's request kinds. Each method returns the value
// to be written as the JSON response.
type Handlers struct {
	node  Node
	cache Cache
	opts  Options
	log   *zap.Logger
}

// New creates the handlers
func New(node Node, cache Cache, opts Options, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		node:  node,
		cache: cache,
		opts:  opts,
		log:   log,
	}
}

// Failed reports whether a handler payload describes a failure.
func Failed(payload interface{}) bool {
	switch p := payload.(type) {
	case ErrorResponse:
		return p.Error
	case SendResponse:
		return !p.Success
	case gin.H:
		v, _ := p["error"].(bool)
		return v
	}
	return false
}

func (h *Handlers) logger(ctx context.Context) *zap.Logger {
	return logger.WithContext(ctx, h.log)
}

// ensure repairs the node connection before a live query. A failed repair
// is logged only; the query that follows reports the error.
func (h *Handlers) ensure(ctx context.Context) {
	if err := h.node.EnsureConnected(ctx); err != nil {
		h.logger(ctx).Warn("Node unavailable", zap.Error(err))
	}
}

// retryOnce runs op, and if it fails reconnects and runs it once more.
func (h *Handlers) retryOnce(ctx context.Context, op func() error) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(h.opts.RetryInterval), 1),
		ctx,
	)
	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		if attempt > 1 {
			h.ensure(ctx)
		}
		return op()
	}, b)
}

// latestQuote returns the most recent USD quote, ok=false if fiat is off or
// no quote is available.
func (h *Handlers) latestQuote(ctx context.Context) (float64, bool) {
	if !h.opts.UseFiat {
		return 0, false
	}
	m, err := h.cache.LatestMarket(ctx)
	if err != nil {
		h.logger(ctx).Error("Market lookup failed", zap.Error(err))
		return 0, false
	}
	if m == nil {
		return 0, false
	}
	return m.QuoteUSD, true
}
