package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/thanhnp/web3relay/pkg/metrics"
)

// ErrNotConnected is returned by calls made while no connection is up.
var ErrNotConnected = errors.New("node not connected")

// Reconnect defaults matching the explorer's websocket provider.
const (
	DefaultReconnectDelay    = 2 * time.Second
	DefaultReconnectAttempts = 5
)

// Config describes how to reach the node.
type Config struct {
	URL               string
	ReconnectDelay    time.Duration
	ReconnectAttempts int
}

// Conn is the single long-lived connection to the node's websocket RPC
// endpoint. The underlying client is replaced wholesale when it is found
// disconnected; replacement happens under mu.
type Conn struct {
	cfg Config
	log *zap.Logger

	mu        sync.RWMutex
	client    *gethrpc.Client
	connected bool

	repair singleflight.Group
	dial   func(ctx context.Context, url string) (*gethrpc.Client, error)
}

// Dial creates the connection and makes a first connect attempt. A node that
// is down is not an error here: the connection starts disconnected and the
// next EnsureConnected retries.
func Dial(ctx context.Context, cfg Config, log *zap.Logger) *Conn {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.ReconnectAttempts <= 0 {
		cfg.ReconnectAttempts = DefaultReconnectAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	c := &Conn{
		cfg:  cfg,
		log:  log,
		dial: gethrpc.DialContext,
	}

	log.Info("Connecting to node", zap.String("url", cfg.URL))
	client, err := c.dial(ctx, cfg.URL)
	if err != nil {
		log.Warn("Initial node connection failed", zap.String("url", cfg.URL), zap.Error(err))
		metrics.SetNodeConnected(false)
		return c
	}
	c.client, c.connected = client, true
	metrics.SetNodeConnected(true)
	return c
}

// URL returns the node endpoint
func (c *Conn) URL() string {
	return c.cfg.URL
}

// Connected reports whether the current connection is believed to be up.
func (c *Conn) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// EnsureConnected replaces the connection with a fresh one if it is down,
// trying up to ReconnectAttempts times ReconnectDelay apart. Concurrent
// callers share a single reconnect and its outcome; dialing happens without
// holding mu.
func (c *Conn) EnsureConnected(ctx context.Context) error {
	if c.Connected() {
		return nil
	}
	_, err, _ := c.repair.Do("reconnect", func() (interface{}, error) {
		if c.Connected() {
			return nil, nil
		}
		return nil, c.reconnect(ctx)
	})
	return err
}

func (c *Conn) reconnect(ctx context.Context) error {
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.cfg.ReconnectDelay), uint64(c.cfg.ReconnectAttempts-1)),
		ctx,
	)
	var client *gethrpc.Client
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		var err error
		client, err = c.dial(ctx, c.cfg.URL)
		if err != nil {
			c.log.Warn("Node reconnect failed",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", c.cfg.ReconnectAttempts),
				zap.Error(err))
		}
		return err
	}, b)
	metrics.NodeReconnect(err == nil)
	if err != nil {
		return fmt.Errorf("%w: %d reconnect attempts to %s failed: %v", ErrNotConnected, attempt, c.cfg.URL, err)
	}

	c.mu.Lock()
	old := c.client
	c.client, c.connected = client, true
	c.mu.Unlock()

	if old != nil {
		old.Close()
	}
	metrics.SetNodeConnected(true)
	c.log.Info("Node connection re-established", zap.String("url", c.cfg.URL), zap.Int("attempt", attempt))
	return nil
}

// Close shuts the connection down
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		c.client.Close()
		c.client = nil
	}
	c.connected = false
	metrics.SetNodeConnected(false)
}

// call runs one JSON-RPC method. Transport failures mark the connection as
// down so that the next EnsureConnected replaces it.
func (c *Conn) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	c.mu.RLock()
	client, connected := c.client, c.connected
	c.mu.RUnlock()
	if client == nil || !connected {
		return ErrNotConnected
	}

	err := client.CallContext(ctx, result, method, args...)
	if isConnError(err) {
		c.markDisconnected(client, err)
	}
	return err
}

// markDisconnected flags the connection as down unless it was already
// replaced by another request.
func (c *Conn) markDisconnected(client *gethrpc.Client, cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != client || !c.connected {
		return
	}
	c.connected = false
	metrics.SetNodeConnected(false)
	c.log.Warn("Node connection lost", zap.String("url", c.cfg.URL), zap.Error(cause))
}

// isConnError separates transport failures from errors the node answered
// with (JSON-RPC error objects) and from result decoding problems.
func isConnError(err error) bool {
	if err == nil {
		return false
	}
	var rpcErr gethrpc.Error
	if errors.As(err, &rpcErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) {
		return false
	}
	return true
}
