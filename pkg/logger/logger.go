package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ContextKey represents keys used in context for logging
type ContextKey string

// RequestIDKey is the context key holding the per-request id.
const RequestIDKey ContextKey = "request_id"

// Config represents logger configuration
type Config struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

// Initialize builds the global logger. Production uses the JSON encoder,
// anything else the console encoder.
func Initialize(cfg Config) (*zap.Logger, error) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
		zapConfig.DisableStacktrace = true
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		zapConfig.Level = level
	}

	zapConfig.InitialFields = map[string]interface{}{
		"service": "web3relay",
	}

	l, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	Set(l)
	return l, nil
}

// Set replaces the global logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// L returns the global logger. It is a no-op logger until Initialize or Set.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Named returns a child of the global logger for a component.
func Named(component string) *zap.Logger {
	return L().Named(component)
}

// WithContext returns a logger carrying the request id stored in ctx, if any.
func WithContext(ctx context.Context, l *zap.Logger) *zap.Logger {
	if ctx == nil {
		return l
	}
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return l.With(zap.String("request_id", id))
	}
	return l
}
