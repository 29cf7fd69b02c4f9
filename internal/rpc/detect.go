package rpc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/pkg/semver"
)

// Minimum client versions known to serve the trace_* namespace.
var traceClients = map[string]*semver.Version{
	"parity":       semver.MustParse("1.7.0"),
	"openethereum": semver.MustParse("3.0.0"),
	"coregeth":     semver.MustParse("1.11.20"),
	"erigon":       semver.MustParse("2.0.0"),
	"besu":         semver.MustParse("21.1.0"),
	"nethermind":   semver.MustParse("1.10.0"),
}

// NodeInfo describes the connected node.
type NodeInfo struct {
	Client        semver.ClientVersion
	Listening     bool
	SupportsTrace bool
}

// SupportsTrace reports whether a client version is known to serve traces.
func SupportsTrace(cv semver.ClientVersion) bool {
	min, ok := traceClients[cv.Family()]
	if !ok {
		return false
	}
	return cv.AtLeast(min)
}

// DetectNode asks the node for its client version and listening state.
func (c *Conn) DetectNode(ctx context.Context) (*NodeInfo, error) {
	var raw string
	if err := c.call(ctx, &raw, "web3_clientVersion"); err != nil {
		return nil, fmt.Errorf("unable to get node client version: %w", err)
	}

	info := &NodeInfo{Client: semver.ParseClientVersion(raw)}
	info.SupportsTrace = SupportsTrace(info.Client)

	if err := c.call(ctx, &info.Listening, "net_listening"); err != nil {
		c.log.Warn("net_listening failed", zap.Error(err))
	}

	fields := []zap.Field{
		zap.String("client", info.Client.Name),
		zap.Bool("listening", info.Listening),
		zap.Bool("trace", info.SupportsTrace),
	}
	if info.Client.Version != nil {
		fields = append(fields, zap.String("version", info.Client.Version.String()))
	}
	c.log.Info("Node detected", fields...)
	if !info.SupportsTrace {
		c.log.Warn("Node is not known to support trace_* methods; trace lookups may fail",
			zap.String("client_version", raw))
	}
	return info, nil
}
