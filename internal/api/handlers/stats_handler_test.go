package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/web3relay/internal/models"
)

func TestHashrate(t *testing.T) {
	node := &fakeNode{
		latest: &models.Block{Number: 1000, Timestamp: 10000, Difficulty: "1300000000"},
		blocks: map[string]*models.Block{"900": {Number: 900, Timestamp: 8700}},
	}
	h, _ := newTestHandlers(t, node, Options{})

	got, ok := h.Hashrate(context.Background()).(NetStats)
	require.True(t, ok)
	assert.Equal(t, uint64(1000), got.BlockHeight)
	assert.Equal(t, "1300000000", got.Difficulty)
	assert.InDelta(t, 13.0, got.BlockTime, 1e-9)
	assert.InDelta(t, 1e8, got.Hashrate, 1e-3)
}

func TestHashrateShortChain(t *testing.T) {
	node := &fakeNode{
		latest: &models.Block{Number: 50, Timestamp: 500, Difficulty: "1000"},
		blocks: map[string]*models.Block{"0": {Number: 0, Timestamp: 0}},
	}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Hashrate(context.Background()).(NetStats)
	assert.InDelta(t, 10.0, got.BlockTime, 1e-9)
	assert.InDelta(t, 100.0, got.Hashrate, 1e-9)
}

func TestHashrateGenesis(t *testing.T) {
	node := &fakeNode{
		latest: &models.Block{Number: 0, Difficulty: "1000"},
		blocks: map[string]*models.Block{"0": {Number: 0}},
	}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Hashrate(context.Background()).(NetStats)
	assert.Equal(t, NetStats{BlockHeight: 0, Difficulty: "1000"}, got)
}

func TestHashrateRetriesLatest(t *testing.T) {
	node := &fakeNode{
		latestFailures: 1,
		latest:         &models.Block{Number: 1000, Timestamp: 10000, Difficulty: "1300000000"},
		blocks:         map[string]*models.Block{"900": {Number: 900, Timestamp: 8700}},
	}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Hashrate(context.Background()).(NetStats)
	assert.InDelta(t, 13.0, got.BlockTime, 1e-9)
	assert.Equal(t, []string{"LatestBlock", "EnsureConnected", "LatestBlock", "BlockByRef:900"}, node.calls)
}

func TestHashrateReferenceMissing(t *testing.T) {
	node := &fakeNode{latest: &models.Block{Number: 1000, Timestamp: 10000, Difficulty: "1300000000"}}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Hashrate(context.Background())
	assert.Equal(t, NetStats{BlockHeight: 1000, Difficulty: "1300000000"}, got)
}

func TestHashrateNodeDown(t *testing.T) {
	node := &fakeNode{latestFailures: 2, ensureErr: errConn}
	h, _ := newTestHandlers(t, node, Options{})

	assert.Equal(t, errorResponse, h.Hashrate(context.Background()))
}
