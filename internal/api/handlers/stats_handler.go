package handlers

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/models"
)

const hashrateWindow = 100

// NetStats is the action=hashrate payload.
type NetStats struct {
	BlockHeight uint64  `json:"blockHeight"`
	Difficulty  string  `json:"difficulty"`
	BlockTime   float64 `json:"blockTime"`
	Hashrate    float64 `json:"hashrate"`
}

// Hashrate estimates block time and network hashrate over the last 100
// blocks.
func (h *Handlers) Hashrate(ctx context.Context) interface{} {
	log := h.logger(ctx)

	var latest *models.Block
	err := h.retryOnce(ctx, func() error {
		b, err := h.node.LatestBlock(ctx)
		if err != nil {
			return err
		}
		if b == nil {
			return errAbsent
		}
		latest = b
		return nil
	})
	if err != nil {
		log.Error("Latest block lookup failed", zap.Error(err))
		return errorResponse
	}

	stats := NetStats{BlockHeight: latest.Number, Difficulty: latest.Difficulty}

	var check uint64
	if latest.Number > hashrateWindow {
		check = latest.Number - hashrateWindow
	}
	nblock := latest.Number - check

	ref, err := h.node.BlockByRef(ctx, models.BlockRef{Number: check})
	if err != nil || ref == nil {
		log.Error("Reference block lookup failed", zap.Uint64("number", check), zap.Error(err))
		return stats
	}
	log.Debug("Hashrate window", zap.Uint64("latest", latest.Number), zap.Uint64("check", ref.Number))

	stats.BlockTime, stats.Hashrate = hashrate(latest, ref, nblock)
	return stats
}

// hashrate returns (latestTs-refTs)/nblock and difficulty/blockTime. Empty
// windows yield zeros.
func hashrate(latest, ref *models.Block, nblock uint64) (float64, float64) {
	if nblock == 0 {
		return 0, 0
	}
	blockTime := (float64(latest.Timestamp) - float64(ref.Timestamp)) / float64(nblock)
	if blockTime == 0 {
		return 0, 0
	}
	difficulty, ok := new(big.Float).SetString(latest.Difficulty)
	if !ok {
		return blockTime, 0
	}
	d, _ := difficulty.Float64()
	return blockTime, d / blockTime
}
