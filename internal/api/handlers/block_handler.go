package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/filters"
	"github.com/thanhnp/web3relay/internal/models"
)

// Block returns a block from the cache, with its cached transaction hashes,
// or from the node.
func (h *Handlers) Block(ctx context.Context, raw string) interface{} {
	log := h.logger(ctx).With(zap.String("block", raw))
	ref, ok := ParseBlockRef(raw)
	if !ok {
		log.Info("Unparsable block reference")
		return errorResponse
	}

	cached, err := h.cache.BlockByRef(ctx, ref)
	if err != nil {
		log.Error("Cache block lookup failed", zap.Error(err))
	}
	if cached != nil {
		txs, err := h.cache.TransactionHashesByBlock(ctx, cached.Number)
		if err != nil {
			log.Error("Cache block transactions lookup failed", zap.Error(err))
			txs = []string{}
		}
		cached.Transactions = txs
		return filters.Block(cached)
	}

	h.ensure(ctx)
	var block *models.Block
	err = h.retryOnce(ctx, func() error {
		b, err := h.node.BlockByRef(ctx, ref)
		if err != nil {
			return err
		}
		if b == nil {
			return errAbsent
		}
		block = b
		return nil
	})
	if err != nil {
		log.Error("Node block lookup failed", zap.Error(err))
		return errorResponse
	}
	return filters.Block(block)
}

// Uncle returns the uncle at the given index of a block. It always asks the
// node.
func (h *Handlers) Uncle(ctx context.Context, raw string) interface{} {
	log := h.logger(ctx).With(zap.String("uncle", raw))
	ref, index, ok := ParseUncleRef(raw)
	if !ok {
		log.Info("Unparsable uncle reference")
		return errorResponse
	}

	h.ensure(ctx)
	uncle, err := h.node.UncleByRef(ctx, ref, index)
	if err != nil || uncle == nil {
		log.Error("Node uncle lookup failed", zap.Uint64("index", index), zap.Error(err))
		return errorResponse
	}
	return filters.Block(uncle)
}
