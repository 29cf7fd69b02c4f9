package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/filters"
	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/pkg/units"
)

// Known broadcast failure reasons, as the explorer front end expects them.
const (
	ReasonInvalidArgument = "Error: Returned error: invalid argument 0: json: cannot unmarshal invalid hex string into Go value of type hexutil.Bytes"
	ReasonInvalidSender   = "Error: Returned error: invalid sender"
)

// SendResponse is the tx_send payload.
type SendResponse struct {
	Success bool    `json:"success"`
	Hash    string  `json:"hash,omitempty"`
	Reason  *string `json:"reason,omitempty"`
}

// Transaction looks a transaction up in the cache and falls back to the
// node. hash must already be lower-cased.
func (h *Handlers) Transaction(ctx context.Context, hash string) interface{} {
	log := h.logger(ctx).With(zap.String("tx", hash))

	tx, err := h.cache.TransactionByHash(ctx, hash)
	if err != nil {
		log.Error("Cache transaction lookup failed", zap.Error(err))
	}
	var head int64 = -1
	if tx != nil {
		tx.IsTrace = isTrace(tx.Input)
		if head, err = h.cache.SyncedHeight(ctx); err != nil {
			log.Warn("Synced height unavailable", zap.Error(err))
			head = -1
		}
	} else {
		h.ensure(ctx)
		live, err := h.node.TransactionByHash(ctx, hash)
		if err != nil {
			log.Error("Node transaction lookup failed", zap.Error(err))
			return errorResponse
		}
		if live == nil {
			return h.notATransaction(ctx, log, hash)
		}
		tx = h.enrichLive(ctx, log, live)
	}

	if head < 0 {
		h.ensure(ctx)
		n, err := h.node.BlockNumber(ctx)
		if err != nil {
			log.Error("Node block number failed", zap.Error(err))
		} else {
			head = int64(n)
		}
	}
	if head >= 0 {
		tx.Confirmations = confirmations(uint64(head), tx.Height())
	}

	gasPrice, err := units.ParseWei(tx.GasPrice)
	if err != nil {
		log.Warn("Bad gas price", zap.String("gas_price", tx.GasPrice), zap.Error(err))
	}
	tx.GasPriceGwei = units.ToGwei(gasPrice)
	tx.GasPriceEther = units.ToEther(gasPrice)
	tx.TxFee = tx.GasPriceEther * float64(tx.GasUsed)

	if quote, ok := h.latestQuote(ctx); ok {
		fee := tx.TxFee * quote
		value := tx.Value * quote
		tx.TxFeeUSD = &fee
		tx.ValueUSD = &value
	}
	return tx
}

// confirmations counts the blocks on top of height given head. A result
// equal to head+1 (genesis or pending) is reported as 0.
func confirmations(head, height uint64) int64 {
	latest := int64(head) + 1
	c := latest - int64(height)
	if c == latest {
		return 0
	}
	return c
}

// isTrace reports whether a transaction carries call data.
func isTrace(input string) bool {
	return input != "" && input != "0x"
}

// notATransaction tells a block hash apart from an unknown hash.
func (h *Handlers) notATransaction(ctx context.Context, log *zap.Logger, hash string) interface{} {
	block, err := h.node.BlockByRef(ctx, models.BlockRef{Hash: hash})
	if err != nil || block == nil {
		log.Info("Transaction not found", zap.Error(err))
		return errorResponse
	}
	log.Info("Hash is a block")
	return ErrorResponse{Error: true, IsBlock: true}
}

// enrichLive builds the explorer transaction from a node transaction, its
// receipt and its block. Receipt and block failures are logged and skipped.
func (h *Handlers) enrichLive(ctx context.Context, log *zap.Logger, live *rpc.Transaction) *models.Transaction {
	tx := &models.Transaction{
		Hash:             live.Hash,
		Nonce:            live.Nonce,
		BlockHash:        live.BlockHash,
		BlockNumber:      live.BlockNumber,
		TransactionIndex: live.TransactionIndex,
		From:             live.From,
		To:               live.To,
		Value:            units.ToEther(live.Value),
		Gas:              live.Gas,
		GasPrice:         live.GasPrice.String(),
		Input:            live.Input,
		IsTrace:          isTrace(live.Input),
	}

	receipt, err := h.node.TransactionReceipt(ctx, live.Hash)
	switch {
	case err != nil:
		log.Error("Node receipt lookup failed", zap.Error(err))
	case receipt != nil:
		tx.GasUsed = receipt.GasUsed
		tx.Status = receipt.Status
		if tx.To == "" && receipt.ContractAddress != "" {
			tx.Creates = receipt.ContractAddress
		}
	}

	if live.BlockNumber != nil {
		block, err := h.node.BlockByRef(ctx, models.BlockRef{Number: *live.BlockNumber})
		if err != nil {
			log.Error("Node block lookup failed", zap.Error(err))
		} else if block != nil {
			tx.Timestamp = block.Timestamp
		}
	}
	return tx
}

// SendRaw broadcasts a signed transaction.
func (h *Handlers) SendRaw(ctx context.Context, raw string) interface{} {
	raw = strings.ToLower(raw)
	if !strings.HasPrefix(raw, "0x") {
		raw = "0x" + raw
	}

	h.ensure(ctx)
	hash, err := h.node.SendRawTransaction(ctx, raw)
	if err != nil {
		reason := broadcastReason(err)
		h.logger(ctx).Warn("Broadcast failed", zap.Error(err), zap.String("reason", reason))
		return SendResponse{Success: false, Reason: &reason}
	}
	h.logger(ctx).Info("Transaction broadcast", zap.String("hash", hash))
	return SendResponse{Success: true, Hash: hash}
}

func broadcastReason(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "invalid argument"):
		return ReasonInvalidArgument
	case strings.Contains(msg, "invalid sender"):
		return ReasonInvalidSender
	}
	return ""
}

// TxTrace returns the filtered traces of a transaction.
func (h *Handlers) TxTrace(ctx context.Context, hash string) interface{} {
	h.ensure(ctx)
	traces, err := h.node.TraceTransaction(ctx, hash)
	if err != nil || traces == nil {
		h.logger(ctx).Error("Trace lookup failed", zap.String("tx", hash), zap.Error(err))
		return errorResponse
	}
	return filters.Traces(traces)
}
