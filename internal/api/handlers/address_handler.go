package handlers

import (
	"context"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thanhnp/web3relay/internal/filters"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/pkg/units"
)

// AddressOptions selects the address sub-queries to run.
type AddressOptions struct {
	Balance  bool
	Count    bool
	Bytecode bool
}

// Address answers balance, nonce and code queries for addr. The first
// failing sub-query turns the whole result into an error.
func (h *Handlers) Address(ctx context.Context, addr string, opts AddressOptions) interface{} {
	log := h.logger(ctx).With(zap.String("addr", addr))
	h.ensure(ctx)

	out, balance, err := h.addressData(ctx, addr, opts)
	if err != nil {
		log.Error("Address lookup failed", zap.Error(err))
		out = gin.H{"error": true}
	}

	// balanceUSD is attached whenever fiat is on; it is null without a balance.
	if quote, ok := h.latestQuote(ctx); ok {
		if balance != nil {
			out["balanceUSD"] = *balance * quote
		} else {
			out["balanceUSD"] = nil
		}
	}
	return out
}

func (h *Handlers) addressData(ctx context.Context, addr string, opts AddressOptions) (gin.H, *float64, error) {
	out := gin.H{}
	var balance *float64

	if opts.Balance {
		wei, err := h.node.Balance(ctx, addr)
		if err != nil {
			return nil, nil, err
		}
		b := units.ToEther(wei)
		balance = &b
		out["balance"] = b
	}
	if opts.Count {
		n, err := h.node.TransactionCount(ctx, addr)
		if err != nil {
			return nil, nil, err
		}
		out["count"] = n
	}
	if opts.Bytecode {
		code, err := h.node.Code(ctx, addr)
		if err != nil {
			return nil, nil, err
		}
		out["bytecode"] = code
		out["isContract"] = len(code) > len("0x")
	}
	return out, balance, nil
}

// AddrTrace returns the filtered traces sent to addr.
func (h *Handlers) AddrTrace(ctx context.Context, addr string) interface{} {
	h.ensure(ctx)
	filter := rpc.TraceFilter{
		FromBlock: hexutil.EncodeUint64(h.opts.TraceFromBlock),
		ToAddress: []string{addr},
	}
	traces, err := h.node.TraceFilter(ctx, filter)
	if err != nil || traces == nil {
		h.logger(ctx).Error("Trace filter failed", zap.String("addr", addr), zap.Error(err))
		return errorResponse
	}
	return filters.Traces(traces)
}
