package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/internal/rpc"
)

const addr = "0x9a9c1d4c2c2bd16c9c6c1aa8f8e1b7fa1b3b1c2d"

func TestAddressAllOptions(t *testing.T) {
	node := &fakeNode{balance: ether(2), count: 7, code: "0x"}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Address(context.Background(), addr, AddressOptions{Balance: true, Count: true, Bytecode: true})
	assert.Equal(t, gin.H{
		"balance":    2.0,
		"count":      uint64(7),
		"bytecode":   "0x",
		"isContract": false,
	}, got)
	assert.Equal(t, []string{"Balance", "TransactionCount", "Code"}, node.liveCalls())
}

func TestAddressIsContract(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"0x", false},
		{"0x6060604052", true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			h, _ := newTestHandlers(t, &fakeNode{code: tt.code}, Options{})
			got := h.Address(context.Background(), addr, AddressOptions{Bytecode: true}).(gin.H)
			assert.Equal(t, tt.want, got["isContract"])
			assert.NotContains(t, got, "balance")
		})
	}
}

func TestAddressSubQueryFailure(t *testing.T) {
	node := &fakeNode{addrErr: errors.New("boom"), count: 3}
	h, _ := newTestHandlers(t, node, Options{})

	got := h.Address(context.Background(), addr, AddressOptions{Balance: true, Count: true})
	assert.Equal(t, gin.H{"error": true}, got)
	assert.True(t, Failed(got))
}

func TestAddressFiat(t *testing.T) {
	node := &fakeNode{balance: ether(2), count: 1}
	h, cache := newTestHandlers(t, node, Options{UseFiat: true})
	require.NoError(t, cache.MarketStore.Save(&models.Market{Symbol: "etc", Timestamp: 1, QuoteUSD: 20}))

	got := h.Address(context.Background(), addr, AddressOptions{Balance: true}).(gin.H)
	assert.InDelta(t, 40.0, got["balanceUSD"], 1e-9)

	got = h.Address(context.Background(), addr, AddressOptions{Count: true}).(gin.H)
	v, ok := got["balanceUSD"]
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestAddressFiatWithoutQuote(t *testing.T) {
	h, _ := newTestHandlers(t, &fakeNode{balance: ether(1)}, Options{UseFiat: true})
	got := h.Address(context.Background(), addr, AddressOptions{Balance: true}).(gin.H)
	assert.NotContains(t, got, "balanceUSD")
}

func TestAddrTrace(t *testing.T) {
	node := &fakeNode{traces: []models.Trace{}}
	h, _ := newTestHandlers(t, node, Options{TraceFromBlock: 0x1d4c00})

	got := h.AddrTrace(context.Background(), addr)
	assert.Equal(t, []models.Trace{}, got)
	assert.Equal(t, rpc.TraceFilter{FromBlock: "0x1d4c00", ToAddress: []string{addr}}, node.traceFilter)
}

func TestAddrTraceFromGenesis(t *testing.T) {
	node := &fakeNode{traces: []models.Trace{}}
	h, _ := newTestHandlers(t, node, Options{TraceFromBlock: 0})

	h.AddrTrace(context.Background(), addr)
	assert.Equal(t, "0x0", node.traceFilter.FromBlock)
}

func TestAddrTraceNotFound(t *testing.T) {
	h, _ := newTestHandlers(t, &fakeNode{}, Options{TraceFromBlock: 1})
	assert.Equal(t, errorResponse, h.AddrTrace(context.Background(), addr))
}
