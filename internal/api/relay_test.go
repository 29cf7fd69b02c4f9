package api

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thanhnp/web3relay/internal/api/handlers"
	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/internal/storage"
)

// stubNode knows a single block and nothing else.
type stubNode struct {
	calls     int
	connected bool
	latest    *models.Block
	blocks    map[uint64]*models.Block
}

func (s *stubNode) Connected() bool { return s.connected }

func (s *stubNode) EnsureConnected(context.Context) error { return nil }

func (s *stubNode) TransactionByHash(context.Context, string) (*rpc.Transaction, error) {
	s.calls++
	return nil, nil
}

func (s *stubNode) TransactionReceipt(context.Context, string) (*rpc.Receipt, error) {
	s.calls++
	return nil, nil
}

func (s *stubNode) BlockByRef(_ context.Context, ref models.BlockRef) (*models.Block, error) {
	s.calls++
	if ref.IsHash() {
		return nil, nil
	}
	return s.blocks[ref.Number], nil
}

func (s *stubNode) LatestBlock(context.Context) (*models.Block, error) {
	s.calls++
	return s.latest, nil
}

func (s *stubNode) UncleByRef(context.Context, models.BlockRef, uint64) (*models.Block, error) {
	s.calls++
	return nil, nil
}

func (s *stubNode) BlockNumber(context.Context) (uint64, error) {
	s.calls++
	return 0, nil
}

func (s *stubNode) Balance(context.Context, string) (*big.Int, error) {
	s.calls++
	return big.NewInt(0), nil
}

func (s *stubNode) TransactionCount(context.Context, string) (uint64, error) {
	s.calls++
	return 0, nil
}

func (s *stubNode) Code(context.Context, string) (string, error) {
	s.calls++
	return "0x", nil
}

func (s *stubNode) TraceTransaction(context.Context, string) ([]models.Trace, error) {
	s.calls++
	return nil, nil
}

func (s *stubNode) TraceFilter(context.Context, rpc.TraceFilter) ([]models.Trace, error) {
	s.calls++
	return nil, nil
}

func (s *stubNode) SendRawTransaction(context.Context, string) (string, error) {
	s.calls++
	return "0xhash", nil
}

func newTestRouter(t *testing.T, node *stubNode) (*Router, *storage.Stores) {
	t.Helper()
	cache, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, cache.Close()) })

	h := handlers.New(node, cache, handlers.Options{}, nil)
	return NewRouter(h, node, true, nil), cache
}

func post(r *Router, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/web3relay", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestRelayUnknownTransaction(t *testing.T) {
	r, _ := newTestRouter(t, &stubNode{})

	w := post(r, `{"tx":"0x5C504ED432CB51138BCF09AA5E8A410DD4A1E204EF84BFED1BE16DFBA1B22060"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"error":true}`, w.Body.String())
}

func TestRelayBlockFromCache(t *testing.T) {
	node := &stubNode{}
	r, cache := newTestRouter(t, node)
	require.NoError(t, cache.BlockStore.Save(&models.Block{Number: 118, Hash: "0xb118", Miner: "0xABC"}))
	n := uint64(118)
	require.NoError(t, cache.TxStore.Save(&models.Transaction{Hash: "0x01", BlockNumber: &n}))

	w := post(r, `{"block":"118"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"transactions":["0x01"]`)
	assert.Contains(t, w.Body.String(), `"miner":"0xabc"`)
	assert.Zero(t, node.calls)
}

func TestRelayHashrate(t *testing.T) {
	node := &stubNode{
		latest: &models.Block{Number: 200, Timestamp: 2500, Difficulty: "1000"},
		blocks: map[uint64]*models.Block{100: {Number: 100, Timestamp: 1500}},
	}
	r, _ := newTestRouter(t, node)

	w := post(r, `{"action":"hashrate"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"blockHeight":200,"difficulty":"1000","blockTime":10,"hashrate":100}`, w.Body.String())
}

func TestRelayRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no known key", `{"foo":"bar"}`},
		{"unknown action", `{"action":"mine"}`},
		{"not json", `tx=0x1`},
		{"empty", ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := &stubNode{}
			r, _ := newTestRouter(t, node)

			w := post(r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, w.Body.String())
			assert.Zero(t, node.calls)
		})
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, &stubNode{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","node_connected":true}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, &stubNode{})
	post(r, `{"action":"hashrate"}`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "web3relay_requests_total")
}

func TestRequestIDAndCORS(t *testing.T) {
	r, _ := newTestRouter(t, &stubNode{})

	req := httptest.NewRequest(http.MethodOptions, "/web3relay", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}
