package handlers

import (
	"context"
	"errors"
	"math/big"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/internal/rpc"
	"github.com/thanhnp/web3relay/internal/storage"
)

var errConn = errors.New("connection reset")

// fakeNode serves canned answers and records the calls it receives.
type fakeNode struct {
	calls []string

	ensureErr error
	txs       map[string]*rpc.Transaction
	receipts  map[string]*rpc.Receipt
	blocks    map[string]*models.Block // by BlockRef.String()
	uncles    map[string]*models.Block // by "<ref>/<index>"
	head      uint64
	headErr   error
	latest    *models.Block
	// latestFailures makes the first n LatestBlock calls fail.
	latestFailures int
	// blockFailures makes the first n BlockByRef calls fail.
	blockFailures int
	balance       *big.Int
	count         uint64
	code          string
	addrErr       error
	traces        []models.Trace
	traceErr      error
	traceFilter   rpc.TraceFilter
	sendHash      string
	sendErr       error
	sentRaw       string
}

func (f *fakeNode) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeNode) EnsureConnected(context.Context) error {
	f.record("EnsureConnected")
	return f.ensureErr
}

func (f *fakeNode) TransactionByHash(_ context.Context, hash string) (*rpc.Transaction, error) {
	f.record("TransactionByHash")
	return f.txs[hash], nil
}

func (f *fakeNode) TransactionReceipt(_ context.Context, hash string) (*rpc.Receipt, error) {
	f.record("TransactionReceipt")
	return f.receipts[hash], nil
}

func (f *fakeNode) BlockByRef(_ context.Context, ref models.BlockRef) (*models.Block, error) {
	f.record("BlockByRef:" + ref.String())
	if f.blockFailures > 0 {
		f.blockFailures--
		return nil, errConn
	}
	return f.blocks[ref.String()], nil
}

func (f *fakeNode) LatestBlock(context.Context) (*models.Block, error) {
	f.record("LatestBlock")
	if f.latestFailures > 0 {
		f.latestFailures--
		return nil, errConn
	}
	return f.latest, nil
}

func (f *fakeNode) UncleByRef(_ context.Context, ref models.BlockRef, index uint64) (*models.Block, error) {
	key := ref.String() + "/" + strconv.FormatUint(index, 10)
	f.record("UncleByRef:" + key)
	return f.uncles[key], nil
}

func (f *fakeNode) BlockNumber(context.Context) (uint64, error) {
	f.record("BlockNumber")
	return f.head, f.headErr
}

func (f *fakeNode) Balance(context.Context, string) (*big.Int, error) {
	f.record("Balance")
	return f.balance, f.addrErr
}

func (f *fakeNode) TransactionCount(context.Context, string) (uint64, error) {
	f.record("TransactionCount")
	return f.count, nil
}

func (f *fakeNode) Code(context.Context, string) (string, error) {
	f.record("Code")
	return f.code, nil
}

func (f *fakeNode) TraceTransaction(context.Context, string) ([]models.Trace, error) {
	f.record("TraceTransaction")
	return f.traces, f.traceErr
}

func (f *fakeNode) TraceFilter(_ context.Context, filter rpc.TraceFilter) ([]models.Trace, error) {
	f.record("TraceFilter")
	f.traceFilter = filter
	return f.traces, f.traceErr
}

func (f *fakeNode) SendRawTransaction(_ context.Context, raw string) (string, error) {
	f.record("SendRawTransaction")
	f.sentRaw = raw
	return f.sendHash, f.sendErr
}

// liveCalls returns the recorded calls other than EnsureConnected.
func (f *fakeNode) liveCalls() []string {
	var out []string
	for _, c := range f.calls {
		if c != "EnsureConnected" {
			out = append(out, c)
		}
	}
	return out
}

func newTestCache(t *testing.T) *storage.Stores {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func newTestHandlers(t *testing.T, node *fakeNode, opts Options) (*Handlers, *storage.Stores) {
	t.Helper()
	cache := newTestCache(t)
	return New(node, cache, opts, nil), cache
}

func u64(n uint64) *uint64 { return &n }

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1e18))
}
