package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/thanhnp/web3relay/internal/models"
)

// TraceFilter is the parameter object of trace_filter.
type TraceFilter struct {
	FromBlock   string   `json:"fromBlock,omitempty"`
	ToBlock     string   `json:"toBlock,omitempty"`
	FromAddress []string `json:"fromAddress,omitempty"`
	ToAddress   []string `json:"toAddress,omitempty"`
}

// TransactionByHash returns the transaction, or nil if the node does not
// know it.
func (c *Conn) TransactionByHash(ctx context.Context, hash string) (*Transaction, error) {
	var raw *rpcTransaction
	if err := c.call(ctx, &raw, "eth_getTransactionByHash", hash); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.toTransaction(), nil
}

// TransactionReceipt returns the receipt, or nil for unknown or pending
// transactions.
func (c *Conn) TransactionReceipt(ctx context.Context, hash string) (*Receipt, error) {
	var raw *rpcReceipt
	if err := c.call(ctx, &raw, "eth_getTransactionReceipt", hash); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.toReceipt(), nil
}

// BlockByRef returns the block (transaction hashes only), or nil if absent.
func (c *Conn) BlockByRef(ctx context.Context, ref models.BlockRef) (*models.Block, error) {
	if ref.IsHash() {
		return c.getBlock(ctx, "eth_getBlockByHash", ref.Hash, false)
	}
	return c.getBlock(ctx, "eth_getBlockByNumber", hexutil.EncodeUint64(ref.Number), false)
}

// LatestBlock returns the head block.
func (c *Conn) LatestBlock(ctx context.Context) (*models.Block, error) {
	return c.getBlock(ctx, "eth_getBlockByNumber", "latest", false)
}

// UncleByRef returns the uncle at index of the referenced block, or nil.
func (c *Conn) UncleByRef(ctx context.Context, ref models.BlockRef, index uint64) (*models.Block, error) {
	if ref.IsHash() {
		return c.getBlock(ctx, "eth_getUncleByBlockHashAndIndex", ref.Hash, hexutil.Uint64(index))
	}
	return c.getBlock(ctx, "eth_getUncleByBlockNumberAndIndex", hexutil.EncodeUint64(ref.Number), hexutil.Uint64(index))
}

func (c *Conn) getBlock(ctx context.Context, method string, args ...interface{}) (*models.Block, error) {
	var raw *rpcBlock
	if err := c.call(ctx, &raw, method, args...); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}
	return raw.toBlock(), nil
}

// BlockNumber returns the head block number.
func (c *Conn) BlockNumber(ctx context.Context) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_blockNumber"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Balance returns the latest balance of addr in wei.
func (c *Conn) Balance(ctx context.Context, addr string) (*big.Int, error) {
	var bal hexutil.Big
	if err := c.call(ctx, &bal, "eth_getBalance", addr, "latest"); err != nil {
		return nil, err
	}
	return bal.ToInt(), nil
}

// TransactionCount returns the latest nonce of addr.
func (c *Conn) TransactionCount(ctx context.Context, addr string) (uint64, error) {
	var n hexutil.Uint64
	if err := c.call(ctx, &n, "eth_getTransactionCount", addr, "latest"); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

// Code returns the hex encoded code at addr ("0x" for accounts).
func (c *Conn) Code(ctx context.Context, addr string) (string, error) {
	var code string
	if err := c.call(ctx, &code, "eth_getCode", addr, "latest"); err != nil {
		return "", err
	}
	return code, nil
}

// TraceTransaction returns the traces of a transaction, nil if unknown.
func (c *Conn) TraceTransaction(ctx context.Context, hash string) ([]models.Trace, error) {
	var traces []models.Trace
	if err := c.call(ctx, &traces, "trace_transaction", hash); err != nil {
		return nil, err
	}
	return traces, nil
}

// TraceFilter returns the traces matching filter, nil if the node returned null.
func (c *Conn) TraceFilter(ctx context.Context, filter TraceFilter) ([]models.Trace, error) {
	var traces []models.Trace
	if err := c.call(ctx, &traces, "trace_filter", filter); err != nil {
		return nil, err
	}
	return traces, nil
}

// SendRawTransaction broadcasts a signed transaction and returns its hash.
func (c *Conn) SendRawTransaction(ctx context.Context, raw string) (string, error) {
	var hash string
	if err := c.call(ctx, &hash, "eth_sendRawTransaction", raw); err != nil {
		return "", err
	}
	return hash, nil
}
