package storage

import (
	"context"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/pkg/metrics"
)

// Stores bundles the Pebble-backed stores and serves the relay's read-only
// cache lookups.
type Stores struct {
	DB          *PebbleDB
	BlockStore  *BlockStore
	TxStore     *TxStore
	MarketStore *MarketStore
	SyncStore   *SyncStore
}

// NewStores creates all stores using the given database
func NewStores(db *PebbleDB) *Stores {
	return &Stores{
		DB:          db,
		BlockStore:  NewBlockStore(db),
		TxStore:     NewTxStore(db),
		MarketStore: NewMarketStore(db),
		SyncStore:   NewSyncStore(db),
	}
}

// Open opens the Pebble database at path and wraps it in Stores.
func Open(path string) (*Stores, error) {
	db, err := NewPebbleDB(path, 0)
	if err != nil {
		return nil, err
	}
	return NewStores(db), nil
}

// Close closes the database
func (s *Stores) Close() error {
	return s.DB.Close()
}

// TransactionByHash returns the cached transaction or nil on a miss.
func (s *Stores) TransactionByHash(_ context.Context, hash string) (*models.Transaction, error) {
	tx, err := s.TxStore.Get(hash)
	if err != nil {
		return nil, err
	}
	metrics.CacheLookup(CFTransactions, tx != nil)
	return tx, nil
}

// BlockByRef returns the cached block for a hash or number, nil on a miss.
func (s *Stores) BlockByRef(_ context.Context, ref models.BlockRef) (*models.Block, error) {
	var (
		b   *models.Block
		err error
	)
	if ref.IsHash() {
		b, err = s.BlockStore.GetByHash(ref.Hash)
	} else {
		b, err = s.BlockStore.GetByNumber(ref.Number)
	}
	if err != nil {
		return nil, err
	}
	metrics.CacheLookup(CFBlocks, b != nil)
	return b, nil
}

// TransactionHashesByBlock returns the distinct cached tx hashes of a block.
func (s *Stores) TransactionHashesByBlock(_ context.Context, number uint64) ([]string, error) {
	return s.TxStore.HashesByBlock(number)
}

// LatestMarket returns the most recent quote, nil if none is cached.
func (s *Stores) LatestMarket(_ context.Context) (*models.Market, error) {
	return s.MarketStore.Latest()
}

// SyncedHeight returns the cached head height, -1 if unknown.
func (s *Stores) SyncedHeight(_ context.Context) (int64, error) {
	return s.SyncStore.GetSyncedHeight()
}
