package storage

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cockroachdb/pebble"
)

// Key prefixes (simulating column families)
const (
	PrefixBlocks         = "blk:"
	PrefixBlocksByNumber = "bnm:"
	PrefixTransactions   = "txn:"
	PrefixBlockTxs       = "btx:"
	PrefixMarkets        = "mkt:"
	PrefixSyncState      = "syn:"
)

// Column family names
const (
	CFBlocks         = "blocks"
	CFBlocksByNumber = "blocks_by_number"
	CFTransactions   = "transactions"
	CFBlockTxs       = "block_transactions"
	CFMarkets        = "markets"
	CFSyncState      = "sync_state"
)

var cfPrefixes = map[string]string{
	CFBlocks:         PrefixBlocks,
	CFBlocksByNumber: PrefixBlocksByNumber,
	CFTransactions:   PrefixTransactions,
	CFBlockTxs:       PrefixBlockTxs,
	CFMarkets:        PrefixMarkets,
	CFSyncState:      PrefixSyncState,
}

const defaultCacheSize = 64 << 20

// PebbleDB wraps the Pebble database
type PebbleDB struct {
	db *pebble.DB
}

// WriteBatch wraps Pebble's batch for atomic writes
type WriteBatch struct {
	batch *pebble.Batch
}

// Iterator wraps Pebble's iterator
type Iterator struct {
	iter     *pebble.Iterator
	cfPrefix []byte // stripped from returned keys
}

// NewPebbleDB opens (creating if needed) a Pebble database at path.
// cacheSize <= 0 selects a 64MB block cache.
func NewPebbleDB(path string, cacheSize int64) (*PebbleDB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	if cacheSize <= 0 {
		cacheSize = defaultCacheSize
	}

	cache := pebble.NewCache(cacheSize)
	defer cache.Unref()

	opts := &pebble.Options{
		Cache:        cache,
		MaxOpenFiles: 500,
	}

	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &PebbleDB{db: db}, nil
}

// Close closes the database
func (p *PebbleDB) Close() error {
	return p.db.Close()
}

func (p *PebbleDB) prefixKey(cf string, key []byte) ([]byte, error) {
	prefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}
	return append([]byte(prefix), key...), nil
}

// Put stores a key-value pair in the specified column family
func (p *PebbleDB) Put(cf string, key, value []byte) error {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return err
	}
	return p.db.Set(prefixedKey, value, pebble.Sync)
}

// Get retrieves a value from the specified column family. A missing key
// yields (nil, nil).
func (p *PebbleDB) Get(cf string, key []byte) ([]byte, error) {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return nil, err
	}

	value, closer, err := p.db.Get(prefixedKey)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	defer closer.Close()

	// value is only valid until closer.Close()
	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

// NewBatch creates a new write batch
func (p *PebbleDB) NewBatch() *WriteBatch {
	return &WriteBatch{batch: p.db.NewBatch()}
}

// WriteBatch commits a batch
func (p *PebbleDB) WriteBatch(batch *WriteBatch) error {
	return batch.batch.Commit(pebble.Sync)
}

// PutBatch adds a put operation to the batch
func (p *PebbleDB) PutBatch(batch *WriteBatch, cf string, key, value []byte) error {
	prefixedKey, err := p.prefixKey(cf, key)
	if err != nil {
		return err
	}
	return batch.batch.Set(prefixedKey, value, nil)
}

// Destroy closes the batch and releases resources
func (b *WriteBatch) Destroy() {
	b.batch.Close()
}

// NewPrefixIterator creates an iterator over the keys of a column family
// that start with prefix. It is positioned at the first key.
func (p *PebbleDB) NewPrefixIterator(cf string, prefix []byte) (*Iterator, error) {
	cfPrefix, ok := cfPrefixes[cf]
	if !ok {
		return nil, fmt.Errorf("column family not found: %s", cf)
	}

	cfPrefixBytes := []byte(cfPrefix)
	fullPrefix := append(append([]byte{}, cfPrefixBytes...), prefix...)
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: fullPrefix,
		UpperBound: prefixUpperBound(fullPrefix),
	})
	if err != nil {
		return nil, err
	}

	iter.First()
	return &Iterator{iter: iter, cfPrefix: cfPrefixBytes}, nil
}

// prefixUpperBound returns the upper bound for prefix iteration
func prefixUpperBound(prefix []byte) []byte {
	if len(prefix) == 0 {
		return nil
	}
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// Valid returns true if the iterator is positioned at a valid key
func (i *Iterator) Valid() bool {
	return i.iter.Valid()
}

// Next advances the iterator to the next key
func (i *Iterator) Next() bool {
	return i.iter.Next()
}

// Last moves the iterator to the last key in range
func (i *Iterator) Last() bool {
	return i.iter.Last()
}

// Key returns the current key without the column family prefix
func (i *Iterator) Key() []byte {
	key := i.iter.Key()
	if len(key) > len(i.cfPrefix) && bytes.HasPrefix(key, i.cfPrefix) {
		return key[len(i.cfPrefix):]
	}
	return key
}

// Value returns the current value
func (i *Iterator) Value() []byte {
	return i.iter.Value()
}

// Close closes the iterator
func (i *Iterator) Close() error {
	return i.iter.Close()
}
