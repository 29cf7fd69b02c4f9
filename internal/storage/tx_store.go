package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/web3relay/internal/models"
)

// TxStore handles transaction storage operations
type TxStore struct {
	db *PebbleDB
}

// NewTxStore creates a new TxStore
func NewTxStore(db *PebbleDB) *TxStore {
	return &TxStore{db: db}
}

// blockTxKey indexes a transaction hash under its block number.
func blockTxKey(number uint64, hash string) []byte {
	return []byte(fmt.Sprintf("%020d:%s", number, hash))
}

func blockTxPrefix(number uint64) []byte {
	return []byte(fmt.Sprintf("%020d:", number))
}

// Save stores a transaction. Mined transactions are also indexed by block
// number.
func (s *TxStore) Save(tx *models.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	if err := s.db.PutBatch(batch, CFTransactions, []byte(tx.Hash), data); err != nil {
		return err
	}
	if tx.BlockNumber != nil {
		if err := s.db.PutBatch(batch, CFBlockTxs, blockTxKey(*tx.BlockNumber, tx.Hash), nil); err != nil {
			return err
		}
	}

	return s.db.WriteBatch(batch)
}

// Get retrieves a transaction by its hash
func (s *TxStore) Get(hash string) (*models.Transaction, error) {
	data, err := s.db.Get(CFTransactions, []byte(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var tx models.Transaction
	if err := json.Unmarshal(data, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}
	return &tx, nil
}

// HashesByBlock returns the distinct transaction hashes indexed under a
// block number, in key order.
func (s *TxStore) HashesByBlock(number uint64) ([]string, error) {
	prefix := blockTxPrefix(number)
	iter, err := s.db.NewPrefixIterator(CFBlockTxs, prefix)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	hashes := []string{}
	for ; iter.Valid(); iter.Next() {
		hashes = append(hashes, string(iter.Key()[len(prefix):]))
	}
	return hashes, nil
}
