package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/web3relay/internal/models"
)

// BlockStore handles block storage operations
type BlockStore struct {
	db *PebbleDB
}

// NewBlockStore creates a new BlockStore
func NewBlockStore(db *PebbleDB) *BlockStore {
	return &BlockStore{db: db}
}

// numberKey is zero padded so that keys sort by block number.
func numberKey(number uint64) []byte {
	return []byte(fmt.Sprintf("%020d", number))
}

// Save stores a block by hash plus a number -> hash index entry.
func (s *BlockStore) Save(block *models.Block) error {
	data, err := json.Marshal(block)
	if err != nil {
		return fmt.Errorf("failed to marshal block: %w", err)
	}

	batch := s.db.NewBatch()
	defer batch.Destroy()

	if err := s.db.PutBatch(batch, CFBlocks, []byte(block.Hash), data); err != nil {
		return err
	}
	if err := s.db.PutBatch(batch, CFBlocksByNumber, numberKey(block.Number), []byte(block.Hash)); err != nil {
		return err
	}

	return s.db.WriteBatch(batch)
}

// GetByHash retrieves a block by its hash
func (s *BlockStore) GetByHash(hash string) (*models.Block, error) {
	data, err := s.db.Get(CFBlocks, []byte(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	var block models.Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, fmt.Errorf("failed to unmarshal block: %w", err)
	}
	return &block, nil
}

// GetByNumber retrieves a block by its number
func (s *BlockStore) GetByNumber(number uint64) (*models.Block, error) {
	hashData, err := s.db.Get(CFBlocksByNumber, numberKey(number))
	if err != nil {
		return nil, err
	}
	if hashData == nil {
		return nil, nil
	}

	return s.GetByHash(string(hashData))
}
