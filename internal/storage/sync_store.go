package storage

import (
	"fmt"
	"strconv"
)

var headKey = []byte("head")

// SyncStore holds the head height the ingestion process has cached.
type SyncStore struct {
	db *PebbleDB
}

// NewSyncStore creates a new SyncStore
func NewSyncStore(db *PebbleDB) *SyncStore {
	return &SyncStore{db: db}
}

// GetSyncedHeight returns the cached head height, -1 if unknown.
func (s *SyncStore) GetSyncedHeight() (int64, error) {
	data, err := s.db.Get(CFSyncState, headKey)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return -1, nil
	}

	height, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse sync height: %w", err)
	}

	return height, nil
}

// SetSyncedHeight records the cached head height
func (s *SyncStore) SetSyncedHeight(height int64) error {
	return s.db.Put(CFSyncState, headKey, []byte(strconv.FormatInt(height, 10)))
}
