package storage

import (
	"encoding/json"
	"fmt"

	"github.com/thanhnp/web3relay/internal/models"
)

// MarketStore keeps fiat quotes keyed by timestamp.
type MarketStore struct {
	db *PebbleDB
}

// NewMarketStore creates a new MarketStore
func NewMarketStore(db *PebbleDB) *MarketStore {
	return &MarketStore{db: db}
}

func marketKey(ts int64) []byte {
	if ts < 0 {
		ts = 0
	}
	return []byte(fmt.Sprintf("%020d", ts))
}

// Save stores a quote
func (s *MarketStore) Save(m *models.Market) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal market: %w", err)
	}
	return s.db.Put(CFMarkets, marketKey(m.Timestamp), data)
}

// Latest returns the quote with the greatest timestamp, or nil if none.
func (s *MarketStore) Latest() (*models.Market, error) {
	iter, err := s.db.NewPrefixIterator(CFMarkets, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	if !iter.Last() {
		return nil, nil
	}

	var m models.Market
	if err := json.Unmarshal(iter.Value(), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal market: %w", err)
	}
	return &m, nil
}
