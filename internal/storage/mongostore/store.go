// Package mongostore serves the relay's cache lookups from the explorer's
// MongoDB collections (blocks, transactions, markets).
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/thanhnp/web3relay/internal/models"
	"github.com/thanhnp/web3relay/pkg/metrics"
)

// Collection names as created by the explorer's ingestion process.
const (
	BlocksCollection       = "blocks"
	TransactionsCollection = "transactions"
	MarketsCollection      = "markets"
)

// Store reads cached blocks, transactions and quotes from MongoDB.
type Store struct {
	client  *mongo.Client
	blocks  *mongo.Collection
	txs     *mongo.Collection
	markets *mongo.Collection
}

// Connect dials uri, pings the primary and opens the explorer database.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(database)
	return &Store{
		client:  client,
		blocks:  db.Collection(BlocksCollection),
		txs:     db.Collection(TransactionsCollection),
		markets: db.Collection(MarketsCollection),
	}, nil
}

// Close disconnects the client
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// TransactionByHash returns the cached transaction or nil on a miss.
func (s *Store) TransactionByHash(ctx context.Context, hash string) (*models.Transaction, error) {
	var tx models.Transaction
	found, err := findOne(ctx, s.txs, txFilter(hash), &tx, nil)
	if err != nil {
		return nil, fmt.Errorf("find transaction %s: %w", hash, err)
	}
	metrics.CacheLookup(TransactionsCollection, found)
	if !found {
		return nil, nil
	}
	return &tx, nil
}

// BlockByRef returns the cached block for a hash or number, nil on a miss.
func (s *Store) BlockByRef(ctx context.Context, ref models.BlockRef) (*models.Block, error) {
	var b models.Block
	opts := options.FindOne().SetProjection(bson.M{"_id": 0})
	found, err := findOne(ctx, s.blocks, blockFilter(ref), &b, opts)
	if err != nil {
		return nil, fmt.Errorf("find block %s: %w", ref, err)
	}
	metrics.CacheLookup(BlocksCollection, found)
	if !found {
		return nil, nil
	}
	return &b, nil
}

// TransactionHashesByBlock returns the distinct tx hashes cached for a block.
func (s *Store) TransactionHashesByBlock(ctx context.Context, number uint64) ([]string, error) {
	values, err := s.txs.Distinct(ctx, "hash", blockTxsFilter(number))
	if err != nil {
		return nil, fmt.Errorf("distinct hashes of block %d: %w", number, err)
	}
	hashes := make([]string, 0, len(values))
	for _, v := range values {
		if h, ok := v.(string); ok {
			hashes = append(hashes, h)
		}
	}
	return hashes, nil
}

// LatestMarket returns the most recent quote, nil if none is cached.
func (s *Store) LatestMarket(ctx context.Context) (*models.Market, error) {
	var m models.Market
	opts := options.FindOne().SetSort(latestMarketSort())
	found, err := findOne(ctx, s.markets, bson.M{}, &m, opts)
	if err != nil {
		return nil, fmt.Errorf("find latest market: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

// SyncedHeight returns the highest cached block number, -1 if none.
func (s *Store) SyncedHeight(ctx context.Context) (int64, error) {
	var head struct {
		Number int64 `bson:"number"`
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "number", Value: -1}}).
		SetProjection(bson.M{"number": 1, "_id": 0})
	found, err := findOne(ctx, s.blocks, bson.M{}, &head, opts)
	if err != nil {
		return 0, fmt.Errorf("find head block: %w", err)
	}
	if !found {
		return -1, nil
	}
	return head.Number, nil
}

func findOne(ctx context.Context, coll *mongo.Collection, filter interface{}, out interface{}, opts *options.FindOneOptions) (bool, error) {
	var res *mongo.SingleResult
	if opts != nil {
		res = coll.FindOne(ctx, filter, opts)
	} else {
		res = coll.FindOne(ctx, filter)
	}
	if err := res.Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func txFilter(hash string) bson.M {
	return bson.M{"hash": hash}
}

func blockFilter(ref models.BlockRef) bson.M {
	if ref.IsHash() {
		return bson.M{"hash": ref.Hash}
	}
	return bson.M{"number": int64(ref.Number)}
}

func blockTxsFilter(number uint64) bson.M {
	return bson.M{"blockNumber": int64(number)}
}

func latestMarketSort() bson.D {
	return bson.D{{Key: "timestamp", Value: -1}}
}
