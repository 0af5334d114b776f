// Package mongostore persists accepted submissions to MongoDB.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/formrelay/internal/intake"
)

// DefaultWriteTimeout bounds one insert when none is configured.
const DefaultWriteTimeout = 5 * time.Second

// Inserter is the part of *mongo.Collection used by Store.
type Inserter interface {
	InsertOne(ctx context.Context, document any, opts ...options.Lister[options.InsertOneOptions]) (*mongo.InsertOneResult, error)
}

// Store writes one Record per accepted submission.
type Store struct {
	coll    Inserter
	timeout time.Duration
	now     func() time.Time
}

// New prepares the collection (indexes included) and returns a Store.
func New(ctx context.Context, db *mongo.Database, collection string, timeout time.Duration) (*Store, error) {
	coll := db.Collection(collection)
	if err := EnsureIndexes(ctx, coll); err != nil {
		return nil, err
	}
	return NewWithCollection(coll, timeout), nil
}

// NewWithCollection wraps an existing collection handle.
func NewWithCollection(coll Inserter, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	return &Store{coll: coll, timeout: timeout, now: time.Now}
}

// Indexes lists the indexes the submissions collection needs.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}},
			Options: options.Index().SetName("source_asc"),
		},
	}
}

// EnsureIndexes creates the indexes from Indexes. Existing ones are kept.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	if _, err := coll.Indexes().CreateMany(ctx, Indexes()); err != nil {
		return fmt.Errorf("%w: create indexes: %w", intake.ErrStoreFailed, err)
	}
	return nil
}

// Store implements intake.Store.
func (s *Store) Store(ctx context.Context, sub *intake.Submission) (intake.StoreOutcome, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, NewRecord(sub, s.now())); err != nil {
		return intake.StoreFailed, fmt.Errorf("%w: %w", intake.ErrStoreFailed, err)
	}
	return intake.StoreStored, nil
}
