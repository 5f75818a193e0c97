package audit

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/mongo"
)

// DefaultMongoCollection is the collection name used when none is given.
const DefaultMongoCollection = "authz_decisions"

// MongoSink appends decision events to a MongoDB collection. The
// collection is treated as append-only; no index beyond _id is required,
// though deployments typically add (principal_id, created_at) for reads.
type MongoSink struct {
	collection *mongo.Collection
}

// NewMongoSink creates a sink writing into db's collection. An empty
// collection name falls back to DefaultMongoCollection.
func NewMongoSink(db *mongo.Database, collection string) (*MongoSink, error) {
	if db == nil {
		return nil, errors.New("audit: mongo database cannot be nil")
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	return &MongoSink{collection: db.Collection(collection)}, nil
}

// Write implements Sink.
func (s *MongoSink) Write(ctx context.Context, event Event) error {
	if _, err := s.collection.InsertOne(ctx, event); err != nil {
		return errors.Join(ErrSinkUnavailable, err)
	}
	return nil
}

// Close implements Sink. The underlying client is owned by the caller, so
// there is nothing to release here.
func (s *MongoSink) Close(ctx context.Context) error {
	return nil
}
