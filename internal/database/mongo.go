package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"dbtools/internal/config"
)

// MongoStore owns the client and the collection handle used by the cat repository.
type MongoStore struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// NewMongo connects to MongoDB, checks connectivity and makes sure the
// collection has a unique index on name.
// A failed ping is reported as ErrUnreachable; everything else is a plain error.
func NewMongo(ctx context.Context, c config.MongoConfig) (*MongoStore, error) {
	if c.URI == "" || c.Database == "" || c.Collection == "" {
		return nil, fmt.Errorf("invalid mongo config: uri, database, and collection are required")
	}

	timeout := time.Duration(c.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	client, err := mongo.Connect(options.Client().
		ApplyURI(c.URI).
		SetServerSelectionTimeout(timeout).
		SetConnectTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("%w: mongo ping: %w", ErrUnreachable, err)
	}

	col := client.Database(c.Database).Collection(c.Collection)

	_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ensure unique name index: %w", err)
	}

	return &MongoStore{Client: client, Collection: col}, nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	if s == nil || s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
