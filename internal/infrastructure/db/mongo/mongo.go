// Package mongo holds the MongoDB-backed credential and product stores.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to reach the database.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect opens a client, pings the primary and selects cfg.Database.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}

// Repositories bundles the stores backed by one database.
type Repositories struct {
	Users    *UserRepository
	Products *ProductRepository
}

// NewRepositories builds the stores and makes sure their indexes exist.
func NewRepositories(ctx context.Context, db *mongo.Database) (*Repositories, error) {
	repos := &Repositories{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
	}
	if err := repos.Users.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongo indexes: %w", err)
	}
	return repos, nil
}
