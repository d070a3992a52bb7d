package database

import (
	"context"
	"fmt"

	"atelier/internal/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DB is the Mongo-backed document store. One DB is created at process start
// and shared by every handler; the underlying client pools connections and
// is safe for concurrent use.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
	logger zerolog.Logger
}

func NewDB(ctx context.Context, cfg config.StoreConfig, logger *zerolog.Logger) (*DB, error) {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "database").Logger()
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout())
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to store: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping store: %w", err)
	}

	base.Info().Str("database", cfg.Database).Msg("document store connected")

	return &DB{
		client: client,
		db:     client.Database(cfg.Database),
		logger: base,
	}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

func (d *DB) Close(ctx context.Context) error {
	d.logger.Info().Msg("document store disconnecting")
	return d.client.Disconnect(ctx)
}
