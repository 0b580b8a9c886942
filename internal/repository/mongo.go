package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maxviazov/catalog-service/internal/config"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewMongoDatabase connects to the offer store and pings it before returning.
// The client is handed back too so the entry point owns disconnection; nothing
// here leaks through package-level state.
func NewMongoDatabase(ctx context.Context, cfg *config.MongoConfig, logger *zerolog.Logger) (*mongo.Client, *mongo.Database, error) {
	if cfg == nil {
		return nil, nil, errors.New("mongo config is required")
	}
	if logger == nil {
		return nil, nil, errors.New("logger is required")
	}

	timeout := time.Duration(cfg.ConnectTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	logger.Info().Str("database", cfg.Database).Msg("connected to MongoDB")
	return client, client.Database(cfg.Database), nil
}
