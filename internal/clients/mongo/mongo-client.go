package mongo_client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/init-pkg/mess-menu/internal/config"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/fx"
)

const DefaultDatabase = "mess-menu"

// New builds the process wide client. The driver connects lazily, the
// start hook pings the primary so a bad URI fails startup.
func New(cfg *config.Config, lc fx.Lifecycle, log *slog.Logger) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Infrastructure.Mongo.Uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx, readpref.Primary()); err != nil {
				return fmt.Errorf("ping mongo: %w", err)
			}
			log.Info("Connected to MongoDB", "database", DatabaseName(cfg.Infrastructure.Mongo))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}

func NewDatabase(client *mongo.Client, cfg *config.Config) *mongo.Database {
	return client.Database(DatabaseName(cfg.Infrastructure.Mongo))
}

// DatabaseName prefers the explicit setting, then the path of the
// connection string, then DefaultDatabase.
func DatabaseName(cfg config.MongoConfig) string {
	if cfg.Database != "" {
		return cfg.Database
	}

	if u, err := url.Parse(cfg.Uri); err == nil {
		if name := strings.TrimPrefix(u.Path, "/"); name != "" {
			return name
		}
	}

	return DefaultDatabase
}
