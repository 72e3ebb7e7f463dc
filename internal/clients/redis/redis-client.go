package redis_client

import (
	"context"
	"log/slog"

	"github.com/init-pkg/mess-menu/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// New returns nil when no address is configured.
func New(cfg *config.Config, lc fx.Lifecycle, log *slog.Logger) *redis.Client {
	redisCfg := cfg.Infrastructure.Redis
	if redisCfg.Addr == "" {
		log.Info("REDIS_ADDR not set, menu cache disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// The cache is optional, an unreachable server only degrades reads.
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("failed to ping redis", "addr", redisCfg.Addr, "error", err)
				return nil
			}
			log.Info("Connected to Redis", "addr", redisCfg.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client
}
