package menu_cache_service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/models"
	"github.com/init-pkg/mess-menu/internal/config"
	"github.com/init-pkg/mess-menu/internal/metrics"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "mess-menu:menus:"

// MenuCacheService caches menus per calendar date. With a nil client every
// call is a miss or a no-op.
type MenuCacheService struct {
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

var _ app.MenuCache = &MenuCacheService{}

func New(client *redis.Client, cfg *config.Config, log *slog.Logger) *MenuCacheService {
	return &MenuCacheService{client, cfg.Cache.TTL, log}
}

func Key(date time.Time) string {
	return keyPrefix + date.Format(time.DateOnly)
}

func (this *MenuCacheService) Get(ctx context.Context, date time.Time) ([]models.Menu, bool) {
	if this.client == nil {
		return nil, false
	}

	raw, err := this.client.Get(ctx, Key(date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			this.log.Warn("failed to read menu cache", "key", Key(date), "error", err)
		}
		metrics.MenuCacheRequests.WithLabelValues(metrics.CacheResultMiss).Inc()
		return nil, false
	}

	var menus []models.Menu
	if err := json.Unmarshal(raw, &menus); err != nil {
		this.log.Warn("failed to decode cached menus", "key", Key(date), "error", err)
		metrics.MenuCacheRequests.WithLabelValues(metrics.CacheResultMiss).Inc()
		return nil, false
	}

	metrics.MenuCacheRequests.WithLabelValues(metrics.CacheResultHit).Inc()
	return menus, true
}

func (this *MenuCacheService) Set(ctx context.Context, date time.Time, menus []models.Menu) error {
	if this.client == nil {
		return nil
	}

	raw, err := json.Marshal(menus)
	if err != nil {
		return fmt.Errorf("encode menus: %w", err)
	}

	if err := this.client.Set(ctx, Key(date), raw, this.ttl).Err(); err != nil {
		return fmt.Errorf("cache menus %s: %w", Key(date), err)
	}
	return nil
}

func (this *MenuCacheService) Invalidate(ctx context.Context, dates []time.Time) error {
	if this.client == nil || len(dates) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dates))
	for _, date := range dates {
		keys = append(keys, Key(date))
	}

	if err := this.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("invalidate %d cached dates: %w", len(keys), err)
	}
	return nil
}
