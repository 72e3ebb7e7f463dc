package app

import (
	"context"
	"time"

	"github.com/init-pkg/mess-menu/domain/models"
)

type MenuCache interface {
	Get(ctx context.Context, date time.Time) ([]models.Menu, bool)
	Set(ctx context.Context, date time.Time, menus []models.Menu) error
	Invalidate(ctx context.Context, dates []time.Time) error
}
