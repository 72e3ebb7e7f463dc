package app

import (
	"context"
	"time"

	"github.com/init-pkg/mess-menu/domain/models"
)

type UpsertResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
	// DuplicateResolved is set when the bulk write hit a unique index
	// violation and records were written one at a time instead.
	DuplicateResolved bool `json:"duplicate_resolved"`
}

type MenuWriter interface {
	UpsertMenus(ctx context.Context, records []models.MenuRecord) (*UpsertResult, error)
}

type MenuReader interface {
	FindByDate(ctx context.Context, date time.Time) ([]models.Menu, error)
}
