package app

import (
	"context"
	"time"

	"github.com/init-pkg/mess-menu/domain/models"
)

type UploadMenuResult struct {
	Count             int         `json:"count"`
	Skipped           int         `json:"skipped"`
	Dates             []time.Time `json:"dates"`
	DuplicateResolved bool        `json:"duplicate_resolved"`
}

type MenuUploadService interface {
	Upload(ctx context.Context, file []byte) (*UploadMenuResult, error)
	ListByDate(ctx context.Context, date time.Time) ([]models.Menu, error)
}
