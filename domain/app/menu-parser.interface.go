package app

import (
	"context"

	"github.com/init-pkg/mess-menu/domain/models"
)

type SkipReason string

const (
	SkipReasonMissingCell     SkipReason = "missing_cell"
	SkipReasonInvalidDate     SkipReason = "invalid_date"
	SkipReasonInvalidMealType SkipReason = "invalid_meal_type"
)

type SkippedRow struct {
	Row    int        `json:"row"`
	Reason SkipReason `json:"reason"`
}

type ParseMenuResult struct {
	Sheet   string              `json:"sheet"`
	Records []models.MenuRecord `json:"records"`
	Skipped []SkippedRow        `json:"skipped"`
}

type MenuParserService interface {
	Parse(ctx context.Context, file []byte) (*ParseMenuResult, error)
}
