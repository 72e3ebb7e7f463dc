package menu_parser_service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/models"
	"github.com/init-pkg/mess-menu/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/xuri/excelize/v2"
)

// Column layout of a menu sheet. Everything after the meal type is an item.
const (
	colDate = iota
	colDay
	colMealType
	colFirstItem
)

type MenuParserService struct {
	log      *slog.Logger
	validate *validator.Validate
}

var _ app.MenuParserService = &MenuParserService{}

func New(log *slog.Logger, validate *validator.Validate) *MenuParserService {
	return &MenuParserService{log, validate}
}

func (this *MenuParserService) Parse(ctx context.Context, file []byte) (*app.ParseMenuResult, error) {
	f, err := excelize.OpenReader(bytes.NewReader(file))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, app.ErrNoWorksheet
	}
	sheet := sheets[0]

	// Raw values keep date cells as serial numbers instead of locale formatted text.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	result := &app.ParseMenuResult{Sheet: sheet}
	for i, row := range rows {
		rowNumber := i + 1
		if rowNumber == 1 {
			continue // header
		}

		record, reason := this.parseRow(rowNumber, row)
		if reason != "" {
			metrics.MenuRowsSkipped.WithLabelValues(string(reason)).Inc()
			result.Skipped = append(result.Skipped, app.SkippedRow{Row: rowNumber, Reason: reason})
			continue
		}

		result.Records = append(result.Records, record)
	}

	this.log.Info("Menu sheet parsed",
		"sheet", sheet,
		"rows", len(rows),
		"records", len(result.Records),
		"skipped", len(result.Skipped))

	if len(result.Records) == 0 {
		return nil, app.ErrNoValidRows
	}

	return result, nil
}

func (this *MenuParserService) parseRow(rowNumber int, row []string) (models.MenuRecord, app.SkipReason) {
	var (
		dateCell     = cell(row, colDate)
		day          = cell(row, colDay)
		mealTypeCell = cell(row, colMealType)
	)

	if dateCell == "" || day == "" || mealTypeCell == "" {
		this.log.Info("Skipping row with missing cells", "row", rowNumber, "values", row)
		return models.MenuRecord{}, app.SkipReasonMissingCell
	}

	date, err := ParseDate(dateCell)
	if err != nil {
		this.log.Warn("Invalid date format", "row", rowNumber, "value", dateCell, "error", err)
		return models.MenuRecord{}, app.SkipReasonInvalidDate
	}

	mealType, _ := models.ParseMealType(mealTypeCell)
	record := models.MenuRecord{
		Date:     date,
		Day:      day,
		MealType: mealType,
		Items:    items(row),
	}

	if err := this.validate.Struct(record); err != nil {
		this.log.Warn("Invalid meal type", "row", rowNumber, "value", mealTypeCell, "error", err)
		return models.MenuRecord{}, app.SkipReasonInvalidMealType
	}

	return record, ""
}

func cell(row []string, col int) string {
	if col < len(row) {
		return row[col]
	}
	return ""
}

// items keeps non-empty cells after the meal type as they are.
func items(row []string) []string {
	res := []string{}
	for col := colFirstItem; col < len(row); col++ {
		if row[col] != "" {
			res = append(res, row[col])
		}
	}
	return res
}
