package menu_upload_service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/models"
)

type MenuUploadService struct {
	parser app.MenuParserService
	writer app.MenuWriter
	reader app.MenuReader
	cache  app.MenuCache
	events app.MenuEventPublisher
	log    *slog.Logger
	now    func() time.Time
}

var _ app.MenuUploadService = &MenuUploadService{}

func New(
	parser app.MenuParserService,
	writer app.MenuWriter,
	reader app.MenuReader,
	cache app.MenuCache,
	events app.MenuEventPublisher,
	log *slog.Logger,
) *MenuUploadService {
	return &MenuUploadService{parser, writer, reader, cache, events, log, time.Now}
}

// Upload parses the workbook and upserts every valid row. Cache
// invalidation and the upload event run after the write and only log
// their failures.
func (this *MenuUploadService) Upload(ctx context.Context, file []byte) (*app.UploadMenuResult, error) {
	parsed, err := this.parser.Parse(ctx, file)
	if err != nil {
		return nil, err
	}

	written, err := this.writer.UpsertMenus(ctx, parsed.Records)
	if err != nil {
		return nil, fmt.Errorf("persist menus: %w", err)
	}

	result := &app.UploadMenuResult{
		Count:             len(parsed.Records),
		Skipped:           len(parsed.Skipped),
		Dates:             distinctDates(parsed.Records),
		DuplicateResolved: written.DuplicateResolved,
	}

	this.log.Info("Menu upload persisted",
		"count", result.Count,
		"skipped", result.Skipped,
		"upserted", written.Upserted,
		"modified", written.Modified,
		"duplicateResolved", written.DuplicateResolved)

	if err := this.cache.Invalidate(ctx, result.Dates); err != nil {
		this.log.Warn("failed to invalidate menu cache", "error", err)
	}

	err = this.events.PublishMenuUploaded(ctx, app.MenuUploadedEvent{
		Count:             result.Count,
		Dates:             result.Dates,
		DuplicateResolved: result.DuplicateResolved,
		UploadedAt:        this.now().UTC(),
	})
	if err != nil {
		this.log.Warn("failed to publish menu uploaded event", "error", err)
	}

	return result, nil
}

func (this *MenuUploadService) ListByDate(ctx context.Context, date time.Time) ([]models.Menu, error) {
	if menus, ok := this.cache.Get(ctx, date); ok {
		return menus, nil
	}

	menus, err := this.reader.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if err := this.cache.Set(ctx, date, menus); err != nil {
		this.log.Warn("failed to cache menus", "date", date.Format(time.DateOnly), "error", err)
	}

	return menus, nil
}

func distinctDates(records []models.MenuRecord) []time.Time {
	dates := make([]time.Time, 0, len(records))
	for _, record := range records {
		if !slices.ContainsFunc(dates, record.Date.Equal) {
			dates = append(dates, record.Date)
		}
	}

	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates
}
