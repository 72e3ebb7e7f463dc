package menu_store_repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/models"
	"github.com/init-pkg/mess-menu/internal/metrics"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// upsertCollection is the part of *mongo.Collection the writer needs.
type upsertCollection interface {
	BulkWrite(ctx context.Context, writes []mongo.WriteModel, opts ...options.Lister[options.BulkWriteOptions]) (*mongo.BulkWriteResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...options.Lister[options.UpdateOneOptions]) (*mongo.UpdateResult, error)
}

// UpsertWriter writes menu records keyed on (date, day, mealType). It
// tries a single ordered bulk write first and, when that fails on a
// unique index violation, upserts the records one at a time.
type UpsertWriter struct {
	coll upsertCollection
	log  *slog.Logger
	now  func() time.Time
}

var _ app.MenuWriter = &UpsertWriter{}

func NewUpsertWriter(coll upsertCollection, log *slog.Logger) *UpsertWriter {
	return &UpsertWriter{coll, log, time.Now}
}

func (this *UpsertWriter) UpsertMenus(ctx context.Context, records []models.MenuRecord) (*app.UpsertResult, error) {
	if len(records) == 0 {
		return &app.UpsertResult{}, nil
	}

	now := this.now().UTC()

	res, err := this.bulkUpsert(ctx, records, now)
	if err == nil {
		metrics.MenuRecordsUpserted.Add(float64(len(records)))
		return res, nil
	}
	if !IsDuplicateKeyError(err) {
		return nil, fmt.Errorf("bulk upsert menus: %w", err)
	}

	this.log.Error("Duplicate key error, retrying records one by one", "error", err, "records", len(records))
	metrics.MenuUpsertFallbacks.Inc()

	res, err = this.upsertEach(ctx, records, now)
	if err != nil {
		return nil, err
	}

	metrics.MenuRecordsUpserted.Add(float64(len(records)))
	return res, nil
}

func (this *UpsertWriter) bulkUpsert(ctx context.Context, records []models.MenuRecord, now time.Time) (*app.UpsertResult, error) {
	writes := make([]mongo.WriteModel, 0, len(records))
	for _, record := range records {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(keyFilter(record)).
			SetUpdate(upsertUpdate(record, now)).
			SetUpsert(true))
	}

	res, err := this.coll.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(true))
	if err != nil {
		return nil, err
	}

	this.log.Info("Menu bulk upsert finished",
		"matched", res.MatchedCount,
		"modified", res.ModifiedCount,
		"upserted", res.UpsertedCount)

	return &app.UpsertResult{
		Matched:  res.MatchedCount,
		Modified: res.ModifiedCount,
		Upserted: res.UpsertedCount,
	}, nil
}

// upsertEach stops at the first failing record. Records written before it stay written.
func (this *UpsertWriter) upsertEach(ctx context.Context, records []models.MenuRecord, now time.Time) (*app.UpsertResult, error) {
	result := &app.UpsertResult{DuplicateResolved: true}

	for i, record := range records {
		res, err := this.coll.UpdateOne(ctx,
			keyFilter(record),
			upsertUpdate(record, now),
			options.UpdateOne().SetUpsert(true))
		if err != nil {
			return nil, fmt.Errorf("upsert menu %d of %d (%s %s %s): %w",
				i+1, len(records), record.Date.Format(time.DateOnly), record.Day, record.MealType, err)
		}

		result.Matched += res.MatchedCount
		result.Modified += res.ModifiedCount
		result.Upserted += res.UpsertedCount
	}

	return result, nil
}

func keyFilter(record models.MenuRecord) bson.D {
	return bson.D{
		{Key: "date", Value: record.Date},
		{Key: "day", Value: record.Day},
		{Key: "mealType", Value: record.MealType},
	}
}

// upsertUpdate replaces every field of the stored document; menuItems is
// overwritten, never merged.
func upsertUpdate(record models.MenuRecord, now time.Time) bson.D {
	items := record.Items
	if items == nil {
		items = []string{}
	}

	return bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "date", Value: record.Date},
			{Key: "day", Value: record.Day},
			{Key: "mealType", Value: record.MealType},
			{Key: "menuItems", Value: items},
			{Key: "updatedAt", Value: now},
		}},
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "createdAt", Value: now},
		}},
	}
}
