package menu_store_repository

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/models"
	"github.com/init-pkg/mess-menu/internal/config"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const uniqueKeyIndexName = "date_day_mealType_unique"

type MenuRepository struct {
	*UpsertWriter

	coll *mongo.Collection
	log  *slog.Logger
}

var (
	_ app.MenuWriter = &MenuRepository{}
	_ app.MenuReader = &MenuRepository{}
)

func New(db *mongo.Database, cfg *config.Config, log *slog.Logger) *MenuRepository {
	coll := db.Collection(cfg.Infrastructure.Mongo.Collection)
	log = log.With("collection", coll.Name())

	return &MenuRepository{
		UpsertWriter: NewUpsertWriter(coll, log),
		coll:         coll,
		log:          log,
	}
}

// EnsureIndexes creates the unique (date, day, mealType) index the upsert
// path relies on. Creating an existing index is a no-op.
func (this *MenuRepository) EnsureIndexes(ctx context.Context) error {
	name, err := this.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "date", Value: 1},
			{Key: "day", Value: 1},
			{Key: "mealType", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName(uniqueKeyIndexName),
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", uniqueKeyIndexName, err)
	}

	this.log.Info("Menu indexes ensured", "index", name)
	return nil
}

func (this *MenuRepository) FindByDate(ctx context.Context, date time.Time) ([]models.Menu, error) {
	cursor, err := this.coll.Find(ctx, bson.D{{Key: "date", Value: date}})
	if err != nil {
		return nil, fmt.Errorf("find menus for %s: %w", date.Format(time.DateOnly), err)
	}

	menus := []models.Menu{}
	if err := cursor.All(ctx, &menus); err != nil {
		return nil, fmt.Errorf("decode menus for %s: %w", date.Format(time.DateOnly), err)
	}

	SortMenus(menus)
	return menus, nil
}

// SortMenus orders menus by meal of the day, then by day label.
func SortMenus(menus []models.Menu) {
	slices.SortFunc(menus, func(a, b models.Menu) int {
		if c := cmp.Compare(a.MealType.Order(), b.MealType.Order()); c != 0 {
			return c
		}
		return cmp.Compare(a.Day, b.Day)
	})
}
