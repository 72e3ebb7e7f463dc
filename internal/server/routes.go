package server

import (
	"context"
	"time"

	"github.com/init-pkg/mess-menu/domain/dtos"

	_ "github.com/init-pkg/mess-menu/docs"

	swagger "github.com/Flussen/swagger-fiber-v3"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const healthTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

func MongoPinger(client *mongo.Client) Pinger {
	return PingerFunc(func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	})
}

// RegisterSystemRoutes mounts health, metrics and API docs.
func RegisterSystemRoutes(app *fiber.App, db Pinger) {
	app.Get("/healthz", health(db))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/swagger/*", swagger.HandlerDefault)
}

// health godoc
//
//	@Summary	Liveness and storage connectivity
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	dtos.HealthResponse
//	@Failure	503	{object}	dtos.HealthResponse
//	@Router		/healthz [get]
func health(db Pinger) fiber.Handler {
	return func(c fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(context.Background(), healthTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dtos.HealthResponse{Status: "unavailable", Error: err.Error()})
		}
		return c.JSON(dtos.HealthResponse{Status: "ok"})
	}
}
