package server

import (
	"context"
	"errors"
	"log/slog"
	"net"

	"github.com/init-pkg/mess-menu/domain/dtos"
	"github.com/init-pkg/mess-menu/internal/config"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"go.uber.org/fx"
)

const ProcessingErrorMessage = "Error processing file"

func NewApp(cfg *config.Config, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "mess-menu",
		BodyLimit:    cfg.Http.BodyLimit(),
		ErrorHandler: ErrorHandler(log),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recoverer.New())

	return app
}

// ErrorHandler renders *fiber.Error as {"error": message} with its status.
// Anything else is an unexpected failure and becomes a 500 with details.
func ErrorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(dtos.ErrorResponse{Error: fiberErr.Message})
		}

		log.Error("Error processing request", "method", c.Method(), "path", c.Path(), "error", err)

		return c.Status(fiber.StatusInternalServerError).JSON(dtos.ErrorResponse{
			Error:   ProcessingErrorMessage,
			Details: err.Error(),
		})
	}
}

// Start listens once every other start hook has run and shuts the app
// down gracefully on stop.
func Start(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *slog.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Http.Addr)
			if err != nil {
				return err
			}

			go func() {
				log.Info("HTTP server listening", "addr", cfg.Http.Addr)
				if err := app.Listener(ln, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					log.Error("HTTP server stopped", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("HTTP server shutting down")
			return app.ShutdownWithContext(ctx)
		},
	})
}
