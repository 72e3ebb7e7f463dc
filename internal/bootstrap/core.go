package bootstrap

import (
	"log/slog"

	"github.com/init-pkg/mess-menu/internal/config"
	"github.com/init-pkg/mess-menu/internal/logger"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func coreOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			config.Load,
			logger.New,
			func() *validator.Validate { return validator.New() },
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With("component", "fx")}
		}),
	)
}
