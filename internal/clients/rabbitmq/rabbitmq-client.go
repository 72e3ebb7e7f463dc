package rabbitmq_client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/init-pkg/mess-menu/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/fx"
)

// New dials the broker, or returns nil when RABBITMQ_URL is not set.
func New(cfg *config.Config, lc fx.Lifecycle, log *slog.Logger) (*amqp.Connection, error) {
	if cfg.Infrastructure.RabbitMQ.Url == "" {
		log.Info("RABBITMQ_URL not set, menu events disabled")
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.Infrastructure.RabbitMQ.Url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if conn.IsClosed() {
				return nil
			}
			return conn.Close()
		},
	})

	log.Info("Connected to RabbitMQ")
	return conn, nil
}
