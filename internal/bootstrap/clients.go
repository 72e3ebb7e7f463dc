package bootstrap

import (
	mongo_client "github.com/init-pkg/mess-menu/internal/clients/mongo"
	rabbitmq_client "github.com/init-pkg/mess-menu/internal/clients/rabbitmq"
	redis_client "github.com/init-pkg/mess-menu/internal/clients/redis"
	"go.uber.org/fx"
)

func clientsOptions() fx.Option {
	return fx.Options(
		fx.Provide(
			mongo_client.New,
			mongo_client.NewDatabase,
			redis_client.New,
			rabbitmq_client.New,
		),
	)
}
