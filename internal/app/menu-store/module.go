package menu_store_module

import (
	"context"

	"github.com/init-pkg/mess-menu/domain/app"
	menu_store_repository "github.com/init-pkg/mess-menu/internal/app/menu-store/repository"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			menu_store_repository.New,
			func(repo *menu_store_repository.MenuRepository) app.MenuWriter { return repo },
			func(repo *menu_store_repository.MenuRepository) app.MenuReader { return repo },
		),
		fx.Invoke(registerIndexes),
	)
}

func registerIndexes(lc fx.Lifecycle, repo *menu_store_repository.MenuRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return repo.EnsureIndexes(ctx)
		},
	})
}
