package menu_cache_module

import (
	"github.com/init-pkg/mess-menu/domain/app"
	menu_cache_service "github.com/init-pkg/mess-menu/internal/app/menu-cache/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(menu_cache_service.New, fx.As(new(app.MenuCache))),
	)
}
