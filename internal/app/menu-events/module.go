package menu_events_module

import (
	"github.com/init-pkg/mess-menu/domain/app"
	menu_events_service "github.com/init-pkg/mess-menu/internal/app/menu-events/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(menu_events_service.New, fx.As(new(app.MenuEventPublisher))),
	)
}
