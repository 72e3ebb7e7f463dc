package menu_parser_module

import (
	"github.com/init-pkg/mess-menu/domain/app"
	menu_parser_service "github.com/init-pkg/mess-menu/internal/app/menu-parser/service"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Provide(
		fx.Annotate(menu_parser_service.New, fx.As(new(app.MenuParserService))),
	)
}
