package bootstrap

import (
	menu_cache_module "github.com/init-pkg/mess-menu/internal/app/menu-cache"
	menu_events_module "github.com/init-pkg/mess-menu/internal/app/menu-events"
	menu_parser_module "github.com/init-pkg/mess-menu/internal/app/menu-parser"
	menu_store_module "github.com/init-pkg/mess-menu/internal/app/menu-store"
	menu_upload_module "github.com/init-pkg/mess-menu/internal/app/menu-upload"
	"go.uber.org/fx"
)

func appOptions() fx.Option {
	return fx.Options(
		menu_parser_module.Register(),
		menu_store_module.Register(),
		menu_cache_module.Register(),
		menu_events_module.Register(),
		menu_upload_module.Register(),
	)
}
