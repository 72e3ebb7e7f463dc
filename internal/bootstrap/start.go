package bootstrap

import (
	"github.com/init-pkg/mess-menu/internal/server"

	menu_upload_module "github.com/init-pkg/mess-menu/internal/app/menu-upload"
	"go.uber.org/fx"
)

func Run() {
	app := fx.New(
		coreOptions(),
		clientsOptions(),
		appOptions(),

		fx.Provide(
			server.NewApp,
			server.MongoPinger,
		),
		menu_upload_module.RegisterHttp(),
		fx.Invoke(
			server.RegisterSystemRoutes,
			server.Start,
		),
	)

	app.Run()
}
