package menu_upload_module

import (
	"github.com/init-pkg/mess-menu/domain/app"
	menu_upload_service "github.com/init-pkg/mess-menu/internal/app/menu-upload/service"
	menu_upload_http_handler "github.com/init-pkg/mess-menu/internal/app/menu-upload/transports/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
)

func Register() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(menu_upload_service.New, fx.As(new(app.MenuUploadService))),
		),
	)
}

// RegisterHttp mounts the upload routes. It is left out of the seed command.
func RegisterHttp() fx.Option {
	return fx.Options(
		fx.Provide(menu_upload_http_handler.New),
		fx.Invoke(func(handler *menu_upload_http_handler.MenuUploadHttpHandler, app *fiber.App) {
			handler.Register(app)
		}),
	)
}
