package menu_upload_http_handler

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/dtos"
	menu_parser_service "github.com/init-pkg/mess-menu/internal/app/menu-parser/service"
	"github.com/init-pkg/mess-menu/internal/metrics"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

const (
	uploadSuccessMessage          = "Menu data uploaded successfully"
	uploadDuplicateSuccessMessage = "Menu data uploaded successfully (with duplicate resolution)"

	noFileMessage      = "No file uploaded"
	noWorksheetMessage = "No worksheet found in the Excel file"
	noValidRowsMessage = "No valid menu items found in the Excel file"
	invalidDateMessage = "Invalid date"
	listErrorMessage   = "Error fetching menus"
)

//go:embed web/index.html
var indexPage []byte

type MenuUploadHttpHandler struct {
	service  app.MenuUploadService
	validate *validator.Validate
	log      *slog.Logger
}

func New(service app.MenuUploadService, validate *validator.Validate, log *slog.Logger) *MenuUploadHttpHandler {
	return &MenuUploadHttpHandler{service, validate, log}
}

func (this *MenuUploadHttpHandler) Register(mainApp *fiber.App) {
	var api = mainApp.Group("/api")

	api.Post("/upload", this.upload)
	api.Get("/menus", this.listMenus)

	mainApp.Get("/", this.page)
}

// upload godoc
//
//	@Summary	Upload a menu spreadsheet
//	@Tags		menus
//	@Accept		multipart/form-data
//	@Produce	json
//	@Param		file	formData	file	true	"Menu workbook (.xlsx)"
//	@Success	200		{object}	dtos.UploadMenuResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Failure	500		{object}	dtos.ErrorResponse
//	@Router		/api/upload [post]
func (this *MenuUploadHttpHandler) upload(fctx fiber.Ctx) error {
	started := time.Now()
	defer func() {
		metrics.MenuUploadDuration.Observe(time.Since(started).Seconds())
	}()

	res, err := this.handleUpload(fctx)
	if err != nil {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			metrics.MenuUploads.WithLabelValues(metrics.UploadResultClientError).Inc()
		} else {
			metrics.MenuUploads.WithLabelValues(metrics.UploadResultServerError).Inc()
		}
		return err
	}

	metrics.MenuUploads.WithLabelValues(metrics.UploadResultSuccess).Inc()

	message := uploadSuccessMessage
	if res.DuplicateResolved {
		message = uploadDuplicateSuccessMessage
	}

	return fctx.JSON(dtos.UploadMenuResponse{
		Message: message,
		Count:   res.Count,
	})
}

func (this *MenuUploadHttpHandler) handleUpload(fctx fiber.Ctx) (*app.UploadMenuResult, error) {
	header, err := fctx.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, noFileMessage)
	}

	this.log.Info("File received", "name", header.Filename, "size", header.Size)

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file: %w", err)
	}
	defer f.Close()

	file, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file: %w", err)
	}

	res, err := this.service.Upload(fctx.Context(), file)
	switch {
	case errors.Is(err, app.ErrNoWorksheet):
		return nil, fiber.NewError(fiber.StatusBadRequest, noWorksheetMessage)
	case errors.Is(err, app.ErrNoValidRows):
		return nil, fiber.NewError(fiber.StatusBadRequest, noValidRowsMessage)
	case err != nil:
		return nil, err
	}

	return res, nil
}

// listMenus godoc
//
//	@Summary	Stored menus for one calendar date
//	@Tags		menus
//	@Produce	json
//	@Param		date	query		string	true	"Date, DD-MM-YYYY or YYYY-MM-DD"
//	@Success	200		{object}	dtos.ListMenusResponse
//	@Failure	400		{object}	dtos.ErrorResponse
//	@Failure	500		{object}	dtos.ErrorResponse
//	@Router		/api/menus [get]
func (this *MenuUploadHttpHandler) listMenus(fctx fiber.Ctx) error {
	req := dtos.ListMenusRequest{Date: fctx.Query("date")}
	if err := this.validate.Struct(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, invalidDateMessage)
	}

	date, err := menu_parser_service.ParseDate(req.Date)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, invalidDateMessage)
	}

	menus, err := this.service.ListByDate(fctx.Context(), date)
	if err != nil {
		this.log.Error("failed to list menus", "date", req.Date, "error", err)
		return fctx.Status(fiber.StatusInternalServerError).JSON(dtos.ErrorResponse{
			Error:   listErrorMessage,
			Details: err.Error(),
		})
	}

	return fctx.JSON(dtos.ListMenusResponse{
		Date:  date.Format(time.DateOnly),
		Menus: menus,
	})
}

func (this *MenuUploadHttpHandler) page(fctx fiber.Ctx) error {
	fctx.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return fctx.Send(indexPage)
}
