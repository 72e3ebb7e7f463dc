package menu_upload_http_handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/init-pkg/mess-menu/domain/app"
	"github.com/init-pkg/mess-menu/domain/dtos"
	"github.com/init-pkg/mess-menu/domain/models"
	menu_cache_service "github.com/init-pkg/mess-menu/internal/app/menu-cache/service"
	menu_events_service "github.com/init-pkg/mess-menu/internal/app/menu-events/service"
	menu_parser_service "github.com/init-pkg/mess-menu/internal/app/menu-parser/service"
	menu_store_repository "github.com/init-pkg/mess-menu/internal/app/menu-store/repository"
	menu_upload_service "github.com/init-pkg/mess-menu/internal/app/menu-upload/service"
	"github.com/init-pkg/mess-menu/internal/config"
	"github.com/init-pkg/mess-menu/internal/server"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// memoryStore keeps one menu per (date, day, mealType), like the unique index.
type memoryStore struct {
	mu        sync.Mutex
	menus     map[string]models.Menu
	err       error
	duplicate bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{menus: map[string]models.Menu{}}
}

func menuKey(date time.Time, day string, mealType models.MealType) string {
	return date.Format(time.DateOnly) + "|" + day + "|" + mealType.String()
}

func (s *memoryStore) UpsertMenus(ctx context.Context, records []models.MenuRecord) (*app.UpsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	res := &app.UpsertResult{DuplicateResolved: s.duplicate}
	for _, record := range records {
		key := menuKey(record.Date, record.Day, record.MealType)
		if _, ok := s.menus[key]; ok {
			res.Matched++
		} else {
			res.Upserted++
		}
		s.menus[key] = models.Menu{
			Date:      record.Date,
			Day:       record.Day,
			MealType:  record.MealType,
			MenuItems: record.Items,
		}
	}
	return res, nil
}

func (s *memoryStore) FindByDate(ctx context.Context, date time.Time) ([]models.Menu, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return nil, s.err
	}

	menus := []models.Menu{}
	for _, menu := range s.menus {
		if menu.Date.Equal(date) {
			menus = append(menus, menu)
		}
	}
	menu_store_repository.SortMenus(menus)
	return menus, nil
}

func newTestApp(store *memoryStore) *fiber.App {
	var (
		log      = slog.New(slog.DiscardHandler)
		validate = validator.New()
		cfg      = &config.Config{}
	)
	cfg.Http.BodyLimitMB = 10

	service := menu_upload_service.New(
		menu_parser_service.New(log, validate),
		store,
		store,
		menu_cache_service.New(nil, cfg, log),
		menu_events_service.New(nil, cfg, log),
		log,
	)

	fiberApp := server.NewApp(cfg, log)
	New(service, validate, log).Register(fiberApp)
	return fiberApp
}

func buildWorkbook(t *testing.T, rows ...[]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", axis, &rows[i]))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var header = []interface{}{"Date", "Day", "Meal Type", "Items"}

func uploadRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile(field, "menu.xlsx")
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func doUpload(t *testing.T, fiberApp *fiber.App, req *http.Request, out interface{}) int {
	t.Helper()

	res, err := fiberApp.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
	return res.StatusCode
}

func TestUploadPersistsRows(t *testing.T) {
	store := newMemoryStore()
	fiberApp := newTestApp(store)

	file := buildWorkbook(t,
		header,
		[]interface{}{"01-03-2024", "Friday", "Lunch", "Rice", "Dal", "Salad"},
		[]interface{}{"01-03-2024", "Friday", "Dinner", "Roti", "Paneer"},
		[]interface{}{"not a date", "Friday", "Snacks", "Samosa"},
		[]interface{}{45353, "Saturday", "Breakfast", "Poha"},
	)

	var res dtos.UploadMenuResponse
	status := doUpload(t, fiberApp, uploadRequest(t, "file", file), &res)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, dtos.UploadMenuResponse{Message: uploadSuccessMessage, Count: 3}, res)
	assert.Len(t, store.menus, 3)
}

func TestUploadSameKeyOverwritesItems(t *testing.T) {
	store := newMemoryStore()
	fiberApp := newTestApp(store)

	first := buildWorkbook(t, header, []interface{}{"01-03-2024", "Friday", "Lunch", "Rice", "Dal", "Salad"})
	second := buildWorkbook(t, header, []interface{}{"01-03-2024", "Friday", "Lunch", "Rice", "Dal"})

	var res dtos.UploadMenuResponse
	require.Equal(t, http.StatusOK, doUpload(t, fiberApp, uploadRequest(t, "file", first), &res))
	require.Equal(t, http.StatusOK, doUpload(t, fiberApp, uploadRequest(t, "file", second), &res))

	require.Len(t, store.menus, 1)
	date := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	stored := store.menus[menuKey(date, "Friday", models.MealTypeLunch)]
	assert.Equal(t, []string{"Rice", "Dal"}, stored.MenuItems)
}

func TestUploadDuplicateResolutionMessage(t *testing.T) {
	store := newMemoryStore()
	store.duplicate = true
	fiberApp := newTestApp(store)

	var res dtos.UploadMenuResponse
	status := doUpload(t, fiberApp, uploadRequest(t, "file",
		buildWorkbook(t, header, []interface{}{"01-03-2024", "Friday", "Lunch", "Rice"})), &res)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, uploadDuplicateSuccessMessage, res.Message)
	assert.Equal(t, 1, res.Count)
}

func TestUploadClientErrors(t *testing.T) {
	tests := []struct {
		name    string
		req     func(t *testing.T) *http.Request
		message string
	}{
		{
			name: "no file field",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "attachment", buildWorkbook(t, header))
			},
			message: noFileMessage,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewBufferString(`{"file":"menu.xlsx"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			message: noFileMessage,
		},
		{
			name: "no valid rows",
			req: func(t *testing.T) *http.Request {
				return uploadRequest(t, "file", buildWorkbook(t,
					header,
					[]interface{}{"99-99-2024", "Friday", "Lunch", "Rice"},
					[]interface{}{"01-03-2024", "", "Lunch", "Rice"},
				))
			},
			message: noValidRowsMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemoryStore()
			fiberApp := newTestApp(store)

			var res dtos.ErrorResponse
			status := doUpload(t, fiberApp, tt.req(t), &res)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, dtos.ErrorResponse{Error: tt.message}, res)
			assert.Empty(t, store.menus)
		})
	}
}

func TestUploadServerErrors(t *testing.T) {
	t.Run("not a workbook", func(t *testing.T) {
		fiberApp := newTestApp(newMemoryStore())

		var res dtos.ErrorResponse
		status := doUpload(t, fiberApp, uploadRequest(t, "file", []byte("date,day,mealType")), &res)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, server.ProcessingErrorMessage, res.Error)
		assert.NotEmpty(t, res.Details)
	})

	t.Run("storage failure", func(t *testing.T) {
		store := newMemoryStore()
		store.err = errors.New("server selection error")
		fiberApp := newTestApp(store)

		var res dtos.ErrorResponse
		status := doUpload(t, fiberApp, uploadRequest(t, "file",
			buildWorkbook(t, header, []interface{}{"01-03-2024", "Friday", "Lunch", "Rice"})), &res)

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, server.ProcessingErrorMessage, res.Error)
		assert.Contains(t, res.Details, "server selection error")
	})
}

func TestListMenus(t *testing.T) {
	store := newMemoryStore()
	fiberApp := newTestApp(store)

	file := buildWorkbook(t,
		header,
		[]interface{}{"01-03-2024", "Friday", "Dinner", "Roti"},
		[]interface{}{"01-03-2024", "Friday", "Breakfast", "Idli"},
		[]interface{}{"02-03-2024", "Saturday", "Lunch", "Rajma"},
	)
	var uploaded dtos.UploadMenuResponse
	require.Equal(t, http.StatusOK, doUpload(t, fiberApp, uploadRequest(t, "file", file), &uploaded))

	var res dtos.ListMenusResponse
	status := doUpload(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/menus?date=01-03-2024", nil), &res)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2024-03-01", res.Date)
	require.Len(t, res.Menus, 2)
	assert.Equal(t, models.MealTypeBreakfast, res.Menus[0].MealType)
	assert.Equal(t, []string{"Idli"}, res.Menus[0].MenuItems)
	assert.Equal(t, models.MealTypeDinner, res.Menus[1].MealType)
}

func TestListMenusInvalidDate(t *testing.T) {
	fiberApp := newTestApp(newMemoryStore())

	for _, target := range []string{"/api/menus", "/api/menus?date=someday"} {
		var res dtos.ErrorResponse
		status := doUpload(t, fiberApp, httptest.NewRequest(http.MethodGet, target, nil), &res)

		assert.Equal(t, http.StatusBadRequest, status, target)
		assert.Equal(t, invalidDateMessage, res.Error, target)
	}
}

func TestUploadPage(t *testing.T) {
	fiberApp := newTestApp(newMemoryStore())

	res, err := fiberApp.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), `accept=".xlsx"`)
	assert.Contains(t, string(body), "/api/upload")
}
