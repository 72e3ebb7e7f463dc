package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/init-pkg/mess-menu/domain/dtos"
	"github.com/init-pkg/mess-menu/internal/config"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp() *fiber.App {
	cfg := &config.Config{}
	cfg.Http.BodyLimitMB = 1
	return NewApp(cfg, slog.New(slog.DiscardHandler))
}

func decodeError(t *testing.T, body io.Reader) dtos.ErrorResponse {
	t.Helper()
	var res dtos.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&res))
	return res
}

func TestErrorHandlerFiberError(t *testing.T) {
	app := newTestApp()
	app.Get("/bad", func(c fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "No file uploaded")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/bad", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, dtos.ErrorResponse{Error: "No file uploaded"}, decodeError(t, res.Body))
}

func TestErrorHandlerUnexpectedError(t *testing.T) {
	app := newTestApp()
	app.Get("/boom", func(c fiber.Ctx) error {
		return errors.New("zip: not a valid zip file")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, dtos.ErrorResponse{
		Error:   ProcessingErrorMessage,
		Details: "zip: not a valid zip file",
	}, decodeError(t, res.Body))
}

func TestRecoverMiddleware(t *testing.T) {
	app := newTestApp()
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("nil map")
	})

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/panic", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
}

func TestHealth(t *testing.T) {
	up := newTestApp()
	RegisterSystemRoutes(up, PingerFunc(func(ctx context.Context) error { return nil }))

	res, err := up.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	down := newTestApp()
	RegisterSystemRoutes(down, PingerFunc(func(ctx context.Context) error { return errors.New("no reachable servers") }))

	res, err = down.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "no reachable servers"))
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp()
	RegisterSystemRoutes(app, PingerFunc(func(ctx context.Context) error { return nil }))

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, string(body), "go_goroutines")
}
