package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Ready(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       map[string]Pinger
		wantStatus int
		wantBody   string
	}{
		{"all ok", map[string]Pinger{"postgres": healthy, "redis": healthy}, http.StatusOK, "ready"},
		{"redis down", map[string]Pinger{"postgres": healthy, "redis": down}, http.StatusServiceUnavailable, "unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			h := NewHealthHandler("marketplace-service", "test", tt.deps)
			app.Get("/ready", h.Ready)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ready", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body struct {
				Status       string            `json:"status"`
				Dependencies map[string]string `json:"dependencies"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantBody, body.Status)
			assert.Equal(t, "ok", body.Dependencies["postgres"])
		})
	}
}

func TestHealthHandler_Live(t *testing.T) {
	app := fiber.New()
	app.Get("/live", NewHealthHandler("marketplace-service", "1.2.3", nil).Live)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/live", nil), -1)
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
}
