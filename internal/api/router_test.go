package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snehareddy22/airaware/internal/config"
	"github.com/snehareddy22/airaware/pkg/logger"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	handler, _ := newTestHandler(t)

	cfg := &config.Config{}
	cfg.Server.Port = 8080
	cfg.Server.CORSAllowedOrigins = []string{"*"}
	cfg.Server.StaticFilesDir = t.TempDir()
	require.NoError(t, cfg.Validate())

	return NewRouter(handler, cfg, logger.NewNop()).Routes()
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/cities", http.StatusOK},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/dashboard_data?city=Delhi", http.StatusOK},
		{http.MethodPost, "/chat", http.StatusOK},
		{http.MethodPost, "/feedback", http.StatusBadRequest},
		{http.MethodPost, "/rate", http.StatusBadRequest},
		{http.MethodGet, "/no-such-file.html", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(t)

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/cities", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request carries the header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cities", nil)
		req.Header.Set("Origin", "https://dashboard.example.com")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
