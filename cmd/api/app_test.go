package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/internal/middleware"
	"entrepotes-listings/pkg/config"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestApp builds the full router against a store that fails to connect
// immediately, so no network is needed.
func newTestApp(t *testing.T, env string) *App {
	t.Helper()
	if env != "" {
		t.Setenv("ENV", env)
	}
	cfg, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	cfg.Database.URI = ""

	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	t.Cleanup(app.cleanup)
	return app
}

func serve(app *App, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	app.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestRoutes_StoreUnavailable(t *testing.T) {
	app := newTestApp(t, "")

	w := serve(app, "/api/search?term=Main")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("search status = %d, want 500", w.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error.Code != apperrors.ErrCodeStoreUnavailable {
		t.Errorf("search body = %s", w.Body.String())
	}

	w = serve(app, "/")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("page status = %d, want 500", w.Code)
	}
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") {
		t.Errorf("page content type = %q", w.Header().Get("Content-Type"))
	}

	if w := serve(app, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Errorf("health status = %d, want 503", w.Code)
	}
}

func TestRoutes_AssetsAndOps(t *testing.T) {
	app := newTestApp(t, "")

	tests := []struct {
		target string
		code   int
	}{
		{"/static/styles.css", http.StatusOK},
		{"/static/favicon.svg", http.StatusOK},
		{"/favicon.ico", http.StatusMovedPermanently},
		{"/metrics", http.StatusOK},
		{"/debug/pprof/", http.StatusOK},
	}
	for _, tt := range tests {
		if w := serve(app, tt.target); w.Code != tt.code {
			t.Errorf("%s: status = %d, want %d", tt.target, w.Code, tt.code)
		}
	}
}

func TestRoutes_CommonHeaders(t *testing.T) {
	app := newTestApp(t, "")

	w := serve(app, "/static/styles.css")
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
}

func TestRoutes_ProductionHidesPprof(t *testing.T) {
	app := newTestApp(t, "production")

	if w := serve(app, "/debug/pprof/"); w.Code != http.StatusNotFound {
		t.Errorf("pprof status = %d, want 404", w.Code)
	}
}
