package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apperrors "entrepotes-listings/internal/errors"
	"entrepotes-listings/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func perform(r http.Handler, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestErrorHandler_MapsAppErrors(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware(), ErrorHandler())
	r.GET("/conn", func(c *gin.Context) {
		_ = c.Error(apperrors.NewConnectionError("failed to connect to MongoDB", errors.New("refused")))
	})
	r.GET("/plain", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
	})

	tests := []struct {
		path string
		code string
	}{
		{"/conn", apperrors.ErrCodeStoreUnavailable},
		{"/plain", apperrors.ErrCodeInternal},
	}
	for _, tt := range tests {
		w := perform(r, tt.path, nil)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s: status = %d, want 500", tt.path, w.Code)
		}
		var body errorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tt.path, err)
		}
		if body.Error.Code != tt.code || body.Error.Message == "" {
			t.Errorf("%s: body = %+v, want code %s", tt.path, body, tt.code)
		}
	}
}

func TestErrorHandler_KeepsWrittenResponse(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/", func(c *gin.Context) {
		_ = c.Error(errors.New("render failed"))
		c.String(http.StatusInternalServerError, "page error")
	})

	w := perform(r, "/", nil)
	if w.Body.String() != "page error" {
		t.Errorf("body = %q, want the handler's response", w.Body.String())
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestID(c)) })

	w := perform(r, "/", nil)
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || w.Body.String() != generated {
		t.Errorf("expected a generated id echoed in body and header, got %q / %q", w.Body.String(), generated)
	}

	w = perform(r, "/", http.Header{RequestIDHeader: {"abc-123"}})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("inbound id not reused, got %q", got)
	}
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(MetricsMiddleware())
	r.GET("/api/search", func(c *gin.Context) { c.Status(http.StatusOK) })

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/search", "200")
	before := testutil.ToFloat64(counter)
	perform(r, "/api/search?term=Main", nil)
	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("counter delta = %v, want 1", got)
	}

	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "unmatched", "404")
	before = testutil.ToFloat64(unmatched)
	perform(r, "/does/not/exist", nil)
	if got := testutil.ToFloat64(unmatched) - before; got != 1 {
		t.Errorf("unmatched counter delta = %v, want 1", got)
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(60, 2)
	r := gin.New()
	r.Use(RateLimitMiddleware(rl))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := perform(r, "/", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}
	w := perform(r, "/", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	var body errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error.Code != apperrors.ErrCodeRateLimited {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRateLimiter_SweepDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(60, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.allow("10.0.0.1")
	now = now.Add(30 * time.Minute)
	rl.allow("10.0.0.2")
	now = now.Add(45 * time.Minute)
	rl.sweep()

	if _, ok := rl.limiters["10.0.0.1"]; ok {
		t.Error("idle client should be dropped")
	}
	if _, ok := rl.limiters["10.0.0.2"]; !ok {
		t.Error("recent client should be kept")
	}
}

func TestSecureHeaders(t *testing.T) {
	for _, production := range []bool{false, true} {
		r := gin.New()
		r.Use(SecureHeaders(production))
		r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := perform(r, "/", nil)
		if w.Header().Get("X-Content-Type-Options") != "nosniff" {
			t.Error("missing nosniff")
		}
		if hsts := w.Header().Get("Strict-Transport-Security") != ""; hsts != production {
			t.Errorf("production=%v: HSTS present=%v", production, hsts)
		}
	}
}
