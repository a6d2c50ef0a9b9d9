package app

import (
	"net/http"
	"net/http/httptest"
	"parking/pkg/config"
	"parking/pkg/logger"
	"parking/pkg/metrics"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

type routes func(*httprouter.Router)

func (f routes) RegisterRoutes(r *httprouter.Router) { f(r) }

func testApplication(t *testing.T, withMetrics bool) http.Handler {
	t.Helper()
	cfg := config.Defaults()
	cfg.Log = logger.Nop()

	health := routes(func(r *httprouter.Router) {
		r.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusOK)
		})
	})
	api := routes(func(r *httprouter.Router) {
		r.POST("/api/v1/echo", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
			w.WriteHeader(http.StatusCreated)
		})
		r.GET("/api/v1/boom", func(http.ResponseWriter, *http.Request, httprouter.Params) {
			panic("boom")
		})
	})

	a := NewApplication(cfg)
	if withMetrics {
		a.WithMetrics(metrics.NewWithRegistry("test", prometheus.NewRegistry()))
	}
	a.SetApp(health, api)
	return a.Handler()
}

func TestApplication_Routing(t *testing.T) {
	h := testApplication(t, false)

	tests := []struct {
		name        string
		method      string
		path        string
		contentType string
		body        string
		want        int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"api json", http.MethodPost, "/api/v1/echo", "application/json", `{}`, http.StatusCreated},
		{"api wrong content type", http.MethodPost, "/api/v1/echo", "text/plain", `{}`, http.StatusUnsupportedMediaType},
		{"panic recovered", http.MethodGet, "/api/v1/boom", "", "", http.StatusInternalServerError},
		{"unknown route", http.MethodGet, "/nope", "", "", http.StatusNotFound},
		{"metrics disabled", http.MethodGet, "/metrics", "", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestApplication_RequestIDEchoed(t *testing.T) {
	h := testApplication(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/echo", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want req-42", got)
	}
}
