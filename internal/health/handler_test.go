package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"parking/pkg/logger"
	"strings"
	"testing"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type pingerFunc func(ctx context.Context, rp *readpref.ReadPref) error

func (f pingerFunc) Ping(ctx context.Context, rp *readpref.ReadPref) error {
	return f(ctx, rp)
}

func TestHealthAndReady(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{"health ignores database", "/health", errors.New("down"), http.StatusOK, `"status":"ok"`},
		{"ready with database", "/ready", nil, http.StatusOK, `"status":"ready"`},
		{"ready without database", "/ready", errors.New("down"), http.StatusServiceUnavailable, `"database":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := pingerFunc(func(ctx context.Context, rp *readpref.ReadPref) error {
				if _, ok := ctx.Deadline(); !ok {
					t.Error("ping without deadline")
				}
				return tt.pingErr
			})

			router := httprouter.New()
			NewHealthHandler(pinger, logger.Nop()).RegisterRoutes(router)

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.wantBody)
			}
		})
	}
}
