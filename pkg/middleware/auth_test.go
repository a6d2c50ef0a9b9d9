package middleware

import (
	"net/http"
	"net/http/httptest"
	"parking/pkg/logger"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		role       string
		allowed    []Role
		wantStatus int
	}{
		{"missing identity", "", "", []Role{RoleUser}, http.StatusUnauthorized},
		{"missing role", "u1", "", []Role{RoleUser}, http.StatusUnauthorized},
		{"user on admin route", "u1", "user", []Role{RoleAdmin}, http.StatusForbidden},
		{"unknown role", "u1", "guest", []Role{RoleUser, RoleAdmin}, http.StatusForbidden},
		{"user allowed", "u1", "user", []Role{RoleUser, RoleAdmin}, http.StatusOK},
		{"admin allowed, case-insensitive", "a1", "ADMIN", []Role{RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Identity
			next := func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
				got, _ = IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			}

			h := RequireRole(logger.Nop(), next, tt.allowed...)

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.userID != "" {
				req.Header.Set(HeaderUserID, tt.userID)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()

			h(rec, req, nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && got.UserID != tt.userID {
				t.Errorf("identity user = %q, want %q", got.UserID, tt.userID)
			}
		})
	}
}
