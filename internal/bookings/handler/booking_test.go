package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	httputil "parking/pkg/http"
	"parking/pkg/logger"
	"parking/pkg/middleware"
	"parking/pkg/model"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc   func(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	getByIDFunc  func(ctx context.Context, id string) (*model.Booking, error)
	completeFunc func(ctx context.Context, id string) (*model.Booking, error)
	byUserFunc   func(ctx context.Context, userID string) ([]*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	return m.createFunc(ctx, req)
}

func (m *mockBookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockBookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	return []*model.Booking{}, 0, nil
}

func (m *mockBookingService) GetByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return m.byUserFunc(ctx, userID)
}

func (m *mockBookingService) GetActiveByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	return m.byUserFunc(ctx, userID)
}

func (m *mockBookingService) GetWithPenalty(ctx context.Context) ([]*model.Booking, error) {
	return []*model.Booking{}, nil
}

func (m *mockBookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	return m.completeFunc(ctx, id)
}

func (m *mockBookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	return m.completeFunc(ctx, id)
}

func (m *mockBookingService) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBookingService) Stats(ctx context.Context) (model.BookingStats, error) {
	return model.BookingStats{}, nil
}

type request struct {
	method string
	path   string
	body   string
	user   string
	role   string
}

func newRouter(svc *mockBookingService, limiter *middleware.UserRateLimiter) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, limiter, httputil.NewPaginator(config.Defaults()), logger.Nop()).RegisterRoutes(router)
	return router
}

func do(router http.Handler, req request) *httptest.ResponseRecorder {
	var r *http.Request
	if req.body != "" {
		r = httptest.NewRequest(req.method, req.path, strings.NewReader(req.body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(req.method, req.path, nil)
	}
	if req.user != "" {
		r.Header.Set(middleware.HeaderUserID, req.user)
		r.Header.Set(middleware.HeaderUserRole, req.role)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

const createBody = `{"user_id":"mallory","slot_id":"000000000000000000000001","start_time":"2025-01-10 09:00:00","end_time":"2025-01-10 10:00:00"}`

func TestCreate_BookerIdentity(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		body     string
		wantUser string
	}{
		{"user cannot book for someone else", "user", createBody, "alice"},
		{"admin books on behalf", "admin", createBody, "mallory"},
		{"admin without user_id books as self", "admin", `{"slot_id":"000000000000000000000001","start_time":"2025-01-10 09:00:00","end_time":"2025-01-10 10:00:00"}`, "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			svc := &mockBookingService{
				createFunc: func(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
					got = req.UserID
					return &model.Booking{ID: "b1", UserID: req.UserID, Status: model.BookingActive}, nil
				},
			}

			rec := do(newRouter(svc, nil), request{http.MethodPost, "/api/v1/bookings", tt.body, "alice", tt.role})
			if rec.Code != http.StatusCreated {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if got != tt.wantUser {
				t.Errorf("booked as %q, want %q", got, tt.wantUser)
			}
		})
	}
}

func TestCreate_RequiresIdentity(t *testing.T) {
	svc := &mockBookingService{}
	rec := do(newRouter(svc, nil), request{http.MethodPost, "/api/v1/bookings", createBody, "", ""})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreate_ConflictAndValidation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"slot occupied", apperrors.Conflict("Parking slot is already occupied"), http.StatusConflict},
		{"bad interval", apperrors.Validation("Booking validation failed", nil), http.StatusUnprocessableEntity},
		{"missing slot", apperrors.NotFoundWithID("Parking slot", "x"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			rec := do(newRouter(svc, nil), request{http.MethodPost, "/api/v1/bookings", createBody, "alice", "user"})
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestCreate_RateLimited(t *testing.T) {
	limiter := middleware.NewUserRateLimiter(2, time.Minute, logger.Nop())
	defer limiter.Stop()

	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
			return &model.Booking{ID: "b1"}, nil
		},
	}
	router := newRouter(svc, limiter)

	for i := 0; i < 2; i++ {
		if rec := do(router, request{http.MethodPost, "/api/v1/bookings", createBody, "alice", "user"}); rec.Code != http.StatusCreated {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := do(router, request{http.MethodPost, "/api/v1/bookings", createBody, "alice", "user"}); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
	if rec := do(router, request{http.MethodPost, "/api/v1/bookings", createBody, "bob", "user"}); rec.Code != http.StatusCreated {
		t.Errorf("other user status = %d, want 201", rec.Code)
	}
}

func TestComplete_Ownership(t *testing.T) {
	completed := 0
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: "alice", Status: model.BookingActive}, nil
		},
		completeFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			completed++
			return &model.Booking{ID: id, UserID: "alice", Status: model.BookingCompleted}, nil
		},
	}
	router := newRouter(svc, nil)

	tests := []struct {
		user string
		role string
		want int
	}{
		{"alice", "user", http.StatusOK},
		{"bob", "user", http.StatusForbidden},
		{"root", "admin", http.StatusOK},
	}
	for _, tt := range tests {
		rec := do(router, request{http.MethodPut, "/api/v1/bookings/id/b1/complete", "", tt.user, tt.role})
		if rec.Code != tt.want {
			t.Errorf("%s/%s status = %d, want %d", tt.user, tt.role, rec.Code, tt.want)
		}
	}
	if completed != 2 {
		t.Errorf("Complete called %d times, want 2", completed)
	}
}

func TestComplete_NotActiveIsConflict(t *testing.T) {
	svc := &mockBookingService{
		getByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: "alice", Status: model.BookingCompleted}, nil
		},
		completeFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return nil, apperrors.Conflict("Booking is not active")
		},
	}

	rec := do(newRouter(svc, nil), request{http.MethodPut, "/api/v1/bookings/id/b1/cancel", "", "alice", "user"})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestGetByUser_Scope(t *testing.T) {
	svc := &mockBookingService{
		byUserFunc: func(ctx context.Context, userID string) ([]*model.Booking, error) {
			return []*model.Booking{{ID: "b1", UserID: userID}}, nil
		},
	}
	router := newRouter(svc, nil)

	rec := do(router, request{http.MethodGet, "/api/v1/bookings/user/alice/active", "", "alice", "user"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data []model.Booking `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Data) != 1 || body.Data[0].UserID != "alice" {
		t.Errorf("data = %+v", body.Data)
	}

	if rec := do(router, request{http.MethodGet, "/api/v1/bookings/user/alice", "", "bob", "user"}); rec.Code != http.StatusForbidden {
		t.Errorf("foreign user status = %d, want 403", rec.Code)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	router := newRouter(&mockBookingService{}, nil)

	paths := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/bookings"},
		{http.MethodGet, "/api/v1/bookings/penalties"},
		{http.MethodDelete, "/api/v1/bookings/id/b1"},
	}
	for _, p := range paths {
		if rec := do(router, request{p.method, p.path, "", "alice", "user"}); rec.Code != http.StatusForbidden {
			t.Errorf("%s %s as user = %d, want 403", p.method, p.path, rec.Code)
		}
		if rec := do(router, request{p.method, p.path, "", "root", "admin"}); rec.Code >= 400 {
			t.Errorf("%s %s as admin = %d", p.method, p.path, rec.Code)
		}
	}
}
