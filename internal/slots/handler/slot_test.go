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

	"github.com/julienschmidt/httprouter"
)

type mockSlotService struct {
	createFunc  func(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error)
	getByIDFunc func(ctx context.Context, id string) (*model.ParkingSlot, error)
	getAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error)
	deleteFunc  func(ctx context.Context, id string) error
}

func (m *mockSlotService) Create(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error) {
	return m.createFunc(ctx, req)
}

func (m *mockSlotService) GetByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockSlotService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error) {
	return m.getAllFunc(ctx, limit, offset)
}

func (m *mockSlotService) GetAvailable(ctx context.Context) ([]*model.ParkingSlot, error) {
	return []*model.ParkingSlot{}, nil
}

func (m *mockSlotService) Update(ctx context.Context, id string, req *model.SlotUpdate) (*model.ParkingSlot, error) {
	return nil, nil
}

func (m *mockSlotService) UpdateRate(ctx context.Context, id string, req *model.SlotRateUpdate) (*model.ParkingSlot, error) {
	return nil, nil
}

func (m *mockSlotService) Delete(ctx context.Context, id string) error {
	return m.deleteFunc(ctx, id)
}

func (m *mockSlotService) Stats(ctx context.Context) (model.SlotStats, error) {
	return model.SlotStats{}, nil
}

func (m *mockSlotService) Book(ctx context.Context, id string, booking model.SlotBooking) (*model.ParkingSlot, error) {
	return nil, nil
}

func (m *mockSlotService) Release(ctx context.Context, id string) (*model.ParkingSlot, error) {
	return nil, nil
}

func serve(svc *mockSlotService, method, path, body, role string) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewSlotHandler(svc, httputil.NewPaginator(config.Defaults()), logger.Nop()).RegisterRoutes(router)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set(middleware.HeaderUserID, "caller")
		req.Header.Set(middleware.HeaderUserRole, role)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_AdminOnly(t *testing.T) {
	svc := &mockSlotService{
		createFunc: func(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error) {
			return &model.ParkingSlot{ID: "s1", SlotNumber: req.SlotNumber, Status: model.SlotAvailable, HourlyRate: 10}, nil
		},
	}

	if rec := serve(svc, http.MethodPost, "/api/v1/parking-slots", `{"slot_number":"A-1"}`, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}
	if rec := serve(svc, http.MethodPost, "/api/v1/parking-slots", `{"slot_number":"A-1"}`, "user"); rec.Code != http.StatusForbidden {
		t.Errorf("user status = %d, want 403", rec.Code)
	}

	rec := serve(svc, http.MethodPost, "/api/v1/parking-slots", `{"slot_number":"A-1"}`, "admin")
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin status = %d, want 201", rec.Code)
	}

	var body struct {
		Data model.ParkingSlot `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.SlotNumber != "A-1" || body.Data.Status != model.SlotAvailable {
		t.Errorf("body = %+v", body.Data)
	}
}

func TestCreate_ConflictMapsTo409(t *testing.T) {
	svc := &mockSlotService{
		createFunc: func(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error) {
			return nil, apperrors.Conflict("Parking slot A-1 already exists")
		},
	}

	rec := serve(svc, http.MethodPost, "/api/v1/parking-slots", `{"slot_number":"A-1"}`, "admin")
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestGetByID_Public(t *testing.T) {
	svc := &mockSlotService{
		getByIDFunc: func(ctx context.Context, id string) (*model.ParkingSlot, error) {
			if id != "s1" {
				return nil, apperrors.NotFoundWithID("Parking slot", id)
			}
			return &model.ParkingSlot{ID: "s1"}, nil
		},
	}

	if rec := serve(svc, http.MethodGet, "/api/v1/parking-slots/id/s1", "", ""); rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if rec := serve(svc, http.MethodGet, "/api/v1/parking-slots/id/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGetAll_Pagination(t *testing.T) {
	var gotLimit int
	var gotOffset int64
	svc := &mockSlotService{
		getAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error) {
			gotLimit, gotOffset = limit, offset
			return []*model.ParkingSlot{{ID: "s1"}}, 42, nil
		},
	}

	rec := serve(svc, http.MethodGet, "/api/v1/parking-slots?limit=5&offset=10", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotLimit != 5 || gotOffset != 10 {
		t.Errorf("limit=%d offset=%d", gotLimit, gotOffset)
	}
	if !strings.Contains(rec.Body.String(), `"total_count":42`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	if rec := serve(svc, http.MethodGet, "/api/v1/parking-slots?limit=abc", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}

func TestDelete(t *testing.T) {
	svc := &mockSlotService{
		deleteFunc: func(ctx context.Context, id string) error { return nil },
	}

	if rec := serve(svc, http.MethodDelete, "/api/v1/parking-slots/id/s1", "", "admin"); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
}
