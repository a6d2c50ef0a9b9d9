package handler

import (
	"encoding/json"
	"net/http"

	"parking/internal/slots/service"
	httputil "parking/pkg/http"
	"parking/pkg/logger"
	"parking/pkg/middleware"
	"parking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type SlotHandler struct {
	service service.SlotService
	pages   httputil.Paginator
	log     *logger.Logger
}

func NewSlotHandler(service service.SlotService, pages httputil.Paginator, log *logger.Logger) *SlotHandler {
	return &SlotHandler{
		service: service,
		pages:   pages,
		log:     log,
	}
}

func (h *SlotHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SlotCreate
	if !h.decode(w, r, &req, "Create") {
		return
	}

	slot, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, slot); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *SlotHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slot, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, err, "GetByID")
		return
	}

	h.writeSuccess(w, slot, "GetByID")
}

func (h *SlotHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := h.pages.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	slots, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	if err := httputil.WritePaginated(w, slots, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *SlotHandler) GetAvailable(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	slots, err := h.service.GetAvailable(r.Context())
	if err != nil {
		h.writeError(w, err, "GetAvailable")
		return
	}

	h.writeSuccess(w, slots, "GetAvailable")
}

func (h *SlotHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.SlotUpdate
	if !h.decode(w, r, &req, "Update") {
		return
	}

	slot, err := h.service.Update(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, err, "Update")
		return
	}

	h.writeSuccess(w, slot, "Update")
}

func (h *SlotHandler) UpdateRate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.SlotRateUpdate
	if !h.decode(w, r, &req, "UpdateRate") {
		return
	}

	slot, err := h.service.UpdateRate(r.Context(), ps.ByName("id"), &req)
	if err != nil {
		h.writeError(w, err, "UpdateRate")
		return
	}

	h.writeSuccess(w, slot, "UpdateRate")
}

func (h *SlotHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	httputil.WriteNoContent(w)
}

func (h *SlotHandler) decode(w http.ResponseWriter, r *http.Request, dst any, handler string) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
		}
		return false
	}
	return true
}

func (h *SlotHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SlotHandler) writeSuccess(w http.ResponseWriter, data any, handler string) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SlotHandler) RegisterRoutes(router *httprouter.Router) {
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRole(h.log, next, middleware.RoleAdmin)
	}

	router.GET("/api/v1/parking-slots", h.GetAll)
	router.GET("/api/v1/parking-slots/available", h.GetAvailable)
	router.GET("/api/v1/parking-slots/id/:id", h.GetByID)
	router.POST("/api/v1/parking-slots", admin(h.Create))
	router.PUT("/api/v1/parking-slots/id/:id", admin(h.Update))
	router.PUT("/api/v1/parking-slots/id/:id/rate", admin(h.UpdateRate))
	router.DELETE("/api/v1/parking-slots/id/:id", admin(h.Delete))
}
