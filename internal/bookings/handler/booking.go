package handler

import (
	"encoding/json"
	"net/http"

	"parking/internal/bookings/service"
	apperrors "parking/pkg/errors"
	httputil "parking/pkg/http"
	"parking/pkg/logger"
	"parking/pkg/middleware"
	"parking/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	limiter *middleware.UserRateLimiter
	pages   httputil.Paginator
	log     *logger.Logger
}

// NewBookingHandler wires the booking routes. A nil limiter leaves booking
// creation unthrottled.
func NewBookingHandler(service service.BookingService, limiter *middleware.UserRateLimiter, pages httputil.Paginator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		limiter: limiter,
		pages:   pages,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.BookingCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	// Users always book as themselves. Admins may book on behalf of someone.
	id, _ := middleware.IdentityFromContext(r.Context())
	if !id.IsAdmin() || req.UserID == "" {
		req.UserID = id.UserID
	}

	booking, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, err, "Create")
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, ok := h.ownedBooking(w, r, ps.ByName("id"), "GetByID")
	if !ok {
		return
	}

	h.writeSuccess(w, booking, "GetByID")
}

func (h *BookingHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := h.pages.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	bookings, total, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, err, "GetAll")
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")
	if !h.allowUser(w, r, userID, "GetByUser") {
		return
	}

	bookings, err := h.service.GetByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "GetByUser")
		return
	}

	h.writeSuccess(w, bookings, "GetByUser")
}

func (h *BookingHandler) GetActiveByUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userId")
	if !h.allowUser(w, r, userID, "GetActiveByUser") {
		return
	}

	bookings, err := h.service.GetActiveByUser(r.Context(), userID)
	if err != nil {
		h.writeError(w, err, "GetActiveByUser")
		return
	}

	h.writeSuccess(w, bookings, "GetActiveByUser")
}

func (h *BookingHandler) GetWithPenalty(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.GetWithPenalty(r.Context())
	if err != nil {
		h.writeError(w, err, "GetWithPenalty")
		return
	}

	h.writeSuccess(w, bookings, "GetWithPenalty")
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, ok := h.ownedBooking(w, r, id, "Complete"); !ok {
		return
	}

	booking, err := h.service.Complete(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Complete")
		return
	}

	h.writeSuccess(w, booking, "Complete")
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, ok := h.ownedBooking(w, r, id, "Cancel"); !ok {
		return
	}

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, err, "Cancel")
		return
	}

	h.writeSuccess(w, booking, "Cancel")
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, err, "Delete")
		return
	}

	httputil.WriteNoContent(w)
}

// ownedBooking loads the booking and rejects non-admin callers that do not
// own it.
func (h *BookingHandler) ownedBooking(w http.ResponseWriter, r *http.Request, id, handler string) (*model.Booking, bool) {
	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, err, handler)
		return nil, false
	}

	if !h.allowUser(w, r, booking.UserID, handler) {
		return nil, false
	}
	return booking, true
}

func (h *BookingHandler) allowUser(w http.ResponseWriter, r *http.Request, userID, handler string) bool {
	id, _ := middleware.IdentityFromContext(r.Context())
	if id.IsAdmin() || id.UserID == userID {
		return true
	}

	h.log.Warn("Booking access denied",
		"handler", handler,
		"user_id", id.UserID,
		"owner_id", userID,
	)
	h.writeError(w, apperrors.Forbidden("Bookings of other users are not accessible"), handler)
	return false
}

func (h *BookingHandler) writeError(w http.ResponseWriter, err error, handler string) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, data any, handler string) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	anyone := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRole(h.log, next, middleware.RoleUser, middleware.RoleAdmin)
	}
	admin := func(next httprouter.Handle) httprouter.Handle {
		return middleware.RequireRole(h.log, next, middleware.RoleAdmin)
	}

	create := httprouter.Handle(h.Create)
	if h.limiter != nil {
		create = middleware.RateLimit(h.limiter, create)
	}

	router.GET("/api/v1/bookings", admin(h.GetAll))
	router.POST("/api/v1/bookings", anyone(create))
	router.GET("/api/v1/bookings/id/:id", anyone(h.GetByID))
	router.PUT("/api/v1/bookings/id/:id/complete", anyone(h.Complete))
	router.PUT("/api/v1/bookings/id/:id/cancel", anyone(h.Cancel))
	router.DELETE("/api/v1/bookings/id/:id", admin(h.Delete))
	router.GET("/api/v1/bookings/user/:userId", anyone(h.GetByUser))
	router.GET("/api/v1/bookings/user/:userId/active", anyone(h.GetActiveByUser))
	router.GET("/api/v1/bookings/penalties", admin(h.GetWithPenalty))
}
