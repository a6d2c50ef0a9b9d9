package service

import (
	"context"
	"errors"
	"parking/internal/billing"
	bookingserrors "parking/internal/bookings/errors"
	"parking/internal/bookings/events"
	"parking/internal/bookings/repository"
	"parking/internal/bookings/validator"
	settingsservice "parking/internal/settings/service"
	slotsservice "parking/internal/slots/service"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"parking/pkg/metrics"
	"parking/pkg/model"
	"parking/pkg/sanitizer"
	"strings"
	"sync"
	"time"
)

// BookingService drives a booking from ACTIVE to COMPLETED or CANCELLED.
// Slot occupancy changes go through SlotService and share a transaction with
// the booking write.
type BookingService interface {
	Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetActiveByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetWithPenalty(ctx context.Context) ([]*model.Booking, error)
	Complete(ctx context.Context, id string) (*model.Booking, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.BookingStats, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	slots     slotsservice.SlotService
	settings  settingsservice.SettingsService
	validator *validator.BookingValidator
	publisher events.Publisher
	metrics   *metrics.Metrics
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	slots slotsservice.SlotService,
	settings settingsservice.SettingsService,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	metrics *metrics.Metrics,
	cfg *config.Config,
) BookingService {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &bookingService{
		repo:      repo,
		slots:     slots,
		settings:  settings,
		validator: validator,
		publisher: publisher,
		metrics:   metrics,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingCreate) (*model.Booking, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking cannot be empty")
	}
	s.sanitize(req)

	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"user_id", req.UserID,
			"slot_id", req.SlotID,
			"error", err,
		)
		return nil, validationError("Booking validation failed", err)
	}

	start, err := model.ParseTimestamp(req.StartTime, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseTimestamp(req.EndTime, s.cfg.Location)
	if err != nil {
		return nil, err
	}
	if !end.After(start) {
		s.cfg.Log.Warn("Booking rejected: empty interval",
			"user_id", req.UserID,
			"start_time", req.StartTime,
			"end_time", req.EndTime,
		)
		return nil, validationError("Booking validation failed", validator.ValidationErrors{{
			Field:   "end_time",
			Message: bookingserrors.ErrInvalidTimeRange.Error(),
		}})
	}

	slot, err := s.slots.GetByID(ctx, req.SlotID)
	if err != nil {
		return nil, err
	}

	amount := billing.BookingAmount(billing.HoursCeil(start, end), slot.HourlyRate)

	var booking *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.slots.Book(txCtx, req.SlotID, model.SlotBooking{
			UserID:    req.UserID,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
		}); err != nil {
			return err
		}

		// Built per attempt: the driver may rerun this function.
		booking = &model.Booking{
			UserID:        req.UserID,
			SlotID:        req.SlotID,
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Status:        model.BookingActive,
			BookingAmount: amount,
			TotalAmount:   amount,
		}
		if err := s.repo.Create(txCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.transactionError("create booking", req.SlotID, err)
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"slot_id", booking.SlotID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
		"booking_amount", booking.BookingAmount,
	)
	s.metrics.BookingTransition("created")
	s.publisher.Publish(ctx, events.BookingCreated, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError("retrieve booking", id, err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = s.cfg.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all bookings",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	userID = sanitizer.NormalizeUserID(userID)
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to get bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetActiveByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	userID = sanitizer.NormalizeUserID(userID)
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to get active bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetWithPenalty(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.repo.FindWithPenalty(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to get bookings with penalty", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// Complete bills the booking, charging a penalty when it is closed after its
// scheduled end, and frees the slot.
func (s *bookingService) Complete(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.activeBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, booking.SlotID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	end, err := model.ParseTimestamp(booking.EndTime, s.cfg.Location)
	if err != nil {
		s.cfg.Log.Error("Stored booking end time is unparseable", "id", id, "end_time", booking.EndTime)
		return nil, apperrors.Internal("Failed to complete booking", err)
	}

	now := s.now()
	penalty := billing.ComputePenalty(now, end, slot.HourlyRate, settings.DefaultPenaltyAmount)

	closed, err := s.close(ctx, booking, model.BookingClose{
		Status:        model.BookingCompleted,
		Penalty:       penalty.Applied,
		PenaltyAmount: penalty.Amount,
		TotalAmount:   billing.TotalAmount(booking.BookingAmount, penalty),
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking completed",
		"id", closed.ID,
		"slot_id", closed.SlotID,
		"penalty", closed.Penalty,
		"exceeded_hours", penalty.ExceededHours,
		"penalty_amount", closed.PenaltyAmount,
		"total_amount", closed.TotalAmount,
	)
	s.metrics.BookingTransition("completed")
	s.metrics.BookingCompleted(closed.TotalAmount, closed.PenaltyAmount)
	s.publisher.Publish(ctx, events.BookingCompleted, closed)
	return closed, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.activeBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	closed, err := s.close(ctx, booking, model.BookingClose{
		Status:        model.BookingCancelled,
		Penalty:       booking.Penalty,
		PenaltyAmount: booking.PenaltyAmount,
		TotalAmount:   booking.TotalAmount,
		UpdatedAt:     s.now(),
	})
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking cancelled",
		"id", closed.ID,
		"slot_id", closed.SlotID,
	)
	s.metrics.BookingTransition("cancelled")
	s.publisher.Publish(ctx, events.BookingCancelled, closed)
	return closed, nil
}

// Delete removes the booking. An ACTIVE booking gives its slot back first;
// a slot that no longer exists does not block the delete.
func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var deleted *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		booking, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return s.mapError("delete booking", id, err)
		}

		if booking.Status == model.BookingActive {
			if _, err := s.slots.Release(txCtx, booking.SlotID); err != nil {
				if !apperrors.HasCode(err, apperrors.CodeNotFound) {
					return err
				}
				s.cfg.Log.Warn("Deleting active booking whose slot is gone",
					"id", id,
					"slot_id", booking.SlotID,
				)
			}
		}

		if err := s.repo.Delete(txCtx, id); err != nil {
			return s.mapError("delete booking", id, err)
		}
		deleted = booking
		return nil
	})
	if err != nil {
		return s.transactionError("delete booking", id, err)
	}

	s.cfg.Log.Info("Booking deleted",
		"id", id,
		"slot_id", deleted.SlotID,
		"status", deleted.Status,
	)
	s.metrics.BookingTransition("deleted")
	s.publisher.Publish(ctx, events.BookingDeleted, deleted)
	return nil
}

func (s *bookingService) Stats(ctx context.Context) (model.BookingStats, error) {
	var stats model.BookingStats
	var err error

	if stats.Total, err = s.repo.Count(ctx); err != nil {
		return model.BookingStats{}, apperrors.Internal("Failed to count bookings", err)
	}
	if stats.Active, err = s.repo.CountByStatus(ctx, model.BookingActive); err != nil {
		return model.BookingStats{}, apperrors.Internal("Failed to count bookings", err)
	}
	if stats.Completed, err = s.repo.CountByStatus(ctx, model.BookingCompleted); err != nil {
		return model.BookingStats{}, apperrors.Internal("Failed to count bookings", err)
	}
	if stats.Cancelled, err = s.repo.CountByStatus(ctx, model.BookingCancelled); err != nil {
		return model.BookingStats{}, apperrors.Internal("Failed to count bookings", err)
	}
	if stats.WithPenalty, err = s.repo.CountWithPenalty(ctx); err != nil {
		return model.BookingStats{}, apperrors.Internal("Failed to count bookings", err)
	}
	return stats, nil
}

func (s *bookingService) activeBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingActive {
		return nil, notActive(booking)
	}
	return booking, nil
}

// close releases the slot and writes the terminal state in one transaction.
// The status filter on the write makes a concurrent transition lose with
// Conflict, and its release is rolled back with it.
func (s *bookingService) close(ctx context.Context, booking *model.Booking, update model.BookingClose) (*model.Booking, error) {
	var closed *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if _, err := s.slots.Release(txCtx, booking.SlotID); err != nil {
			return err
		}

		var err error
		closed, err = s.repo.Close(txCtx, booking.ID, update)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotActive) {
				return notActive(booking)
			}
			return s.mapError("close booking", booking.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.transactionError("close booking", booking.ID, err)
	}
	return closed, nil
}

func (s *bookingService) sanitize(req *model.BookingCreate) {
	req.UserID = sanitizer.NormalizeUserID(req.UserID)
	req.SlotID = strings.TrimSpace(req.SlotID)
	req.StartTime = model.NormalizeTimestamp(strings.TrimSpace(req.StartTime))
	req.EndTime = model.NormalizeTimestamp(strings.TrimSpace(req.EndTime))
}

func (s *bookingService) mapError(op, id string, err error) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to "+op, "id", id, "error", err)
	return apperrors.Internal("Failed to "+op, err)
}

// transactionError passes classified errors through and wraps everything else,
// such as a failed commit, as Internal.
func (s *bookingService) transactionError(op, id string, err error) error {
	if apperrors.IsAppError(err) {
		return err
	}
	s.cfg.Log.Error("Failed to "+op, "id", id, "error", err)
	return apperrors.Internal("Failed to "+op, err)
}

func notActive(booking *model.Booking) error {
	return apperrors.Conflict("Booking is not active").WithDetails(map[string]any{
		"id":     booking.ID,
		"status": booking.Status,
	})
}

func validationError(message string, err error) error {
	return apperrors.Validation(message, map[string]any{
		"errors": err,
	})
}
