package service

import (
	"context"
	"errors"
	"fmt"
	settingsservice "parking/internal/settings/service"
	slotserrors "parking/internal/slots/errors"
	"parking/internal/slots/repository"
	"parking/internal/slots/validator"
	"parking/pkg/config"
	apperrors "parking/pkg/errors"
	"parking/pkg/metrics"
	"parking/pkg/model"
	"parking/pkg/sanitizer"
	"sync"
)

// SlotService owns every write to a parking slot. Occupancy changes only
// through Book and Release.
type SlotService interface {
	Create(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error)
	GetByID(ctx context.Context, id string) (*model.ParkingSlot, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error)
	GetAvailable(ctx context.Context) ([]*model.ParkingSlot, error)
	Update(ctx context.Context, id string, req *model.SlotUpdate) (*model.ParkingSlot, error)
	UpdateRate(ctx context.Context, id string, req *model.SlotRateUpdate) (*model.ParkingSlot, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (model.SlotStats, error)

	Book(ctx context.Context, id string, booking model.SlotBooking) (*model.ParkingSlot, error)
	Release(ctx context.Context, id string) (*model.ParkingSlot, error)
}

type slotService struct {
	repo      repository.SlotRepository
	validator *validator.SlotValidator
	settings  settingsservice.SettingsService
	metrics   *metrics.Metrics
	cfg       *config.Config
}

func NewSlotService(
	repo repository.SlotRepository,
	validator *validator.SlotValidator,
	settings settingsservice.SettingsService,
	metrics *metrics.Metrics,
	cfg *config.Config,
) SlotService {
	return &slotService{
		repo:      repo,
		validator: validator,
		settings:  settings,
		metrics:   metrics,
		cfg:       cfg,
	}
}

func (s *slotService) Create(ctx context.Context, req *model.SlotCreate) (*model.ParkingSlot, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Parking slot cannot be empty")
	}
	req.SlotNumber = sanitizer.NormalizeSlotNumber(req.SlotNumber)

	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Parking slot validation failed",
			"slot_number", req.SlotNumber,
			"error", err,
		)
		return nil, validationError("Parking slot validation failed", err)
	}

	rate := req.HourlyRate
	if rate == 0 {
		settings, err := s.settings.Get(ctx)
		if err != nil {
			return nil, err
		}
		rate = settings.DefaultHourlyRate
	}

	slot := &model.ParkingSlot{
		SlotNumber: req.SlotNumber,
		Status:     model.SlotAvailable,
		HourlyRate: rate,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		if errors.Is(err, slotserrors.ErrDuplicateSlotNumber) {
			return nil, apperrors.Conflict(fmt.Sprintf("Parking slot %s already exists", slot.SlotNumber))
		}
		s.cfg.Log.Error("Failed to create parking slot",
			"slot_number", slot.SlotNumber,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create parking slot", err)
	}

	s.cfg.Log.Info("Parking slot created",
		"id", slot.ID,
		"slot_number", slot.SlotNumber,
		"hourly_rate", slot.HourlyRate,
	)
	return slot, nil
}

func (s *slotService) GetByID(ctx context.Context, id string) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	slot, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapError("get parking slot", id, err)
	}
	return slot, nil
}

func (s *slotService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.ParkingSlot, int64, error) {
	limit = s.cfg.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var slots []*model.ParkingSlot
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(ctx)
		if err != nil {
			s.cfg.Log.Error("Failed to count parking slots", "error", err)
			errCount = apperrors.Internal("Failed to count parking slots", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		slots, err = s.repo.FindAll(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all parking slots",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve parking slots", err)
		}
	}()
	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return slots, count, nil
}

func (s *slotService) GetAvailable(ctx context.Context) ([]*model.ParkingSlot, error) {
	slots, err := s.repo.FindByStatus(ctx, model.SlotAvailable)
	if err != nil {
		s.cfg.Log.Error("Failed to get available parking slots", "error", err)
		return nil, apperrors.Internal("Failed to retrieve available parking slots", err)
	}
	return slots, nil
}

// Update changes the slot number and, when positive, the hourly rate.
func (s *slotService) Update(ctx context.Context, id string, req *model.SlotUpdate) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}
	if req == nil {
		return nil, apperrors.InvalidInput("Parking slot update cannot be empty")
	}
	req.SlotNumber = sanitizer.NormalizeSlotNumber(req.SlotNumber)

	if err := s.validator.ValidateUpdate(req); err != nil {
		s.cfg.Log.Warn("Parking slot update validation failed", "id", id, "error", err)
		return nil, validationError("Parking slot validation failed", err)
	}

	var rate *float64
	if req.HourlyRate > 0 {
		rate = &req.HourlyRate
	}

	slot, err := s.repo.UpdateFields(ctx, id, req.SlotNumber, rate)
	if err != nil {
		if errors.Is(err, slotserrors.ErrDuplicateSlotNumber) {
			return nil, apperrors.Conflict(fmt.Sprintf("Parking slot %s already exists", req.SlotNumber))
		}
		return nil, s.mapError("update parking slot", id, err)
	}

	s.cfg.Log.Info("Parking slot updated",
		"id", slot.ID,
		"slot_number", slot.SlotNumber,
		"hourly_rate", slot.HourlyRate,
	)
	return slot, nil
}

func (s *slotService) UpdateRate(ctx context.Context, id string, req *model.SlotRateUpdate) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}
	if req == nil {
		return nil, apperrors.InvalidInput("Hourly rate cannot be empty")
	}

	if err := s.validator.ValidateRate(req); err != nil {
		s.cfg.Log.Warn("Hourly rate validation failed", "id", id, "error", err)
		return nil, validationError("Hourly rate validation failed", err)
	}

	slot, err := s.repo.UpdateFields(ctx, id, "", req.HourlyRate)
	if err != nil {
		return nil, s.mapError("update hourly rate", id, err)
	}

	s.cfg.Log.Info("Parking slot rate updated",
		"id", slot.ID,
		"hourly_rate", slot.HourlyRate,
	)
	return slot, nil
}

// Delete removes the slot without looking at bookings that reference it.
func (s *slotService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapError("delete parking slot", id, err)
	}

	s.cfg.Log.Info("Parking slot deleted", "id", id)
	return nil
}

func (s *slotService) Stats(ctx context.Context) (model.SlotStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return model.SlotStats{}, apperrors.Internal("Failed to count parking slots", err)
	}
	available, err := s.repo.CountByStatus(ctx, model.SlotAvailable)
	if err != nil {
		return model.SlotStats{}, apperrors.Internal("Failed to count parking slots", err)
	}
	occupied, err := s.repo.CountByStatus(ctx, model.SlotOccupied)
	if err != nil {
		return model.SlotStats{}, apperrors.Internal("Failed to count parking slots", err)
	}
	return model.SlotStats{Total: total, Available: available, Occupied: occupied}, nil
}

func (s *slotService) Book(ctx context.Context, id string, booking model.SlotBooking) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	slot, err := s.repo.Book(ctx, id, booking)
	if err != nil {
		if errors.Is(err, slotserrors.ErrSlotOccupied) {
			s.metrics.BookingConflict()
			s.cfg.Log.Warn("Parking slot already occupied",
				"id", id,
				"user_id", booking.UserID,
			)
			return nil, apperrors.Conflict("Parking slot is already occupied").WithDetails(map[string]any{
				"slot_id": id,
			})
		}
		return nil, s.mapError("book parking slot", id, err)
	}

	s.cfg.Log.Info("Parking slot booked",
		"id", slot.ID,
		"user_id", booking.UserID,
		"start_time", booking.StartTime,
		"end_time", booking.EndTime,
	)
	return slot, nil
}

func (s *slotService) Release(ctx context.Context, id string) (*model.ParkingSlot, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Parking slot ID cannot be empty")
	}

	slot, err := s.repo.Release(ctx, id)
	if err != nil {
		return nil, s.mapError("release parking slot", id, err)
	}

	s.cfg.Log.Info("Parking slot released", "id", slot.ID)
	return slot, nil
}

func (s *slotService) mapError(op, id string, err error) error {
	switch {
	case errors.Is(err, slotserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Parking slot", id)
	case errors.Is(err, slotserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid parking slot ID format")
	}
	s.cfg.Log.Error("Failed to "+op, "id", id, "error", err)
	return apperrors.Internal("Failed to "+op, err)
}

func validationError(message string, err error) error {
	return apperrors.Validation(message, map[string]any{
		"errors": err,
	})
}
