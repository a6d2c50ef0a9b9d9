package service

import (
	"context"
	bookingsservice "parking/internal/bookings/service"
	slotsservice "parking/internal/slots/service"
	"parking/pkg/model"
)

// Dashboard is a read-only set of counts.
type Dashboard struct {
	model.SlotStats
	model.BookingStats
}

type DashboardService interface {
	Get(ctx context.Context) (Dashboard, error)
}

type dashboardService struct {
	slots    slotsservice.SlotService
	bookings bookingsservice.BookingService
}

func NewDashboardService(slots slotsservice.SlotService, bookings bookingsservice.BookingService) DashboardService {
	return &dashboardService{
		slots:    slots,
		bookings: bookings,
	}
}

func (s *dashboardService) Get(ctx context.Context) (Dashboard, error) {
	slotStats, err := s.slots.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	bookingStats, err := s.bookings.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	return Dashboard{SlotStats: slotStats, BookingStats: bookingStats}, nil
}
