package model

import "time"

type SlotStatus string

const (
	SlotAvailable SlotStatus = "AVAILABLE"
	SlotOccupied  SlotStatus = "OCCUPIED"
)

// ParkingSlot is OCCUPIED exactly while one ACTIVE booking holds it. BookedBy,
// StartTime and EndTime mirror that booking and are empty otherwise.
type ParkingSlot struct {
	ID         string     `json:"id,omitempty" bson:"_id,omitempty"`
	SlotNumber string     `json:"slot_number" bson:"slot_number"`
	Status     SlotStatus `json:"status" bson:"status"`
	BookedBy   string     `json:"booked_by,omitempty" bson:"booked_by,omitempty"`
	StartTime  string     `json:"start_time,omitempty" bson:"start_time,omitempty"`
	EndTime    string     `json:"end_time,omitempty" bson:"end_time,omitempty"`
	HourlyRate float64    `json:"hourly_rate" bson:"hourly_rate"`
	CreatedAt  time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" bson:"updated_at"`
}

func (s *ParkingSlot) IsAvailable() bool {
	return s.Status == SlotAvailable
}

// SlotCreate is the admin request for a new slot. A missing or zero hourly
// rate is replaced with the current default from settings.
type SlotCreate struct {
	SlotNumber string  `json:"slot_number" validate:"required,min=1,max=32,slot_number"`
	HourlyRate float64 `json:"hourly_rate" validate:"gte=0"`
}

// SlotUpdate carries the editable slot fields. Occupancy is owned by
// book/release and cannot be changed here.
type SlotUpdate struct {
	SlotNumber string  `json:"slot_number,omitempty" validate:"omitempty,min=1,max=32,slot_number"`
	HourlyRate float64 `json:"hourly_rate,omitempty" validate:"gte=0"`
}

type SlotRateUpdate struct {
	HourlyRate *float64 `json:"hourly_rate" validate:"required,gte=0"`
}

// SlotBooking is the occupancy written onto a slot when it is booked.
type SlotBooking struct {
	UserID    string
	StartTime string
	EndTime   string
}

type SlotStats struct {
	Total     int64 `json:"total_slots"`
	Available int64 `json:"available_slots"`
	Occupied  int64 `json:"occupied_slots"`
}
