package model

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// IsTerminal reports whether no further transition is allowed.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Booking amounts satisfy TotalAmount == BookingAmount + PenaltyAmount when
// Penalty is set, and TotalAmount == BookingAmount otherwise. BookingAmount is
// fixed at creation.
type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	UserID        string        `json:"user_id" bson:"user_id"`
	SlotID        string        `json:"slot_id" bson:"slot_id"`
	StartTime     string        `json:"start_time" bson:"start_time"`
	EndTime       string        `json:"end_time" bson:"end_time"`
	Status        BookingStatus `json:"status" bson:"status"`
	Penalty       bool          `json:"penalty" bson:"penalty"`
	PenaltyAmount float64       `json:"penalty_amount" bson:"penalty_amount"`
	BookingAmount float64       `json:"booking_amount" bson:"booking_amount"`
	TotalAmount   float64       `json:"total_amount" bson:"total_amount"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

type BookingCreate struct {
	UserID    string `json:"user_id,omitempty" validate:"omitempty,max=128"`
	SlotID    string `json:"slot_id" validate:"required,mongodb"`
	StartTime string `json:"start_time" validate:"required,booking_timestamp"`
	EndTime   string `json:"end_time" validate:"required,booking_timestamp"`
}

// BookingClose is the terminal state written when a booking is completed or
// cancelled.
type BookingClose struct {
	Status        BookingStatus
	Penalty       bool
	PenaltyAmount float64
	TotalAmount   float64
	UpdatedAt     time.Time
}

type BookingStats struct {
	Total       int64 `json:"total_bookings"`
	Active      int64 `json:"active_bookings"`
	Completed   int64 `json:"completed_bookings"`
	Cancelled   int64 `json:"cancelled_bookings"`
	WithPenalty int64 `json:"bookings_with_penalty"`
}
