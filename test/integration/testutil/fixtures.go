package testutil

import (
	"fmt"
	"parking/pkg/model"
	"sync/atomic"
	"time"
)

var slotSeq atomic.Int64

// UniqueSlotNumber avoids collisions on the unique slot_number index between
// tests sharing a database.
func UniqueSlotNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, slotSeq.Add(1))
}

type SlotBuilder struct {
	slot model.SlotCreate
}

func NewSlotBuilder() *SlotBuilder {
	return &SlotBuilder{
		slot: model.SlotCreate{
			SlotNumber: UniqueSlotNumber("IT"),
			HourlyRate: 10,
		},
	}
}

func (b *SlotBuilder) WithNumber(number string) *SlotBuilder {
	b.slot.SlotNumber = number
	return b
}

func (b *SlotBuilder) WithRate(rate float64) *SlotBuilder {
	b.slot.HourlyRate = rate
	return b
}

func (b *SlotBuilder) Build() model.SlotCreate {
	return b.slot
}

type BookingBuilder struct {
	booking model.BookingCreate
}

// NewBookingBuilder books slotID for a one hour interval starting in a day.
func NewBookingBuilder(slotID string) *BookingBuilder {
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	return &BookingBuilder{
		booking: model.BookingCreate{
			SlotID:    slotID,
			StartTime: model.FormatTimestamp(start),
			EndTime:   model.FormatTimestamp(start.Add(time.Hour)),
		},
	}
}

func (b *BookingBuilder) WithUser(userID string) *BookingBuilder {
	b.booking.UserID = userID
	return b
}

func (b *BookingBuilder) WithInterval(start, end string) *BookingBuilder {
	b.booking.StartTime = start
	b.booking.EndTime = end
	return b
}

func (b *BookingBuilder) Build() model.BookingCreate {
	return b.booking
}
