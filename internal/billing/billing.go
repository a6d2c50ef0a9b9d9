// Package billing prices bookings. Everything here is a pure function of its
// inputs.
package billing

import "time"

// HoursCeil returns the whole hours between start and end, rounding any
// remainder up. Non-positive durations are zero hours.
func HoursCeil(start, end time.Time) int64 {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	hours := int64(d / time.Hour)
	if d%time.Hour != 0 {
		hours++
	}
	return hours
}

func BookingAmount(hours int64, hourlyRate float64) float64 {
	return float64(hours) * hourlyRate
}

type Penalty struct {
	Applied       bool
	ExceededHours int64
	Amount        float64
}

// ComputePenalty charges defaultPenalty plus the hourly rate for every started
// hour past scheduledEnd. Nothing is charged unless now is strictly after
// scheduledEnd.
func ComputePenalty(now, scheduledEnd time.Time, hourlyRate, defaultPenalty float64) Penalty {
	if !now.After(scheduledEnd) {
		return Penalty{}
	}
	exceeded := HoursCeil(scheduledEnd, now)
	return Penalty{
		Applied:       true,
		ExceededHours: exceeded,
		Amount:        defaultPenalty + BookingAmount(exceeded, hourlyRate),
	}
}

// TotalAmount is the booking amount plus the penalty when one applies.
func TotalAmount(bookingAmount float64, p Penalty) float64 {
	if !p.Applied {
		return bookingAmount
	}
	return bookingAmount + p.Amount
}
