package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrNotActive = errors.New("booking is not active")

	ErrInvalidTimeRange = errors.New("end time must be after start time")
)
