package errors

import "errors"

var (
	ErrNotFound = errors.New("parking slot not found")

	ErrInvalidID = errors.New("invalid parking slot ID format")

	ErrSlotOccupied = errors.New("parking slot is already occupied")

	ErrDuplicateSlotNumber = errors.New("parking slot number already exists")
)
