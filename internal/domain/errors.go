package domain

import "errors"

var (
	// ErrInvalidRange indicates an interval whose end falls before its start.
	ErrInvalidRange = errors.New("end date is before start date")

	// ErrInvalidScale indicates a non-positive pixels-per-day ratio.
	ErrInvalidScale = errors.New("pixels per day must be positive")

	// ErrValidation indicates a missing or out-of-range field on a draft or patch.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
