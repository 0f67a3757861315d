package domain

import "errors"

var (
	// ErrInvalidCycleHours is returned when current cycle hours fall outside [0, 70].
	ErrInvalidCycleHours = errors.New("invalid cycle hours")
	// ErrInvalidHours is returned for negative or non-finite hour inputs.
	ErrInvalidHours = errors.New("invalid hours")
	// ErrInvalidRequest covers missing or malformed trip request fields.
	ErrInvalidRequest = errors.New("invalid trip request")

	ErrLocationNotFound   = errors.New("location not found")
	ErrServiceUnavailable = errors.New("routing service unavailable")

	// ErrScheduleOverrun is returned when a trip would need more days than the rule set allows.
	ErrScheduleOverrun = errors.New("schedule overrun")
	// ErrInvariantViolation signals a scheduler bug: entries that do not tile
	// the day or hours above regulatory caps.
	ErrInvariantViolation = errors.New("invariant violation")

	ErrTripNotFound = errors.New("trip not found")
)
