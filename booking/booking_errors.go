package booking

import (
	"errors"
	"fmt"
	"time"
)

var ErrBookingNotFound = errors.New("booking not found")

var ErrInvalidBookingState = errors.New("invalid booking state")

var ErrNotAllowed = errors.New("not allowed to perform this operation")

var ErrInvalidBooking = errors.New("invalid booking")

var ErrBookingConflict = errors.New("booking conflicts with an existing booking")

var ErrNotificationFailed = errors.New("failed to deliver notification")

// ValidationError carries a message meant for the client.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidBooking }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StateError rejects an action that is not allowed from the current status.
type StateError struct {
	Action string
	Status Status
}

func (e *StateError) Error() string {
	return fmt.Sprintf("Cannot %s booking with status '%s'", e.Action, e.Status)
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidBookingState }

// ConflictError names the window of the first competing booking. Start and End
// are zero when the storage constraint caught the overlap.
type ConflictError struct {
	Start time.Time
	End   time.Time
}

func (e *ConflictError) Error() string {
	if e.Start.IsZero() {
		return "Time conflict detected. This field is already booked for the requested time."
	}
	return fmt.Sprintf("Time conflict detected. This field is already booked from %s to %s.",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrBookingConflict || target == ErrInvalidBooking
}
