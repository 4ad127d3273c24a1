package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"hotel-booking-backend/models"
)

var (
	ErrRoomNotFound    = errors.New("room_not_found")
	ErrBookingNotFound = errors.New("booking_not_found")

	// ErrRoomUnavailable means the requested interval overlaps an active
	// booking, detected either by the availability query or by losing the
	// commit-time race.
	ErrRoomUnavailable = errors.New("room_unavailable")

	// ErrStorageConflict is internal: the atomic commit lost a race to a
	// concurrent writer. The booking writer retries once and converts it to
	// ErrRoomUnavailable; it is never returned to callers.
	ErrStorageConflict = errors.New("storage_conflict")
)

// ValidationError reports malformed or missing input. Never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Msg
}

func newValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidationError unwraps err into a *ValidationError, or returns nil.
func IsValidationError(err error) *ValidationError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}

// InvalidTransitionError reports a state-machine operation attempted from a
// state that does not permit it. Carries the current state so the caller can
// reconcile.
type InvalidTransitionError struct {
	BookingID uint
	Op        string
	Current   models.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s booking %d: status is %q", e.Op, e.BookingID, e.Current)
}

// IsInvalidTransition unwraps err into an *InvalidTransitionError, or returns nil.
func IsInvalidTransition(err error) *InvalidTransitionError {
	var te *InvalidTransitionError
	if errors.As(err, &te) {
		return te
	}
	return nil
}

// isDuplicateKey recognizes unique-constraint violations across drivers.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique")
}
