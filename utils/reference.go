package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewBookingReference returns a human-readable reference code, e.g. "BK-9F3A2C41".
// Uniqueness is enforced by the bookings.reference_code unique index; callers
// retry on the (rare) collision.
func NewBookingReference() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}
