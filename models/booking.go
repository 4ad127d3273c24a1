package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the states that hold a room for their interval.
// Pending (unpaid) bookings block availability.
var ActiveBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCheckedIn,
}

// Active reports whether a booking in this status still occupies its room.
func (s BookingStatus) Active() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn:
		return true
	}
	return false
}

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:32" json:"reference_code"`

	BranchID   uint `gorm:"index;column:branch_id" json:"branch_id"`
	RoomID     uint `gorm:"index;column:room_id" json:"room_id"`
	CustomerID uint `gorm:"index;column:customer_id" json:"customer_id"`

	Status BookingStatus `gorm:"column:status;size:32" json:"status"`

	// Half-open interval [check_in, check_out), both normalized to midnight.
	CheckIn  time.Time `gorm:"column:check_in" json:"check_in"`
	CheckOut time.Time `gorm:"column:check_out" json:"check_out"`

	Nights            int     `gorm:"column:nights" json:"nights"`
	NumberOfGuests    int     `gorm:"column:number_of_guests;default:1" json:"number_of_guests"`
	TotalAmount       float64 `gorm:"column:total_amount" json:"total_amount"`
	AdditionalCharges float64 `gorm:"column:additional_charges" json:"additional_charges"`

	SpecialRequests datatypes.JSON `gorm:"column:special_requests" json:"specialRequests,omitempty"`

	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`
	CancelledAt  *time.Time `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`

	Room     Room     `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
	Customer Customer `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
}

// Overlaps reports whether the booking's interval shares any point with
// [from, to). Strict inequalities on both sides, so a booking ending exactly
// when another begins does not conflict.
func (b *Booking) Overlaps(from, to time.Time) bool {
	return b.CheckIn.Before(to) && b.CheckOut.After(from)
}

// ParseBookingDate accepts "2006-01-02" or RFC3339. Timestamps are converted
// to UTC before truncating to midnight so every booking keys its nights in one
// zone; otherwise offset-local midnights would produce overlapping intervals
// whose (room_id, night) rows never collide.
func ParseBookingDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// NightsBetween returns ceil((checkOut - checkIn) / 24h), minimum 1 for any
// positive interval.
func NightsBetween(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	n := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		n++
	}
	return n
}
