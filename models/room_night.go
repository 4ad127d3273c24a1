package models

import (
	"time"
)

// RoomNight holds one night of a room for one active booking. The unique index
// on (room_id, night) is the storage-level guard against double booking: two
// transactions inserting overlapping intervals for the same room collide on at
// least one night, and the loser fails atomically at commit time.
//
// Rows exist only while the booking is active; cancellation and check-out
// release them.
type RoomNight struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	RoomID    uint      `gorm:"column:room_id;uniqueIndex:idx_room_night" json:"room_id"`
	Night     time.Time `gorm:"column:night;uniqueIndex:idx_room_night" json:"night"`
	BookingID uint      `gorm:"column:booking_id;index" json:"booking_id"`
}

// ExpandNights produces one RoomNight per night of [checkIn, checkOut).
// Inputs are expected to be midnight-normalized.
func ExpandNights(roomID, bookingID uint, checkIn, checkOut time.Time) []RoomNight {
	nights := make([]RoomNight, 0, NightsBetween(checkIn, checkOut))
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		nights = append(nights, RoomNight{
			RoomID:    roomID,
			Night:     d,
			BookingID: bookingID,
		})
	}
	return nights
}
