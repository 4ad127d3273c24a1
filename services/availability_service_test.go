package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-booking-backend/models"
)

func TestIsAvailableIntervalValidation(t *testing.T) {
	db := newTestDB(t)
	f := seedInventory(t, db)
	svc := NewAvailabilityService(db)

	_, _, err := svc.IsAvailable(f.Room.ID, day(t, "2025-03-05"), day(t, "2025-03-05"))
	require.Error(t, err)
	assert.NotNil(t, IsValidationError(err), "zero-length interval must be a validation error")

	_, _, err = svc.IsAvailable(f.Room.ID, day(t, "2025-03-07"), day(t, "2025-03-05"))
	require.Error(t, err)
	assert.NotNil(t, IsValidationError(err))

	_, _, err = svc.IsAvailable(9999, day(t, "2025-03-05"), day(t, "2025-03-07"))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestIsAvailableOverlapCases(t *testing.T) {
	db := newTestDB(t)
	f := seedInventory(t, db)
	svc := NewAvailabilityService(db)

	insertBooking(t, db, f, models.BookingConfirmed, "2025-03-01", "2025-03-05")

	cases := []struct {
		name     string
		checkIn  string
		checkOut string
		free     bool
	}{
		{"back-to-back after", "2025-03-05", "2025-03-07", true},
		{"back-to-back before", "2025-02-27", "2025-03-01", true},
		{"fully inside", "2025-03-02", "2025-03-03", false},
		{"fully containing", "2025-02-28", "2025-03-06", false},
		{"overlap left edge", "2025-02-28", "2025-03-02", false},
		{"overlap right edge", "2025-03-04", "2025-03-06", false},
		{"identical interval", "2025-03-01", "2025-03-05", false},
		{"disjoint", "2025-03-10", "2025-03-12", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			free, conflicts, err := svc.IsAvailable(f.Room.ID, day(t, tc.checkIn), day(t, tc.checkOut))
			require.NoError(t, err)
			assert.Equal(t, tc.free, free)
			if tc.free {
				assert.Empty(t, conflicts)
			} else {
				assert.NotEmpty(t, conflicts)
			}
		})
	}
}

func TestIsAvailableIgnoresInactiveBookings(t *testing.T) {
	db := newTestDB(t)
	f := seedInventory(t, db)
	svc := NewAvailabilityService(db)

	insertBooking(t, db, f, models.BookingCancelled, "2025-03-01", "2025-03-05")
	insertBooking(t, db, f, models.BookingCheckedOut, "2025-03-01", "2025-03-05")

	free, conflicts, err := svc.IsAvailable(f.Room.ID, day(t, "2025-03-02"), day(t, "2025-03-04"))
	require.NoError(t, err)
	assert.True(t, free)
	assert.Empty(t, conflicts)
}

func TestIsAvailablePendingBlocks(t *testing.T) {
	db := newTestDB(t)
	f := seedInventory(t, db)
	svc := NewAvailabilityService(db)

	insertBooking(t, db, f, models.BookingPending, "2025-03-01", "2025-03-05")

	free, conflicts, err := svc.IsAvailable(f.Room.ID, day(t, "2025-03-02"), day(t, "2025-03-04"))
	require.NoError(t, err)
	assert.False(t, free, "pending bookings hold the room")
	assert.Len(t, conflicts, 1)
}

func TestListAvailableRooms(t *testing.T) {
	db := newTestDB(t)
	f := seedInventory(t, db)
	svc := NewAvailabilityService(db)

	room201 := models.Room{
		BranchID: f.Branch.ID, RoomTypeID: f.RoomType.ID,
		RoomNumber: "201", Floor: "2", Price: 1500, MaxOccupancy: 4,
		Status: models.RoomAvailable,
	}
	require.NoError(t, db.Create(&room201).Error)
	room102 := models.Room{
		BranchID: f.Branch.ID, RoomTypeID: f.RoomType.ID,
		RoomNumber: "102", Floor: "1", Price: 1200, MaxOccupancy: 2,
		Status: models.RoomMaintenance,
	}
	require.NoError(t, db.Create(&room102).Error)

	// Room 101 is booked over the requested range.
	insertBooking(t, db, f, models.BookingConfirmed, "2025-03-01", "2025-03-05")

	rooms, err := svc.ListAvailableRooms(RoomFilter{BranchID: f.Branch.ID}, day(t, "2025-03-02"), day(t, "2025-03-04"))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber, "booked and maintenance rooms are excluded")

	// Outside the booked range every non-maintenance room qualifies, ordered
	// by floor then room number.
	rooms, err = svc.ListAvailableRooms(RoomFilter{BranchID: f.Branch.ID}, day(t, "2025-03-10"), day(t, "2025-03-12"))
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, "201", rooms[1].RoomNumber)

	// Occupancy filter.
	rooms, err = svc.ListAvailableRooms(RoomFilter{BranchID: f.Branch.ID, MinOccupancy: 3}, day(t, "2025-03-10"), day(t, "2025-03-12"))
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, "201", rooms[0].RoomNumber)
}
