package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"hotel-booking-backend/models"
)

// AvailabilityService answers whether a room (or any room matching a filter)
// is free for a half-open interval [checkIn, checkOut).
type AvailabilityService struct {
	DB *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{DB: db}
}

// RoomFilter narrows the room set considered by ListAvailableRooms.
type RoomFilter struct {
	BranchID     uint
	RoomTypeID   uint
	MinOccupancy int
}

// normalizeDate truncates a timestamp to UTC midnight, the canonical zone for
// booking intervals and room-night keys.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func validateInterval(checkIn, checkOut time.Time) error {
	if checkIn.IsZero() || checkOut.IsZero() {
		return newValidationError("check_in and check_out are required")
	}
	if !checkOut.After(checkIn) {
		return newValidationError("check_out must be after check_in")
	}
	return nil
}

// findConflicts returns the active bookings for roomID overlapping
// [checkIn, checkOut). Shared with the booking writer, which re-runs it on the
// transaction handle at commit time.
func findConflicts(db *gorm.DB, roomID uint, checkIn, checkOut time.Time) ([]models.Booking, error) {
	var conflicts []models.Booking
	err := db.
		Where("room_id = ? AND status IN ?", roomID, models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn).
		Order("check_in").
		Find(&conflicts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query conflicting bookings: %w", err)
	}
	return conflicts, nil
}

// IsAvailable reports whether the room is free for the whole interval, plus
// the conflicting bookings for diagnostics.
func (s *AvailabilityService) IsAvailable(roomID uint, checkIn, checkOut time.Time) (bool, []models.Booking, error) {
	if err := validateInterval(checkIn, checkOut); err != nil {
		return false, nil, err
	}

	var room models.Room
	if err := s.DB.First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil, ErrRoomNotFound
		}
		return false, nil, fmt.Errorf("db error checking room %d: %w", roomID, err)
	}

	conflicts, err := findConflicts(s.DB, roomID, checkIn, checkOut)
	if err != nil {
		return false, nil, err
	}
	return len(conflicts) == 0, conflicts, nil
}

// ListAvailableRooms returns rooms matching the filter that are free for the
// whole interval, ordered by floor then room number. Availability is derived
// from active bookings; the cached room status only excludes rooms blocked
// operationally (maintenance, cleaning).
func (s *AvailabilityService) ListAvailableRooms(f RoomFilter, checkIn, checkOut time.Time) ([]models.Room, error) {
	if err := validateInterval(checkIn, checkOut); err != nil {
		return nil, err
	}

	busy := s.DB.Model(&models.Booking{}).
		Select("room_id").
		Where("status IN ?", models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", checkOut, checkIn)

	q := s.DB.Model(&models.Room{}).
		Where("status NOT IN ?", []models.RoomStatus{models.RoomMaintenance, models.RoomCleaning}).
		Where("id NOT IN (?)", busy)

	if f.BranchID != 0 {
		q = q.Where("branch_id = ?", f.BranchID)
	}
	if f.RoomTypeID != 0 {
		q = q.Where("room_type_id = ?", f.RoomTypeID)
	}
	if f.MinOccupancy > 0 {
		q = q.Where("max_occupancy >= ?", f.MinOccupancy)
	}

	var rooms []models.Room
	if err := q.Preload("RoomType").Order("floor, room_number").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	return rooms, nil
}
