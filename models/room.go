package models

import (
	"gorm.io/gorm"
)

// RoomStatus is the cached operational state of a room. Whether a room is free
// for a date range is derived from active bookings, not from this field alone;
// maintenance and cleaning are the only states that block a room on their own.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomReserved    RoomStatus = "reserved"
	RoomCleaning    RoomStatus = "cleaning"
	RoomMaintenance RoomStatus = "maintenance"
)

type Room struct {
	gorm.Model

	BranchID   uint `json:"branchId" gorm:"index;uniqueIndex:idx_branch_room_number"`
	RoomTypeID uint `json:"roomTypeId" gorm:"column:room_type_id;index"`

	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex:idx_branch_room_number;type:varchar(50)"`

	Status       RoomStatus `json:"status" gorm:"type:varchar(32);default:available"`
	Floor        string     `json:"floor" gorm:"type:varchar(10)"`
	Price        float64    `json:"price"`
	MaxOccupancy int        `json:"maxOccupancy" gorm:"column:max_occupancy"`
	Description  string     `json:"description" gorm:"type:text"`

	Branch   Branch   `gorm:"foreignKey:BranchID" json:"branch,omitempty"`
	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}
