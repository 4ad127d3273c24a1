package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hotel-booking-backend/models"
)

// RoomService is the management-tooling surface for rooms, branches and room
// types. The booking writer is the only other mutator of Room.status.
type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(room *models.Room) error {
	if room.BranchID == 0 {
		return newValidationError("branch_id is required")
	}
	var branch models.Branch
	if err := s.DB.First(&branch, room.BranchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newValidationError("branch %d not found", room.BranchID)
		}
		return fmt.Errorf("db error checking branch: %w", err)
	}
	if room.RoomTypeID != 0 {
		var rt models.RoomType
		if err := s.DB.First(&rt, room.RoomTypeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newValidationError("room type %d not found", room.RoomTypeID)
			}
			return fmt.Errorf("db error checking room type: %w", err)
		}
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}

	if err := s.DB.Create(room).Error; err != nil {
		if isDuplicateKey(err) {
			return newValidationError("room number %q already exists in branch %d", room.RoomNumber, room.BranchID)
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (s *RoomService) GetAll(branchID uint) ([]models.Room, error) {
	q := s.DB.Preload("RoomType").Order("floor, room_number")
	if branchID != 0 {
		q = q.Where("branch_id = ?", branchID)
	}
	var rooms []models.Room
	if err := q.Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := s.DB.Preload("RoomType").Preload("Branch").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to retrieve room: %w", err)
	}
	return &room, nil
}

// Update applies a partial update. Identity and lifecycle columns are never
// overwritten from the outside.
func (s *RoomService) Update(id uint, fields map[string]interface{}) error {
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")

	res := s.DB.Model(&models.Room{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return newValidationError("room number already exists in this branch")
		}
		return fmt.Errorf("failed to update room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *RoomService) Delete(id uint) error {
	res := s.DB.Delete(&models.Room{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete room: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (s *RoomService) ListRoomTypes() ([]models.RoomType, error) {
	var types []models.RoomType
	if err := s.DB.Order("id").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	return types, nil
}

func (s *RoomService) ListBranches() ([]models.Branch, error) {
	var branches []models.Branch
	if err := s.DB.Order("id").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}
