package models

import (
	"gorm.io/gorm"
)

// Branch is a physical hotel location. Room numbers are unique per branch.
type Branch struct {
	gorm.Model

	Name    string `json:"name" gorm:"uniqueIndex;type:varchar(100)"`
	Address string `json:"address" gorm:"type:varchar(255)"`
	Phone   string `json:"phone" gorm:"type:varchar(32)"`
}
