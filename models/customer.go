package models

import (
	"gorm.io/gorm"
)

// Customer is the guest a booking is made for.
type Customer struct {
	gorm.Model

	FullName string `json:"fullName"`
	Email    string `json:"email" gorm:"index;type:varchar(255)"`
	Phone    string `json:"phone" gorm:"type:varchar(32)"`
}
