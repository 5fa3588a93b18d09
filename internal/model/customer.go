package model

import (
	"time"

	"gorm.io/gorm"
)

// Customer represents a known customer. Sales without a customer reference are
// walk-in sales.
type Customer struct {
	ID        uint           `json:"id" gorm:"primarykey"`
	Name      string         `json:"name" gorm:"type:varchar(255);not null"`
	Phone     string         `json:"phone" gorm:"type:varchar(50)"`
	Email     string         `json:"email" gorm:"type:varchar(255)"`
	Notes     string         `json:"notes" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
