package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// UserStatusLocked means the user cannot log in.
	UserStatusLocked = "locked"
	// UserStatusActive means the user can log in.
	UserStatusActive = "active"
)

// User is the account model. All financial records hang off its ID.
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Email     string         `json:"email" gorm:"size:100"`
	IsAdmin   bool           `json:"is_admin" gorm:"default:false;index"`
	PlanID    *uint          `json:"plan_id" gorm:"index"` // subscription tier, NULL means free
	Status    string         `json:"status" gorm:"size:20;default:active;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}
