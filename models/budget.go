package models

import (
	"time"

	"gorm.io/gorm"
)

// Budget is a monthly spending ceiling per category. The composite unique
// index enforces one budget per (user, category, month, year).
type Budget struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_budget_slot"`
	Category  string         `json:"category" gorm:"size:50;not null;uniqueIndex:idx_budget_slot"`
	Month     int            `json:"month" gorm:"not null;uniqueIndex:idx_budget_slot"`
	Year      int            `json:"year" gorm:"not null;uniqueIndex:idx_budget_slot"`
	Amount    float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
	User      User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Budget) TableName() string {
	return "budgets"
}
