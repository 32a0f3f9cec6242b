package models

import (
	"time"

	"gorm.io/gorm"
)

// Category is a spending category maintained by the backend.
type Category struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Name      string         `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Sort      int            `json:"sort" gorm:"default:0;index"`
	Color     string         `json:"color" gorm:"size:20;default:#64748b"` // hex color, e.g. #ef4444
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Category) TableName() string {
	return "categories"
}

// Default category names seeded on first start.
const (
	CategoryFood          = "Food"
	CategoryTransport     = "Transport"
	CategoryShopping      = "Shopping"
	CategoryEntertainment = "Entertainment"
	CategoryHealth        = "Health"
	CategoryEducation     = "Education"
	CategoryHousing       = "Housing"
	CategoryOther         = "Other"
)

// DefaultCategories returns the seeded category names in display order.
func DefaultCategories() []string {
	return []string{
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryEntertainment,
		CategoryHealth,
		CategoryEducation,
		CategoryHousing,
		CategoryOther,
	}
}
