package models

import (
	"time"

	"gorm.io/gorm"
)

// AIInsight stores the result of one AI analysis run over a date range.
type AIInsight struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    uint           `json:"user_id" gorm:"index;not null"`
	StartDate string         `json:"start_date" gorm:"size:10"` // YYYY-MM-DD
	EndDate   string         `json:"end_date" gorm:"size:10"`
	Model     string         `json:"model" gorm:"size:50"`
	Result    string         `json:"result" gorm:"type:text"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (AIInsight) TableName() string {
	return "ai_insights"
}
