package models

import "time"

// Plan is a subscription tier. It gates feature access and is only read by
// this service, never mutated outside seeding.
type Plan struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	MaxAlerts int       `json:"max_alerts" gorm:"default:0"` // 0 means unlimited
	AIEnabled bool      `json:"ai_enabled" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plans"
}
