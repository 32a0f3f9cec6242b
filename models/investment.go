package models

import (
	"time"

	"gorm.io/gorm"
)

// Investment kinds.
const (
	InvestmentStock  = "stock"
	InvestmentFund   = "fund"
	InvestmentCrypto = "crypto"
	InvestmentOther  = "other"
)

// Investment is a held position with its purchase cost and current value.
type Investment struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	Name         string         `json:"name" gorm:"size:100;not null"`
	Kind         string         `json:"kind" gorm:"size:20;not null;default:other"`
	Invested     float64        `json:"invested" gorm:"type:decimal(12,2);not null"`
	CurrentValue float64        `json:"current_value" gorm:"type:decimal(12,2);not null"`
	PurchaseDate time.Time      `json:"purchase_date"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
	User         User           `json:"-" gorm:"foreignKey:UserID"`
}

func (Investment) TableName() string {
	return "investments"
}

// Profit returns the absolute gain or loss of the position.
func (i *Investment) Profit() float64 {
	return i.CurrentValue - i.Invested
}
