package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	// TransactionExpense is money going out.
	TransactionExpense = "expense"
	// TransactionIncome is money coming in.
	TransactionIncome = "income"
)

// Payment method tags.
const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
	PaymentOther    = "other"
)

// Transaction is a dated monetary movement. Rows materialized from a
// recurring expense carry the template's ID in RecurringExpenseID.
type Transaction struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	UserID             uint           `json:"user_id" gorm:"index;not null"`
	Amount             float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category           string         `json:"category" gorm:"size:50;not null;index"`
	Type               string         `json:"type" gorm:"size:10;not null;default:expense;index"` // expense | income
	PaymentMethod      string         `json:"payment_method" gorm:"size:20;default:other"`
	Description        string         `json:"description" gorm:"size:255"`
	Date               time.Time      `json:"date" gorm:"not null;index"`
	RecurringExpenseID *uint          `json:"recurring_expense_id,omitempty" gorm:"index"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
	User               User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Transaction) TableName() string {
	return "transactions"
}

// ValidTransactionType reports whether t is a known direction tag.
func ValidTransactionType(t string) bool {
	return t == TransactionExpense || t == TransactionIncome
}
