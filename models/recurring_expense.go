package models

import (
	"time"

	"gorm.io/gorm"
)

// Periodicity values for recurring expenses.
const (
	PeriodMonthly    = "monthly"
	PeriodBimonthly  = "bimonthly"
	PeriodQuarterly  = "quarterly"
	PeriodSemiannual = "semiannual"
	PeriodAnnual     = "annual"
)

// Recurring expense states.
const (
	RecurringPending = "pending"
	RecurringActive  = "active"
	RecurringPaid    = "paid"
)

// RecurringExpense is a template that is materialized into a Transaction on
// its due date; paying it advances NextDue by the periodicity.
type RecurringExpense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null"`
	Category    string         `json:"category" gorm:"size:50;not null"`
	Periodicity string         `json:"periodicity" gorm:"size:20;not null;default:monthly"`
	NextDue     time.Time      `json:"next_due" gorm:"not null;index"`
	Status      string         `json:"status" gorm:"size:20;not null;default:active;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (RecurringExpense) TableName() string {
	return "recurring_expenses"
}

// PeriodicityMonths maps a periodicity tag to its length in months.
func PeriodicityMonths(p string) int {
	switch p {
	case PeriodMonthly:
		return 1
	case PeriodBimonthly:
		return 2
	case PeriodQuarterly:
		return 3
	case PeriodSemiannual:
		return 6
	case PeriodAnnual:
		return 12
	default:
		return 0
	}
}

// ValidPeriodicity reports whether p is a known periodicity tag.
func ValidPeriodicity(p string) bool {
	return PeriodicityMonths(p) > 0
}

// AdvanceNextDue moves NextDue forward by one period. An unknown
// periodicity falls back to monthly so a template never stalls.
func (r *RecurringExpense) AdvanceNextDue() {
	months := PeriodicityMonths(r.Periodicity)
	if months == 0 {
		months = 1
	}
	r.NextDue = r.NextDue.AddDate(0, months, 0)
}
