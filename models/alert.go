package models

import (
	"time"
)

// Alert types produced by the condition evaluators.
const (
	AlertBudgetOverrun     = "budget-overrun"
	AlertBudgetApproaching = "budget-approaching"
	AlertRecurringDue      = "recurring-due"
	AlertUnusualExpense    = "unusual-expense"
	AlertLowBalance        = "low-balance"
)

// Alert priorities.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Alert is a generated notification. Rows are created only by the alert
// engine and removed by the expired-alert sweep; DedupKey identifies the
// semantic slot so at most one non-expired alert per slot exists per user.
// Evaluators derive ExpiresAt deterministically from the record that raised
// the alert, so concurrent evaluations of the same slot collide on the
// unique (user_id, dedup_key, expires_at) index instead of double-inserting.
type Alert struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_alert_dedup,priority:1"`
	Type      string    `json:"type" gorm:"size:30;not null;index"`
	Priority  string    `json:"priority" gorm:"size:10;not null;default:medium"`
	DedupKey  string    `json:"dedup_key" gorm:"size:120;not null;uniqueIndex:idx_alert_dedup,priority:2"`
	Title     string    `json:"title" gorm:"size:150;not null"`
	Body      string    `json:"body" gorm:"size:500"`
	Read      bool      `json:"read" gorm:"default:false;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index;uniqueIndex:idx_alert_dedup,priority:3"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
}

// TableName sets the table name.
func (Alert) TableName() string {
	return "alerts"
}

// Active reports whether the alert has not yet expired at now.
func (a *Alert) Active(now time.Time) bool {
	return a.ExpiresAt.After(now)
}
