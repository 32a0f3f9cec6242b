package alerts

import (
	"errors"
	"log"
	"time"

	"fintrack/config"
	"fintrack/models"

	"gorm.io/gorm"
)

// errAlertExists signals that an active alert already occupies the
// candidate's dedup slot.
var errAlertExists = errors.New("active alert with same dedup key exists")

// Engine runs the condition evaluators for a user and persists the
// candidates that survive deduplication.
type Engine struct {
	db         *gorm.DB
	evaluators []Evaluator
	now        func() time.Time
}

// NewEngine creates an engine with the default evaluator set tuned by cfg.
func NewEngine(db *gorm.DB, cfg config.AlertsConfig) *Engine {
	return &Engine{
		db: db,
		evaluators: []Evaluator{
			&BudgetEvaluator{WarnPercent: cfg.BudgetWarnPercent},
			&RecurringEvaluator{DueDays: cfg.RecurringDueDays},
			&UnusualExpenseEvaluator{Multiplier: cfg.AnomalyMultiplier},
			&LowBalanceEvaluator{},
		},
		now: time.Now,
	}
}

// WithClock replaces the engine's clock. Tests use it to pin "now".
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// EvaluateConditions runs every evaluator for the user and concatenates
// their candidates without persisting anything. A failing evaluator is
// logged and contributes zero candidates.
func (e *Engine) EvaluateConditions(userID uint) []Candidate {
	now := e.now()
	var all []Candidate
	for _, ev := range e.evaluators {
		candidates, err := ev.Evaluate(e.db, userID, now)
		if err != nil {
			log.Printf("alerts: evaluator %s failed for user %d: %v", ev.Name(), userID, err)
			continue
		}
		all = append(all, candidates...)
	}
	return all
}

// RunAutomaticEvaluation evaluates all conditions and inserts an alert row
// for each candidate whose dedup slot is free. The Count keeps the common
// case to a single cheap check; under REPEATABLE READ it is a snapshot read,
// so a concurrent evaluation can pass it too. The unique
// (user_id, dedup_key, expires_at) index is the real guarantee: the loser
// gets a duplicate-key error, which counts as a dedup hit. Returns the
// number of newly created alerts.
func (e *Engine) RunAutomaticEvaluation(userID uint) (int, error) {
	candidates := e.EvaluateConditions(userID)
	now := e.now()

	created := 0
	for _, cand := range candidates {
		// Already expired by its own policy: nothing to persist.
		if !cand.ExpiresAt.After(now) {
			continue
		}
		err := e.db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Alert{}).
				Where("user_id = ? AND dedup_key = ? AND expires_at > ?", userID, cand.DedupKey, now).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errAlertExists
			}
			return tx.Create(&models.Alert{
				UserID:    userID,
				Type:      cand.Type,
				Priority:  cand.Priority,
				DedupKey:  cand.DedupKey,
				Title:     cand.Title,
				Body:      cand.Body,
				ExpiresAt: cand.ExpiresAt,
			}).Error
		})
		switch {
		case err == nil:
			created++
		case errors.Is(err, errAlertExists), errors.Is(err, gorm.ErrDuplicatedKey):
			// Dedup hit, expected.
		default:
			// One failed insert must not block the remaining candidates.
			log.Printf("alerts: insert failed for user %d key %s: %v", userID, cand.DedupKey, err)
		}
	}
	return created, nil
}

// CleanupExpired deletes alerts past their expiration and returns how many
// rows were removed.
func (e *Engine) CleanupExpired() (int64, error) {
	res := e.db.Where("expires_at < ?", e.now()).Delete(&models.Alert{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
