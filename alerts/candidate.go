// Package alerts implements the alert evaluation core: condition evaluators
// that inspect a user's financial records, an engine that deduplicates and
// persists qualifying alerts, a cooldown gate for event-driven runs and a
// timer-driven scheduler for batch runs.
package alerts

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Candidate is a proposed alert produced by an evaluator. It is not
// persisted until the engine's dedup check passes.
type Candidate struct {
	Type      string
	Priority  string
	Title     string
	Body      string
	DedupKey  string
	Severity  float64 // breach magnitude, orders results within one evaluator
	ExpiresAt time.Time
}

// Evaluator is a single rule. Evaluate must be a read-only function of
// (userID, now): no writes, and missing data yields an empty list rather
// than an error.
type Evaluator interface {
	Name() string
	Evaluate(db *gorm.DB, userID uint, now time.Time) ([]Candidate, error)
}

// monthBounds returns the first instant of now's month and the last second
// of that month.
func monthBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

func dedupKey(parts ...interface{}) string {
	key := ""
	for i, p := range parts {
		if i > 0 {
			key += ":"
		}
		key += fmt.Sprint(p)
	}
	return key
}
