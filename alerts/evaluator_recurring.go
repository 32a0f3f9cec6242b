package alerts

import (
	"fmt"
	"sort"
	"time"

	"fintrack/models"

	"gorm.io/gorm"
)

// RecurringEvaluator flags recurring expenses whose next due date falls
// within the configured look-ahead window.
type RecurringEvaluator struct {
	DueDays int // look-ahead window in days
}

func (e *RecurringEvaluator) Name() string { return "recurring" }

func (e *RecurringEvaluator) Evaluate(db *gorm.DB, userID uint, now time.Time) ([]Candidate, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	deadline := dayStart.AddDate(0, 0, e.DueDays+1).Add(-time.Second)

	var templates []models.RecurringExpense
	if err := db.Where("user_id = ? AND status <> ? AND next_due >= ? AND next_due <= ?",
		userID, models.RecurringPaid, dayStart, deadline).
		Find(&templates).Error; err != nil {
		return nil, err
	}

	var out []Candidate
	for _, r := range templates {
		daysLeft := int(r.NextDue.Sub(dayStart).Hours() / 24)
		priority := models.PriorityMedium
		if daysLeft <= 3 {
			priority = models.PriorityHigh
		}
		out = append(out, Candidate{
			Type:     models.AlertRecurringDue,
			Priority: priority,
			Title:    fmt.Sprintf("Upcoming payment: %s", r.Name),
			Body: fmt.Sprintf("%s (%.2f, %s) is due on %s.",
				r.Name, r.Amount, r.Category, r.NextDue.Format("2006-01-02")),
			DedupKey: dedupKey(models.AlertRecurringDue, r.ID),
			// Sooner due dates rank higher.
			Severity:  float64(e.DueDays - daysLeft),
			ExpiresAt: r.NextDue.AddDate(0, 0, 1),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Severity > out[j].Severity })
	return out, nil
}
