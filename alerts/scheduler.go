package alerts

import (
	"errors"
	"log"
	"sync"
	"time"

	"fintrack/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier delivers out-of-band notifications for freshly created alerts.
// The email digest service implements it; a nil notifier disables delivery.
type Notifier interface {
	NotifyNewAlerts(user models.User, created int) error
}

// BatchError records a per-user failure during a batch run.
type BatchError struct {
	UserID uint   `json:"userId"`
	Error  string `json:"error"`
}

// BatchResult summarizes one batch evaluation across all eligible users.
type BatchResult struct {
	RunID         string       `json:"runId"`
	TotalUsers    int          `json:"totalUsuarios"`
	AlertsCreated int          `json:"totalAlertasCreadas"`
	AlertsDeleted int64        `json:"alertasEliminadas"`
	Errors        []BatchError `json:"errors,omitempty"`
	StartedAt     time.Time    `json:"startedAt"`
	Duration      string       `json:"duration"`
}

// Status is the scheduler state reported to the admin endpoint.
type Status struct {
	IsRunning       bool       `json:"isRunning"`
	IntervalMinutes int        `json:"intervalMinutes"`
	LastRun         *time.Time `json:"lastRun"`
}

// Scheduler periodically runs the alert engine for every user with recent
// activity and sweeps expired alerts afterwards. One instance exists per
// process; multiple server instances are intentionally uncoordinated and
// rely on the engine's dedup check.
type Scheduler struct {
	db             *gorm.DB
	engine         *Engine
	activityWindow time.Duration
	notifier       Notifier

	mu       sync.Mutex
	running  bool
	interval time.Duration
	stop     chan struct{}
	lastRun  *time.Time
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(db *gorm.DB, engine *Engine, activityWindowDays int) *Scheduler {
	return &Scheduler{
		db:             db,
		engine:         engine,
		activityWindow: time.Duration(activityWindowDays) * 24 * time.Hour,
	}
}

// SetNotifier attaches an optional notifier called after each batch for
// users that received new alerts.
func (s *Scheduler) SetNotifier(n Notifier) {
	s.notifier = n
}

// Start launches the periodic batch loop. Starting a running scheduler is
// an error.
func (s *Scheduler) Start(intervalMinutes int) error {
	if intervalMinutes <= 0 {
		return errors.New("interval must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already running")
	}
	s.interval = time.Duration(intervalMinutes) * time.Minute
	s.stop = make(chan struct{})
	s.running = true

	go s.loop(s.stop, s.interval)
	log.Printf("alerts: scheduler started, interval %d min", intervalMinutes)
	return nil
}

// Stop halts the periodic loop. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stop)
	s.running = false
	log.Println("alerts: scheduler stopped")
}

// loop runs batches until the stop channel closes. The batch executes
// synchronously inside the tick so runs never overlap.
func (s *Scheduler) loop(stop chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce executes one batch immediately. It is valid whether or not the
// periodic loop is running and does not change the run state.
func (s *Scheduler) RunOnce() BatchResult {
	started := time.Now()
	result := BatchResult{
		RunID:     uuid.NewString(),
		StartedAt: started,
	}

	userIDs, err := s.eligibleUsers(started)
	if err != nil {
		log.Printf("alerts: eligible user query failed: %v", err)
		result.Errors = append(result.Errors, BatchError{Error: err.Error()})
	}

	result.TotalUsers = len(userIDs)
	for _, userID := range userIDs {
		created, err := s.engine.RunAutomaticEvaluation(userID)
		if err != nil {
			// One user must not stop the batch.
			log.Printf("alerts: evaluation failed for user %d: %v", userID, err)
			result.Errors = append(result.Errors, BatchError{UserID: userID, Error: err.Error()})
			continue
		}
		result.AlertsCreated += created
		if created > 0 {
			s.notify(userID, created)
		}
	}

	deleted, err := s.engine.CleanupExpired()
	if err != nil {
		log.Printf("alerts: expired sweep failed: %v", err)
		result.Errors = append(result.Errors, BatchError{Error: err.Error()})
	}
	result.AlertsDeleted = deleted
	result.Duration = time.Since(started).String()

	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.mu.Unlock()

	log.Printf("alerts: batch %s done: %d users, %d created, %d deleted, %d errors",
		result.RunID, result.TotalUsers, result.AlertsCreated, result.AlertsDeleted, len(result.Errors))
	return result
}

// GetStatus reports the current scheduler state.
func (s *Scheduler) GetStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		IsRunning: s.running,
		LastRun:   s.lastRun,
	}
	if s.interval > 0 {
		st.IntervalMinutes = int(s.interval / time.Minute)
	}
	return st
}

// eligibleUsers returns the IDs of users with transactions or budgets
// touched within the activity window. Dormant accounts are skipped.
func (s *Scheduler) eligibleUsers(now time.Time) ([]uint, error) {
	cutoff := now.Add(-s.activityWindow)

	var txUsers []uint
	if err := s.db.Model(&models.Transaction{}).
		Where("date >= ?", cutoff).
		Distinct().
		Pluck("user_id", &txUsers).Error; err != nil {
		return nil, err
	}

	var budgetUsers []uint
	if err := s.db.Model(&models.Budget{}).
		Where("updated_at >= ?", cutoff).
		Distinct().
		Pluck("user_id", &budgetUsers).Error; err != nil {
		return nil, err
	}

	seen := make(map[uint]struct{}, len(txUsers)+len(budgetUsers))
	var out []uint
	for _, id := range append(txUsers, budgetUsers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}

// notify sends the digest for one user, swallowing delivery errors.
func (s *Scheduler) notify(userID uint, created int) {
	if s.notifier == nil {
		return
	}
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return
	}
	if err := s.notifier.NotifyNewAlerts(user, created); err != nil {
		log.Printf("alerts: digest for user %d failed: %v", userID, err)
	}
}
