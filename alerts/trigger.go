package alerts

import (
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Runner is what the trigger needs from the alert engine.
type Runner interface {
	RunAutomaticEvaluation(userID uint) (int, error)
}

// TriggerResult is the outcome of one TryExecuteAlerts call.
type TriggerResult struct {
	Executed      bool
	AlertsCreated int
	Reason        string // "cooldown" when skipped
	Err           error  // engine error, if any; the cooldown still applies
}

// TriggerStats are cumulative counters for observability endpoints.
type TriggerStats struct {
	Invocations     int64   `json:"invocations"`
	Executed        int64   `json:"executed"`
	Skipped         int64   `json:"skipped"`
	CooldownMinutes float64 `json:"cooldownMinutes"`
}

// SmartTrigger is a per-user cooldown gate in front of the alert engine.
// It stops event storms (e.g. every transaction save) from re-running the
// evaluation. It is a best-effort single-process gate, not a distributed
// lock: the engine's dedup-by-key check is the real safety net.
type SmartTrigger struct {
	runner   Runner
	cooldown time.Duration
	lastRuns *gocache.Cache // userID → last run; TTL expiry ends the cooldown

	mu    sync.Mutex
	stats TriggerStats
}

// NewSmartTrigger creates a trigger with the given cooldown.
func NewSmartTrigger(runner Runner, cooldown time.Duration) *SmartTrigger {
	return &SmartTrigger{
		runner:   runner,
		cooldown: cooldown,
		lastRuns: gocache.New(cooldown, 10*time.Minute),
		stats:    TriggerStats{CooldownMinutes: cooldown.Minutes()},
	}
}

// TryExecuteAlerts runs the engine for the user unless the user is still in
// cooldown. Within the cooldown it returns Executed=false, Reason="cooldown"
// without touching the engine or the database.
func (t *SmartTrigger) TryExecuteAlerts(userID uint) TriggerResult {
	key := strconv.FormatUint(uint64(userID), 10)

	t.mu.Lock()
	t.stats.Invocations++
	if _, found := t.lastRuns.Get(key); found {
		t.stats.Skipped++
		t.mu.Unlock()
		return TriggerResult{Executed: false, Reason: "cooldown"}
	}
	// Claim the slot before running so concurrent callers back off.
	t.lastRuns.Set(key, time.Now(), gocache.DefaultExpiration)
	t.stats.Executed++
	t.mu.Unlock()

	created, err := t.runner.RunAutomaticEvaluation(userID)
	return TriggerResult{Executed: true, AlertsCreated: created, Err: err}
}

// Stats returns a snapshot of the counters.
func (t *SmartTrigger) Stats() TriggerStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
