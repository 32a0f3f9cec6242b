package alerts

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// stubRunner counts engine invocations.
type stubRunner struct {
	mu      sync.Mutex
	calls   int
	created int
	err     error
}

func (s *stubRunner) RunAutomaticEvaluation(userID uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.created, s.err
}

func (s *stubRunner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestTryExecuteAlertsCooldown(t *testing.T) {
	runner := &stubRunner{created: 2}
	trigger := NewSmartTrigger(runner, 5*time.Minute)

	// first call runs the engine
	res := trigger.TryExecuteAlerts(1)
	assert.True(t, res.Executed)
	assert.Equal(t, 2, res.AlertsCreated)
	assert.Empty(t, res.Reason)
	assert.Equal(t, 1, runner.callCount())

	// second call within the cooldown is skipped without touching the engine
	res = trigger.TryExecuteAlerts(1)
	assert.False(t, res.Executed)
	assert.Equal(t, "cooldown", res.Reason)
	assert.Equal(t, 1, runner.callCount())

	// a different user has an independent cooldown
	res = trigger.TryExecuteAlerts(2)
	assert.True(t, res.Executed)
	assert.Equal(t, 2, runner.callCount())
}

func TestTriggerCooldownExpires(t *testing.T) {
	runner := &stubRunner{}
	trigger := NewSmartTrigger(runner, 50*time.Millisecond)

	assert.True(t, trigger.TryExecuteAlerts(1).Executed)
	assert.False(t, trigger.TryExecuteAlerts(1).Executed)

	time.Sleep(80 * time.Millisecond)
	assert.True(t, trigger.TryExecuteAlerts(1).Executed)
	assert.Equal(t, 2, runner.callCount())
}

func TestTriggerStats(t *testing.T) {
	runner := &stubRunner{}
	trigger := NewSmartTrigger(runner, 5*time.Minute)

	trigger.TryExecuteAlerts(1)
	trigger.TryExecuteAlerts(1)
	trigger.TryExecuteAlerts(1)

	stats := trigger.Stats()
	assert.Equal(t, int64(3), stats.Invocations)
	assert.Equal(t, int64(1), stats.Executed)
	assert.Equal(t, int64(2), stats.Skipped)
	assert.InDelta(t, 5, stats.CooldownMinutes, 0.01)
}
