package engine

import (
	"sync"

	"github.com/annel0/terra-engine/internal/scheduler"
)

var (
	engineMu sync.Mutex
	sched    *scheduler.Scheduler
)

// StartEngine constructs and starts the scheduler singleton. Fails with
// KindAlreadyInitialized if one is already running. A subsequent
// StartEngine after StopEngine with a different cfg is a valid
// restart-only reconfiguration.
func StartEngine(cfg scheduler.Config) (*scheduler.Scheduler, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if sched != nil {
		return nil, newError(KindAlreadyInitialized, "engine already running")
	}

	s, err := scheduler.NewScheduler(cfg)
	if err != nil {
		return nil, err
	}
	s.Start()
	sched = s
	return s, nil
}

// ResumeEngine restores the scheduler singleton from a serialized state
// and starts it, without resetting stepNumber/gameTime/accumulators.
func ResumeEngine(cfg scheduler.Config, state scheduler.State) (*scheduler.Scheduler, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if sched != nil {
		return nil, newError(KindAlreadyInitialized, "engine already running")
	}

	s, err := scheduler.Restore(cfg, state)
	if err != nil {
		return nil, err
	}
	s.Start()
	sched = s
	return s, nil
}

// GetScheduler returns the live scheduler singleton, or
// KindNotInitialized if no engine is running.
func GetScheduler() (*scheduler.Scheduler, error) {
	engineMu.Lock()
	defer engineMu.Unlock()

	if sched == nil {
		return nil, newError(KindNotInitialized, "engine not running")
	}
	return sched, nil
}

// StopEngine stops the scheduler, if running, and clears the singleton
// slot.
func StopEngine() {
	engineMu.Lock()
	defer engineMu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	sched = nil
}

// ResetEngineForTest force-clears the scheduler slot regardless of
// state, stopping it first if live. It exists only for test isolation.
func ResetEngineForTest() {
	StopEngine()
}
