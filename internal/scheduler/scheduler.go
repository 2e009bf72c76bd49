package scheduler

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/annel0/terra-engine/internal/logging"
	"github.com/annel0/terra-engine/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

// GameTime is the opaque monotonic minute counter the scheduler advances.
// Nothing outside internal/calendar interprets it as a wall date.
type GameTime struct {
	TotalMinutes uint64
}

// StepContext is the immutable value passed to every handler and system
// invoked during a single tick.
type StepContext struct {
	GameTime         GameTime
	StepNumber       uint64
	DeltaGameSeconds float64

	// Ctx carries the scheduler.tick span so cadenced subsystems (e.g.
	// hydrology) can open child spans against it. Never nil.
	Ctx context.Context
}

// HandlerFunc is a per-tick handler. A returned error is logged and does
// not stop the tick.
type HandlerFunc func(ctx StepContext) error

// SystemFunc is a cadenced subsystem handler, invoked at most once per
// tick when its accumulator crosses its cadence.
type SystemFunc func(ctx StepContext) error

type handlerEntry struct {
	name string
	fn   HandlerFunc
}

type accumulator struct {
	accumulated    float64
	cadenceSeconds float64
	handler        SystemFunc
}

// Scheduler is the single-threaded cooperative tick loop described by
// spec.md §4.9. All exported methods are safe for concurrent use; the
// tick loop itself runs on its own goroutine once started.
type Scheduler struct {
	mu sync.Mutex

	cfg Config

	gameTime   GameTime
	stepNumber uint64

	handlers     []handlerEntry
	handlerNames map[string]struct{}

	accumulators map[string]*accumulator
	systemOrder  []string
	systemSeen   map[string]struct{}

	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewScheduler constructs a paused scheduler at gameTime zero.
func NewScheduler(cfg Config) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scheduler{
		cfg:          cfg,
		handlerNames: make(map[string]struct{}),
		accumulators: make(map[string]*accumulator),
		systemSeen:   make(map[string]struct{}),
	}, nil
}

// RegisterHandler adds a per-tick handler, run in registration order
// before any cadenced subsystem. It returns an unregister closure, or an
// error of KindDuplicateName if name is already bound.
func (s *Scheduler) RegisterHandler(name string, fn HandlerFunc) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.handlerNames[name]; exists {
		return nil, newError(KindDuplicateName, fmt.Sprintf("handler %q already registered", name))
	}
	s.handlerNames[name] = struct{}{}
	s.handlers = append(s.handlers, handlerEntry{name: name, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlerNames, name)
		for i, h := range s.handlers {
			if h.name == name {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				break
			}
		}
	}, nil
}

// RegisterSystem adds a cadenced subsystem. cadenceSeconds must be
// positive and finite. If name already has an accumulator — from a prior
// registration or from Restore — the handler is bound to that
// accumulator and the cadence argument is ignored in favor of the
// restored cadence, per spec.md §4.9.
func (s *Scheduler) RegisterSystem(name string, cadenceSeconds float64, fn SystemFunc) error {
	if cadenceSeconds <= 0 || math.IsNaN(cadenceSeconds) || math.IsInf(cadenceSeconds, 0) {
		return newError(KindInvalidArgument, "cadenceSeconds must be positive and finite")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, exists := s.accumulators[name]
	if !exists {
		acc = &accumulator{cadenceSeconds: cadenceSeconds}
		s.accumulators[name] = acc
	}
	acc.handler = fn

	if _, seen := s.systemSeen[name]; !seen {
		s.systemSeen[name] = struct{}{}
		s.systemOrder = append(s.systemOrder, name)
	}
	return nil
}

// Start schedules the first tick after cfg.DeltaRealSeconds. No-op if
// already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.run()
}

// Stop cancels the pending tick. The current tick, if in flight, is
// allowed to complete. No-op if not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	doneCh := s.doneCh
	s.mu.Unlock()

	<-doneCh
}

func (s *Scheduler) run() {
	defer close(s.doneCh)

	interval := time.Duration(s.cfg.DeltaRealSeconds * float64(time.Second))
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-timer.C:
			tickStart := time.Now()
			s.Tick()
			elapsed := time.Since(tickStart)

			next := interval - elapsed
			if next < 0 {
				next = 0
			}
			timer.Reset(next)
		}
	}
}

// Tick advances gameTime by one minute, increments stepNumber, and runs
// every per-tick handler followed by every due cadenced subsystem. It is
// exported directly so tests and callers that want deterministic,
// wall-clock-independent advancement can drive the scheduler without
// Start/Stop.
func (s *Scheduler) Tick() {
	ctx, span := observability.Tracer().Start(context.Background(), "scheduler.tick")
	defer span.End()

	s.mu.Lock()
	s.gameTime.TotalMinutes++
	s.stepNumber++
	step := StepContext{
		GameTime:         s.gameTime,
		StepNumber:       s.stepNumber,
		DeltaGameSeconds: deltaGameSeconds,
		Ctx:              ctx,
	}
	handlers := append([]handlerEntry(nil), s.handlers...)
	systemOrder := append([]string(nil), s.systemOrder...)
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int64("step.number", int64(step.StepNumber)),
		attribute.Int64("game.time_minutes", int64(step.GameTime.TotalMinutes)),
	)

	for _, h := range handlers {
		s.invokeHandler(step, h.name, h.fn)
	}

	for _, name := range systemOrder {
		s.mu.Lock()
		acc, ok := s.accumulators[name]
		if !ok || acc.handler == nil {
			s.mu.Unlock()
			continue
		}
		acc.accumulated += deltaGameSeconds
		fire := acc.accumulated >= acc.cadenceSeconds
		if fire {
			acc.accumulated -= acc.cadenceSeconds
		}
		fn := acc.handler
		s.mu.Unlock()

		if fire {
			s.invokeSystem(step, name, fn)
		}
	}
}

func (s *Scheduler) invokeHandler(step StepContext, name string, fn HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			logging.LogContext(logging.ERROR, "scheduler.handler", step.StepNumber, name, "panic: %v", r)
		}
	}()
	if err := fn(step); err != nil {
		logging.LogContext(logging.ERROR, "scheduler.handler", step.StepNumber, name, "failed: %v", err)
	}
}

func (s *Scheduler) invokeSystem(step StepContext, name string, fn SystemFunc) {
	defer func() {
		if r := recover(); r != nil {
			logging.LogContext(logging.ERROR, "scheduler.system", step.StepNumber, name, "panic: %v", r)
		}
	}()
	if err := fn(step); err != nil {
		logging.LogContext(logging.ERROR, "scheduler.system", step.StepNumber, name, "failed: %v", err)
	}
}

// StepNumber returns the current step counter.
func (s *Scheduler) StepNumber() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stepNumber
}

// GameTime returns the current opaque game time.
func (s *Scheduler) GameTime() GameTime {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameTime
}

// IsRunning reports whether Start has been called without a matching Stop.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
