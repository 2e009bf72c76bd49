package eventbus

import (
	"context"
	"sync"
	"time"
)

// Event type strings published on this bus. Every publisher in this
// repo (the scheduler's tick handler, the hydrology cadenced system,
// the sync batch manager, and the admin REST handlers) uses one of
// these instead of a literal, so a subject rename touches one place.
const (
	EventTypeTickCompleted         = "tick.completed"
	EventTypeHydrologySummary      = "hydrology.summary"
	EventTypeHydrologyDeltas       = "hydrology.deltas"
	EventTypeAdminSnapshotSaved    = "admin.snapshot.saved"
	EventTypeAdminSnapshotRestored = "admin.snapshot.restored"
	EventTypeAdminEngineStopped    = "admin.engine.stopped"
)

// Envelope is the transport-agnostic container every event rides in,
// whether it goes out over the in-memory bus or JetStream.
// Fields are fixed to keep versioning and tracing consistent across
// implementations.
type Envelope struct {
	ID            string            // Globally unique identifier (UUID).
	Timestamp     time.Time         // Event creation time (UTC).
	Source        string            // Name of the publishing component (e.g. "terra-engine").
	EventType     string            // One of the EventType* constants above.
	Version       int               // Payload schema version.
	CorrelationID string            // Links related events (unused by any publisher here).
	Tenant        string            // Multi-tenancy hook, empty in this single-world deployment.
	Priority      int               // 0=Low .. 9=Critical, drives backpressure on the memory bus.
	Payload       []byte            // JSON-encoded domain payload (TickCompleted, HydrologySummary, ...).
	Metadata      map[string]string // Free-form metadata, unused by any publisher here.
}

// Filter selects which events a subscriber receives.
type Filter struct {
	Types   []string // Empty means every type.
	Sources []string // Empty means every source.
}

// Subscription is returned from Subscribe; call Unsubscribe to stop
// receiving events.
type Subscription interface {
	Unsubscribe()
}

// Handler consumes one envelope at a time.
type Handler func(ctx context.Context, ev *Envelope)

// Stats are the bus's aggregate delivery counters.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus abstracts the transport tick.completed, hydrology.summary,
// and hydrology.deltas ride on, so the engine and REST layers don't
// care whether it's the in-memory bus or JetStreamBus underneath.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope
	capacity    int
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus creates an in-process bus with the given buffer size,
// used as the default when no eventbus.url is configured and by every
// test in this repo that needs a bus without a running NATS cluster.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
		capacity:    capacity,
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case mb.buffer <- ev:
		mb.mu.Lock()
		mb.stats.Published++
		mb.mu.Unlock()
		return nil
	default:
		// Buffer full: drop anything below high priority (<5).
		if ev.Priority < 5 {
			mb.mu.Lock()
			mb.stats.Dropped++
			mb.mu.Unlock()
			return nil
		}
		// High-priority envelopes block until space frees up or ctx cancels.
		select {
		case mb.buffer <- ev:
			mb.mu.Lock()
			mb.stats.Published++
			mb.mu.Unlock()
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// dispatchLoop fans each published envelope out to matching subscribers.
func (mb *memoryBus) dispatchLoop() {
	for ev := range mb.buffer {
		mb.mu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.mu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) {
				continue
			}
			// Hand the envelope to the subscriber on its own goroutine.
			go func(s subscriber) {
				select {
				case <-s.ctx.Done():
					return
				default:
					s.handler(s.ctx, ev)
					mb.mu.Lock()
					mb.stats.Consumed++
					mb.mu.Unlock()
				}
			}(sub)
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
