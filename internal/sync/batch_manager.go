package sync

import (
	"context"
	"sync"
	"time"

	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/logging"
)

// Change is one buffered, serialized state change. The payload format is
// determined by ChangeType; here it is always a JSON-encoded
// HydrologyDelta (see hydrology_delta.go).
type Change struct {
	Data         []byte
	Priority     int
	Timestamp    time.Time
	SourceRegion string
	ChangeType   string
}

// BatchManager accumulates Changes and flushes them as a single
// compressed batch onto an EventBus subject at a fixed interval. One
// instance runs per tile-region worth of hydrology output.
type BatchManager struct {
	mu       sync.Mutex
	buf      []Change
	capacity int

	flushEvery time.Duration
	bus        eventbus.EventBus
	source     string
	eventType  string
	compressor DeltaCompressor

	quit chan struct{}
}

// NewBatchManager creates a manager publishing to bus as eventType,
// flushing at most every flushEvery with a buffer capped at capacity
// Changes. compressor may be nil, defaulting to a gzip-backed compressor.
func NewBatchManager(bus eventbus.EventBus, source, eventType string, capacity int, flushEvery time.Duration, compressor DeltaCompressor) *BatchManager {
	if compressor == nil {
		compressor = NewSmartCompressor()
	}
	bm := &BatchManager{
		capacity:   capacity,
		flushEvery: flushEvery,
		bus:        bus,
		source:     source,
		eventType:  eventType,
		compressor: compressor,
		quit:       make(chan struct{}),
	}
	go bm.loop()
	return bm
}

// AddChange buffers ch. When the buffer is full, the lowest-priority
// entry is evicted in favor of ch if ch outranks it; otherwise ch is
// dropped.
func (bm *BatchManager) AddChange(ch Change) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if len(bm.buf) >= bm.capacity {
		lowIdx := -1
		lowPri := ch.Priority
		for i, c := range bm.buf {
			if c.Priority < lowPri {
				lowPri = c.Priority
				lowIdx = i
			}
		}
		if lowIdx >= 0 {
			bm.buf[lowIdx] = ch
		}
		return
	}
	bm.buf = append(bm.buf, ch)
}

func (bm *BatchManager) loop() {
	ticker := time.NewTicker(bm.flushEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			bm.flush()
		case <-bm.quit:
			return
		}
	}
}

func (bm *BatchManager) flush() {
	bm.mu.Lock()
	if len(bm.buf) == 0 {
		bm.mu.Unlock()
		return
	}
	changes := make([]Change, len(bm.buf))
	copy(changes, bm.buf)
	bm.buf = bm.buf[:0]
	bm.mu.Unlock()

	batchPayload, err := bm.compressor.Compress(changes)
	if err != nil {
		logging.LogWarn("sync: batch compress error: %v", err)
		return
	}

	env := &eventbus.Envelope{
		ID:        time.Now().Format("20060102150405.000000000"),
		Timestamp: time.Now().UTC(),
		Source:    bm.source,
		EventType: bm.eventType,
		Version:   1,
		Priority:  5,
		Payload:   batchPayload,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := bm.bus.Publish(ctx, env); err != nil {
		logging.LogWarn("sync: batch publish error: %v", err)
	}
}

// Stop halts the flush loop and force-flushes whatever remains buffered.
func (bm *BatchManager) Stop() {
	close(bm.quit)
	bm.flush()
}
