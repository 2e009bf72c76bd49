package sync

import (
	"context"
	"encoding/json"

	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/logging"
)

// DeltaConsumer subscribes to eventType on bus, decompresses each batch,
// and decodes every Change's payload as a HydrologyDelta, invoking fn for
// each one. It exists for external visualizers and the still-inert
// vegetation/soil subsystems to track hydrology output without polling
// the tile cache.
type DeltaConsumer struct {
	sub        eventbus.Subscription
	compressor DeltaCompressor
}

// NewDeltaConsumer subscribes immediately; compressor may be nil,
// defaulting to a gzip-backed compressor matching NewBatchManager.
func NewDeltaConsumer(bus eventbus.EventBus, eventType string, compressor DeltaCompressor, fn func(HydrologyDelta)) (*DeltaConsumer, error) {
	if compressor == nil {
		compressor = NewSmartCompressor()
	}
	dc := &DeltaConsumer{compressor: compressor}

	sub, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventType}}, func(ctx context.Context, ev *eventbus.Envelope) {
		dc.handle(ev, fn)
	})
	if err != nil {
		return nil, err
	}
	dc.sub = sub
	return dc, nil
}

func (dc *DeltaConsumer) handle(ev *eventbus.Envelope, fn func(HydrologyDelta)) {
	changes, err := dc.compressor.Decompress(ev.Payload)
	if err != nil {
		logging.LogWarn("sync: batch decompress error: %v", err)
		return
	}

	for _, ch := range changes {
		var delta HydrologyDelta
		if err := json.Unmarshal(ch.Data, &delta); err != nil {
			logging.LogWarn("sync: decode hydrology delta: %v", err)
			continue
		}
		fn(delta)
	}
}

// Stop unsubscribes from the event bus.
func (dc *DeltaConsumer) Stop() { dc.sub.Unsubscribe() }
