package sync

import (
	"context"
	"testing"
	"time"

	"github.com/annel0/terra-engine/internal/eventbus"
)

func TestSmartCompressorRoundTrip(t *testing.T) {
	changes := []Change{
		{Data: []byte("a"), Priority: 1, SourceRegion: "r1"},
		{Data: []byte("bb"), Priority: 2, SourceRegion: "r1"},
	}
	c := NewSmartCompressor()
	payload, err := c.Compress(changes)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	decoded, err := c.Decompress(payload)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(decoded) != len(changes) {
		t.Fatalf("decoded %d changes, want %d", len(decoded), len(changes))
	}
	for i := range changes {
		if string(decoded[i].Data) != string(changes[i].Data) {
			t.Fatalf("decoded[%d].Data = %q, want %q", i, decoded[i].Data, changes[i].Data)
		}
	}
}

func TestPassthroughCompressorRoundTrip(t *testing.T) {
	changes := []Change{{Data: []byte("hello")}}
	c := NewPassthroughCompressor()
	payload, err := c.Compress(changes)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	decoded, err := c.Decompress(payload)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(decoded) != 1 || string(decoded[0].Data) != "hello" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestBatchManagerFlushesOverBus(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	received := make(chan *eventbus.Envelope, 1)
	if _, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.EventTypeHydrologyDeltas}}, func(ctx context.Context, ev *eventbus.Envelope) {
		received <- ev
	}); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	bm := NewBatchManager(bus, "region-0", eventbus.EventTypeHydrologyDeltas, 64, 20*time.Millisecond, nil)
	defer bm.Stop()

	change, err := NewHydrologyDeltaChange(HydrologyDelta{Cx: 1, Cy: 2, Lx: 3, Ly: 4, DeltaM: 0.01}, "region-0")
	if err != nil {
		t.Fatalf("NewHydrologyDeltaChange: %v", err)
	}
	bm.AddChange(change)

	select {
	case ev := <-received:
		if ev.EventType != eventbus.EventTypeHydrologyDeltas {
			t.Fatalf("EventType = %q, want %q", ev.EventType, eventbus.EventTypeHydrologyDeltas)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for batch flush")
	}
}

func TestDeltaConsumerDecodesBatch(t *testing.T) {
	bus := eventbus.NewMemoryBus(16)
	bm := NewBatchManager(bus, "region-0", eventbus.EventTypeHydrologyDeltas, 64, 20*time.Millisecond, NewPassthroughCompressor())
	defer bm.Stop()

	deltas := make(chan HydrologyDelta, 1)
	consumer, err := NewDeltaConsumer(bus, eventbus.EventTypeHydrologyDeltas, NewPassthroughCompressor(), func(d HydrologyDelta) {
		deltas <- d
	})
	if err != nil {
		t.Fatalf("NewDeltaConsumer: %v", err)
	}
	defer consumer.Stop()

	change, err := NewHydrologyDeltaChange(HydrologyDelta{Cx: 5, Cy: 6, Lx: 1, Ly: 2, DeltaM: 0.5}, "region-0")
	if err != nil {
		t.Fatalf("NewHydrologyDeltaChange: %v", err)
	}
	bm.AddChange(change)

	select {
	case d := <-deltas:
		if d.Cx != 5 || d.Cy != 6 || d.DeltaM != 0.5 {
			t.Fatalf("decoded delta = %+v, want Cx=5 Cy=6 DeltaM=0.5", d)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta consumer callback")
	}
}

func TestAddChangeEvictsLowestPriorityWhenFull(t *testing.T) {
	bus := eventbus.NewMemoryBus(4)
	bm := NewBatchManager(bus, "region-0", eventbus.EventTypeHydrologyDeltas, 2, time.Hour, NewPassthroughCompressor())
	defer bm.Stop()

	low, _ := NewHydrologyDeltaChange(HydrologyDelta{DeltaM: 0.001}, "r")
	low.Priority = 1
	mid, _ := NewHydrologyDeltaChange(HydrologyDelta{DeltaM: 0.002}, "r")
	mid.Priority = 2
	high, _ := NewHydrologyDeltaChange(HydrologyDelta{DeltaM: 0.003}, "r")
	high.Priority = 9

	bm.AddChange(low)
	bm.AddChange(mid)
	bm.AddChange(high) // buffer full at capacity 2, should evict `low`

	bm.mu.Lock()
	defer bm.mu.Unlock()
	if len(bm.buf) != 2 {
		t.Fatalf("buffer len = %d, want 2", len(bm.buf))
	}
	for _, c := range bm.buf {
		if c.Priority == 1 {
			t.Fatal("expected lowest-priority change to be evicted")
		}
	}
}
