package engine

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/scheduler"
)

func TestTickCompletedHandlerPublishes(t *testing.T) {
	bus := eventbus.NewMemoryBus(4)

	var mu sync.Mutex
	var got *TickCompleted
	received := make(chan struct{})
	_, err := bus.Subscribe(context.Background(), eventbus.Filter{Types: []string{eventbus.EventTypeTickCompleted}}, func(_ context.Context, ev *eventbus.Envelope) {
		var tc TickCompleted
		if jsonErr := json.Unmarshal(ev.Payload, &tc); jsonErr != nil {
			t.Errorf("Unmarshal: %v", jsonErr)
			return
		}
		mu.Lock()
		got = &tc
		mu.Unlock()
		close(received)
	})
	require.NoError(t, err)

	handler := NewTickCompletedHandler(bus)
	step := scheduler.StepContext{
		StepNumber: 7,
		GameTime:   scheduler.GameTime{TotalMinutes: 42},
		Ctx:        context.Background(),
	}
	require.NoError(t, handler(step))

	select {
	case <-received:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tick.completed envelope")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NotNil(t, got)
	require.Equal(t, uint64(7), got.StepNumber)
	require.Equal(t, uint64(42), got.GameTimeMinutes)
}

func TestTickCompletedHandlerNilBusNoop(t *testing.T) {
	handler := NewTickCompletedHandler(nil)
	step := scheduler.StepContext{StepNumber: 1, Ctx: context.Background()}
	require.NoError(t, handler(step))
}
