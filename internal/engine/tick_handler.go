package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/annel0/terra-engine/internal/eventbus"
	"github.com/annel0/terra-engine/internal/logging"
	"github.com/annel0/terra-engine/internal/scheduler"
)

// TickCompleted is the payload of the once-per-tick "tick.completed"
// envelope: enough for a consumer to track simulation progress without
// subscribing to the heavier hydrology.summary stream.
type TickCompleted struct {
	StepNumber      uint64 `json:"stepNumber"`
	GameTimeMinutes uint64 `json:"gameTimeMinutes"`
}

// NewTickCompletedHandler builds the scheduler.HandlerFunc that
// publishes a TickCompleted envelope every tick. Registered as a
// handler rather than a cadenced system since it has no cadence of its
// own: it fires every step, same as the tick span it rides.
func NewTickCompletedHandler(bus eventbus.EventBus) scheduler.HandlerFunc {
	return func(step scheduler.StepContext) error {
		if bus == nil {
			return nil
		}
		data, err := json.Marshal(TickCompleted{
			StepNumber:      step.StepNumber,
			GameTimeMinutes: step.GameTime.TotalMinutes,
		})
		if err != nil {
			return err
		}
		if err := bus.Publish(context.Background(), &eventbus.Envelope{
			ID:        uuid.NewString(),
			Timestamp: time.Now().UTC(),
			Source:    "terra-engine",
			EventType: eventbus.EventTypeTickCompleted,
			Version:   1,
			Payload:   data,
		}); err != nil {
			logging.LogWarn("engine: publish tick.completed: %v", err)
			return err
		}
		return nil
	}
}
