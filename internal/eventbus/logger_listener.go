package eventbus

import (
	"context"

	"github.com/annel0/terra-engine/internal/logging"
)

// StartLoggingListener subscribes to every event on bus and writes each
// one to the standard log. Non-blocking.
func StartLoggingListener(bus EventBus) error {
	_, err := bus.Subscribe(context.Background(), Filter{}, func(ctx context.Context, ev *Envelope) {
		logging.LogDebug("[EventBus] %s %s src=%s prio=%d size=%dB", ev.ID, ev.EventType, ev.Source, ev.Priority, len(ev.Payload))
	})
	if err != nil {
		return err
	}
	logging.LogInfo("eventbus: logging listener subscribed to all events")
	return nil
}
