package eventbus

import "context"

var globalBus EventBus

// Init registers the process-wide bus. cmd/server/main.go calls this
// once, right after building the eventbus.EventBus the tick/hydrology
// publishers use, so the handful of side-channel call sites that don't
// carry a bus reference of their own (the admin REST handlers' audit
// events: admin.snapshot.saved/restored, admin.engine.stopped) can
// still reach it through Publish below.
func Init(bus EventBus) { globalBus = bus }

// Publish sends ev on the global bus if one has been registered via
// Init, and is a silent no-op otherwise — tests that never call Init
// can exercise admin handlers without a bus.
func Publish(ctx context.Context, ev *Envelope) error {
	if globalBus == nil {
		return nil
	}
	return globalBus.Publish(ctx, ev)
}
