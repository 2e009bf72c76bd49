// Package snapshot implements the explicit, non-durable serialize/restore
// contract: an operator-triggered {rng, scheduler} bundle written to a
// file or handed to another process via Redis, never persisted on a
// timer.
package snapshot

import (
	"github.com/annel0/terra-engine/internal/rng"
	"github.com/annel0/terra-engine/internal/scheduler"
)

// Snapshot bundles everything needed to resume a world/engine pair at
// the exact tick it was captured.
type Snapshot struct {
	RNG         rng.State       `json:"rng"`
	Scheduler   scheduler.State `json:"scheduler"`
	SavedAtStep uint64          `json:"savedAtStep"`
}
