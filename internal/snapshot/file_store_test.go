package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/annel0/terra-engine/internal/rng"
	"github.com/annel0/terra-engine/internal/scheduler"
)

func TestSaveLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "snap.json")

	mgr, err := rng.NewManager(42)
	require.NoError(t, err)
	mgr.Stream("terrain")

	sched, err := scheduler.NewScheduler(scheduler.DefaultConfig())
	require.NoError(t, err)
	sched.Tick()
	sched.Tick()

	want := Snapshot{
		RNG:         mgr.GetState(),
		Scheduler:   sched.GetState(),
		SavedAtStep: sched.StepNumber(),
	}

	require.NoError(t, SaveFile(path, want))

	got, err := LoadFile(path)
	require.NoError(t, err)

	require.Equal(t, want.SavedAtStep, got.SavedAtStep)
	require.Equal(t, want.RNG.MasterSeed, got.RNG.MasterSeed)
	require.Equal(t, want.Scheduler.StepNumber, got.Scheduler.StepNumber)
}

func TestLoadFileMissingReturnsError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
