package engine

import (
	"testing"

	"github.com/annel0/terra-engine/internal/hydrology"
	"github.com/annel0/terra-engine/internal/scheduler"
	"github.com/annel0/terra-engine/internal/terrain"
)

func smallWorldConfig() WorldConfig {
	cfg := terrain.DefaultConfig()
	cfg.WorldWidthKm = 32
	cfg.WorldHeightKm = 32
	cfg.CellSizeM = 500
	cfg.TileSide = 8
	cfg.CoarseSampleRes = 32
	cfg.MajorContinents = 1
	cfg.MinorCountRange = [2]int{0, 1}
	cfg.PlacementAttempts = 16
	return WorldConfig{
		Terrain:          cfg,
		Hydrology:        hydrology.DefaultConfig(),
		MasterSeed:       42,
		MaxResidentTiles: 16,
	}
}

func TestInitWorldRejectsDoubleInit(t *testing.T) {
	t.Cleanup(ResetWorldForTest)

	if _, err := InitWorld(smallWorldConfig()); err != nil {
		t.Fatalf("first InitWorld: %v", err)
	}
	if _, err := InitWorld(smallWorldConfig()); err == nil || !IsKind(err, KindAlreadyInitialized) {
		t.Fatalf("expected AlreadyInitialized on second InitWorld, got %v", err)
	}
}

func TestGetWorldBeforeInit(t *testing.T) {
	t.Cleanup(ResetWorldForTest)
	if _, err := GetWorld(); err == nil || !IsKind(err, KindNotInitialized) {
		t.Fatalf("expected NotInitialized before InitWorld, got %v", err)
	}
}

func TestStopWorldAllowsReinit(t *testing.T) {
	t.Cleanup(ResetWorldForTest)

	if _, err := InitWorld(smallWorldConfig()); err != nil {
		t.Fatalf("InitWorld: %v", err)
	}
	StopWorld()
	if _, err := GetWorld(); err == nil || !IsKind(err, KindNotInitialized) {
		t.Fatal("expected NotInitialized after StopWorld")
	}
	if _, err := InitWorld(smallWorldConfig()); err != nil {
		t.Fatalf("re-InitWorld after StopWorld: %v", err)
	}
}

func TestStartEngineRejectsDoubleStart(t *testing.T) {
	t.Cleanup(ResetEngineForTest)

	cfg := scheduler.Config{DeltaRealSeconds: 1}
	if _, err := StartEngine(cfg); err != nil {
		t.Fatalf("first StartEngine: %v", err)
	}
	if _, err := StartEngine(cfg); err == nil || !IsKind(err, KindAlreadyInitialized) {
		t.Fatalf("expected AlreadyInitialized on second StartEngine, got %v", err)
	}
}

func TestGetSchedulerBeforeStart(t *testing.T) {
	t.Cleanup(ResetEngineForTest)
	if _, err := GetScheduler(); err == nil || !IsKind(err, KindNotInitialized) {
		t.Fatalf("expected NotInitialized before StartEngine, got %v", err)
	}
}

func TestStopEngineAllowsRestartWithDifferentConfig(t *testing.T) {
	t.Cleanup(ResetEngineForTest)

	if _, err := StartEngine(scheduler.Config{DeltaRealSeconds: 1}); err != nil {
		t.Fatalf("StartEngine: %v", err)
	}
	StopEngine()
	if _, err := StartEngine(scheduler.Config{DeltaRealSeconds: 5}); err != nil {
		t.Fatalf("StartEngine after StopEngine with different config: %v", err)
	}
}

func TestResumeEngineRestoresState(t *testing.T) {
	t.Cleanup(ResetEngineForTest)

	s, err := StartEngine(scheduler.Config{DeltaRealSeconds: 1})
	if err != nil {
		t.Fatalf("StartEngine: %v", err)
	}
	s.Tick()
	s.Tick()
	state := s.GetState()
	StopEngine()

	resumed, err := ResumeEngine(scheduler.Config{DeltaRealSeconds: 1}, state)
	if err != nil {
		t.Fatalf("ResumeEngine: %v", err)
	}
	if resumed.StepNumber() != 2 {
		t.Fatalf("expected resumed stepNumber 2, got %d", resumed.StepNumber())
	}
}
