package scheduler

// AccumulatorState is the serialized form of one cadenced subsystem's
// accumulator.
type AccumulatorState struct {
	Accumulated    float64 `json:"accumulated"`
	CadenceSeconds float64 `json:"cadenceSeconds"`
}

// GameTimeState is the JSON-compatible form of GameTime.
type GameTimeState struct {
	TotalMinutes uint64 `json:"totalMinutes"`
}

// State is the SchedulerState serialized form from spec.md §6.
type State struct {
	GameTime     GameTimeState               `json:"gameTime"`
	StepNumber   uint64                      `json:"stepNumber"`
	Accumulators map[string]AccumulatorState `json:"accumulators"`
}

// GetState snapshots the scheduler's serializable state. Handler and
// system function bindings are not part of it — restoring rebinds them
// via RegisterHandler/RegisterSystem.
func (s *Scheduler) GetState() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	accumulators := make(map[string]AccumulatorState, len(s.accumulators))
	for name, acc := range s.accumulators {
		accumulators[name] = AccumulatorState{
			Accumulated:    acc.accumulated,
			CadenceSeconds: acc.cadenceSeconds,
		}
	}

	return State{
		GameTime:     GameTimeState{TotalMinutes: s.gameTime.TotalMinutes},
		StepNumber:   s.stepNumber,
		Accumulators: accumulators,
	}
}

// Restore constructs a paused scheduler at the given state. Its
// accumulator table is pre-populated with empty (nil) handler slots;
// subsequent RegisterSystem calls rebind handlers to these accumulators,
// with the restored cadence taking precedence over the call's cadence
// argument, per spec.md §4.9.
func Restore(cfg Config, state State) (*Scheduler, error) {
	s, err := NewScheduler(cfg)
	if err != nil {
		return nil, err
	}

	s.gameTime.TotalMinutes = state.GameTime.TotalMinutes
	s.stepNumber = state.StepNumber
	for name, as := range state.Accumulators {
		s.accumulators[name] = &accumulator{
			accumulated:    as.Accumulated,
			cadenceSeconds: as.CadenceSeconds,
		}
	}
	return s, nil
}
