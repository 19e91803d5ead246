package workout

type Phase int

const (
	PhaseWarmup Phase = iota
	PhaseIdle
	PhaseHold
	PhaseRest
	PhaseExerciseDone
	PhaseSessionReview
	PhaseSaved
	PhaseAbandoned
)

func (p Phase) String() string {
	switch p {
	case PhaseWarmup:
		return "warmup"
	case PhaseIdle:
		return "idle"
	case PhaseHold:
		return "hold"
	case PhaseRest:
		return "rest"
	case PhaseExerciseDone:
		return "exercise-done"
	case PhaseSessionReview:
		return "session-review"
	case PhaseSaved:
		return "saved"
	case PhaseAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

// Finished reports whether the machine reached a terminal phase.
func (p Phase) Finished() bool {
	return p == PhaseSaved || p == PhaseAbandoned
}
