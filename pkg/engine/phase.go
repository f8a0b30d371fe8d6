package engine

// Phase is the lifecycle position of an Engine.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseMerging
	PhaseValidating
	PhaseReady
	PhaseBroken
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseMerging:
		return "merging"
	case PhaseValidating:
		return "validating"
	case PhaseReady:
		return "ready"
	case PhaseBroken:
		return "broken"
	default:
		return "unknown"
	}
}
