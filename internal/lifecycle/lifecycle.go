package lifecycle

import "sync/atomic"

// State is the process phase reported by the health endpoint.
type State int32

const (
	Starting State = iota
	Serving
	ShuttingDown
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Serving:
		return "healthy"
	case ShuttingDown:
		return "shutting-down"
	}
	return "unknown"
}

var current atomic.Int32

// Set records the current phase. main moves Starting -> Serving once the shell
// prints its banner and -> ShuttingDown when the loop ends.
func Set(s State) {
	current.Store(int32(s))
}

// Current returns the recorded phase.
func Current() State {
	return State(current.Load())
}
