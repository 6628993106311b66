package sim

import "sync/atomic"

// State is the lifecycle of the background actors.
type State uint32

const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	if s == StateStopped {
		return "stopped"
	}
	return "running"
}

// Flag is the shared Running -> Stopped switch. Stopped is terminal.
type Flag struct {
	stopped atomic.Bool
}

func (f *Flag) Running() bool { return !f.stopped.Load() }

func (f *Flag) State() State {
	if f.stopped.Load() {
		return StateStopped
	}
	return StateRunning
}

// Stop moves the flag to Stopped. It reports whether this call made the
// transition.
func (f *Flag) Stop() bool {
	return f.stopped.CompareAndSwap(false, true)
}
