package storage

import "sync/atomic"

// State is the connection state of a store. The numbering follows the
// ready states reported by common Mongo clients.
type State int32

const (
	StateDisconnected State = iota
	StateConnected
	StateConnecting
	StateDisconnecting
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnected:
		return "connected"
	case StateConnecting:
		return "connecting"
	case StateDisconnecting:
		return "disconnecting"
	}
	return "unknown"
}

// StateTracker holds a State that is safe for concurrent use.
type StateTracker struct {
	v atomic.Int32
}

func NewStateTracker(initial State) *StateTracker {
	t := &StateTracker{}
	t.v.Store(int32(initial))
	return t
}

func (t *StateTracker) Load() State {
	return State(t.v.Load())
}

// Store sets the state and returns the previous one.
func (t *StateTracker) Store(s State) State {
	return State(t.v.Swap(int32(s)))
}
