package memory

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/nsyszr/rcm/pkg/storage"
)

// Store contains all memory-based sub-stores for managing the persistent models
type store struct {
	events *eventStore
	plans  *planStore
	state  *storage.StateTracker
}

// NewStore creates a new memory-based Storage interface
func NewStore() storage.Interface {
	seq := &sequence{}

	return &store{
		events: newEventStore(seq),
		plans:  newPlanStore(seq),
		state:  storage.NewStateTracker(storage.StateConnected),
	}
}

// Events returns a sub-store for managing the Event model
func (s *store) Events() storage.EventStore {
	return s.events
}

// Plans returns a sub-store for managing the Plan model
func (s *store) Plans() storage.PlanStore {
	return s.plans
}

func (s *store) State() storage.State {
	return s.state.Load()
}

func (s *store) Close(ctx context.Context) error {
	s.state.Store(storage.StateDisconnected)
	return nil
}

// sequence hands out insertion numbers shared by all sub-stores. The number
// doubles as the record id and orders records created within the same clock
// tick.
type sequence struct {
	n atomic.Uint64
}

func (s *sequence) next() (uint64, string) {
	n := s.n.Add(1)
	return n, fmt.Sprintf("%024x", n)
}
