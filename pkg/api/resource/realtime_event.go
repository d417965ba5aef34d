package resource

import (
	"time"

	"github.com/nsyszr/rcm/pkg/notify"
)

// RealtimeEventResource is one frame of the realtime change feed. Topic is
// "<kind>.<action>", e.g. "event.created".
type RealtimeEventResource struct {
	Topic     string      `json:"topic"`
	ID        string      `json:"id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewRealtimeEvent(c *notify.Change) *RealtimeEventResource {
	return &RealtimeEventResource{
		Topic:     string(c.Kind) + "." + string(c.Action),
		ID:        c.ID,
		Data:      c.Record,
		Timestamp: c.Timestamp,
	}
}
