// Package notify distributes record change notifications to interested
// subscribers, in process or through NATS.
package notify

import "time"

// Kind is the record type a change refers to.
type Kind string

const (
	KindEvent Kind = "event"
	KindPlan  Kind = "plan"
)

// Action is what happened to the record.
type Action string

const (
	ActionCreated Action = "created"
	ActionDeleted Action = "deleted"
)

// Change describes one record mutation. Record holds the JSON resource of a
// created record and is nil for deletions.
type Change struct {
	Kind      Kind        `json:"kind"`
	Action    Action      `json:"action"`
	ID        string      `json:"id"`
	Record    interface{} `json:"record,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewChange returns a change stamped with the current time.
func NewChange(kind Kind, action Action, id string, record interface{}) *Change {
	return &Change{
		Kind:      kind,
		Action:    action,
		ID:        id,
		Record:    record,
		Timestamp: time.Now().Round(time.Millisecond).UTC(),
	}
}

// Interface is implemented by notification transports.
type Interface interface {
	Publish(c *Change) error
	// Subscribe registers fn for every subsequent change. The returned
	// function cancels the subscription.
	Subscribe(fn func(c *Change)) (func(), error)
	Close()
}
