package resource

import (
	"time"

	"github.com/nsyszr/rcm/pkg/model"
)

type EventResource struct {
	ID        string    `json:"_id"`
	DateKey   string    `json:"dateKey"`
	Type      string    `json:"type"`
	Station   string    `json:"station"`
	Zone      string    `json:"zone,omitempty"`
	Division  string    `json:"division,omitempty"`
	Crowd     int       `json:"crowd"`
	Level     string    `json:"level"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int       `json:"__v"`
}

func NewEvent(m *model.Event) *EventResource {
	return &EventResource{
		ID:        m.ID,
		DateKey:   m.DateKey,
		Type:      string(m.Type),
		Station:   m.Station,
		Zone:      m.Zone,
		Division:  m.Division,
		Crowd:     m.Crowd,
		Level:     string(m.Level),
		CreatedAt: m.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

// NewEventList keeps the order of m, which the store returns newest first.
func NewEventList(m []model.Event) []*EventResource {
	out := make([]*EventResource, 0, len(m))
	for i := range m {
		out = append(out, NewEvent(&m[i]))
	}
	return out
}
