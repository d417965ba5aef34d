package model

import "time"

// EventType classifies the occasion behind a crowd event.
type EventType string

const (
	EventTypeFestival  EventType = "Festival"
	EventTypeSport     EventType = "Sport"
	EventTypePolitical EventType = "Political"
	EventTypeReligious EventType = "Religious"
	EventTypeOther     EventType = "Other"
)

// Level is the ordinal crowd-risk classification of an event. L-1 is the
// least severe.
type Level string

const (
	Level1 Level = "L-1"
	Level2 Level = "L-2"
	Level3 Level = "L-3"
)

// Levels returns all severity levels, least severe first.
func Levels() []Level {
	return []Level{Level1, Level2, Level3}
}

// Rank returns 1..3 for a known level and 0 otherwise.
func (l Level) Rank() int {
	for i, known := range Levels() {
		if l == known {
			return i + 1
		}
	}
	return 0
}

// Event is a recorded crowd-management incident at a station.
type Event struct {
	ID       string
	DateKey  string    `validate:"required,datekey"`
	Type     EventType `validate:"required,oneof=Festival Sport Political Religious Other"`
	Station  string    `validate:"required"`
	Zone     string
	Division string
	Crowd    int   `validate:"min=0"`
	Level    Level `validate:"required,oneof=L-1 L-2 L-3"`

	CreatedAt time.Time
}

var eventMessages = map[string]string{
	"DateKey.required": "Date key is required",
	"DateKey.datekey":  "Date key must be YYYY-MM-DD",
	"Type.required":    "Event type is required",
	"Type.oneof":       "Event type must be one of Festival, Sport, Political, Religious, Other",
	"Station.required": "Station name is required",
	"Crowd.min":        "Crowd cannot be negative",
	"Level.required":   "Crowd level is required",
	"Level.oneof":      "Crowd level must be one of L-1, L-2, L-3",
}

// Check records every constraint violation of m on v.
func (m *Event) Check(v *Validator) {
	checkStruct(v, m, eventMessages)
}

// Validate returns a *ValidationError when m violates its constraints.
func (m *Event) Validate() error {
	v := NewValidator()
	m.Check(v)
	return v.Err()
}

// LevelCounts holds the number of events per severity level.
type LevelCounts struct {
	Total   int
	ByLevel map[Level]int
}

// CountByLevel scans events and counts them per level. Every known level is
// present in the result, with zero when no event has it.
func CountByLevel(events []Event) LevelCounts {
	c := LevelCounts{
		Total:   len(events),
		ByLevel: make(map[Level]int, len(Levels())),
	}
	for _, l := range Levels() {
		c.ByLevel[l] = 0
	}
	for _, e := range events {
		if e.Level.Rank() > 0 {
			c.ByLevel[e.Level]++
		}
	}
	return c
}
