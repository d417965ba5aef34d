package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent() *Event {
	return &Event{
		DateKey: "2024-03-01",
		Type:    EventTypeFestival,
		Station: "Central",
		Crowd:   5000,
		Level:   Level2,
	}
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Event)
		details []string
	}{
		{
			name:   "valid event",
			mutate: func(m *Event) {},
		},
		{
			name:   "optional fields may be empty",
			mutate: func(m *Event) { m.Zone = ""; m.Division = "" },
		},
		{
			name:   "zero crowd is accepted",
			mutate: func(m *Event) { m.Crowd = 0 },
		},
		{
			name:    "unknown level",
			mutate:  func(m *Event) { m.Level = "L-4" },
			details: []string{"Crowd level must be one of L-1, L-2, L-3"},
		},
		{
			name:    "lowercase level",
			mutate:  func(m *Event) { m.Level = "l-1" },
			details: []string{"Crowd level must be one of L-1, L-2, L-3"},
		},
		{
			name:    "date key with slashes",
			mutate:  func(m *Event) { m.DateKey = "2024/03/01" },
			details: []string{"Date key must be YYYY-MM-DD"},
		},
		{
			name:    "date key with time suffix",
			mutate:  func(m *Event) { m.DateKey = "2024-03-01T10:00" },
			details: []string{"Date key must be YYYY-MM-DD"},
		},
		{
			name:    "negative crowd",
			mutate:  func(m *Event) { m.Crowd = -1 },
			details: []string{"Crowd cannot be negative"},
		},
		{
			name:    "unknown type",
			mutate:  func(m *Event) { m.Type = "Concert" },
			details: []string{"Event type must be one of Festival, Sport, Political, Religious, Other"},
		},
		{
			name: "failures are ordered presence, format, enumeration",
			mutate: func(m *Event) {
				m.Level = "L-9"
				m.DateKey = "yesterday"
				m.Station = ""
			},
			details: []string{
				"Station name is required",
				"Date key must be YYYY-MM-DD",
				"Crowd level must be one of L-1, L-2, L-3",
			},
		},
		{
			name:   "empty event reports every required field once",
			mutate: func(m *Event) { *m = Event{} },
			details: []string{
				"Date key is required",
				"Event type is required",
				"Station name is required",
				"Crowd level is required",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := validEvent()
			tc.mutate(m)

			err := m.Validate()
			if tc.details == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			verr, ok := err.(*ValidationError)
			require.True(t, ok)
			assert.Equal(t, tc.details, verr.Details)
		})
	}
}

func TestValidatorKeepsFirstMessagePerField(t *testing.T) {
	v := NewValidator()
	v.Required("Crowd", "Crowd estimate is required")
	v.Invalid("Crowd", "Crowd cannot be negative")

	m := validEvent()
	m.Crowd = -5
	m.Check(v)

	err := v.Err()
	require.Error(t, err)
	assert.Equal(t, []string{"Crowd estimate is required"}, err.(*ValidationError).Details)
	assert.True(t, v.Failed("Crowd"))
	assert.False(t, v.Failed("Station"))
}

func TestLevelRank(t *testing.T) {
	assert.Equal(t, 1, Level1.Rank())
	assert.Equal(t, 2, Level2.Rank())
	assert.Equal(t, 3, Level3.Rank())
	assert.Equal(t, 0, Level("L-0").Rank())
	assert.Less(t, Level1.Rank(), Level3.Rank())
}

func TestCountByLevel(t *testing.T) {
	events := []Event{
		{Level: Level1}, {Level: Level3}, {Level: Level3}, {Level: "bogus"},
	}

	c := CountByLevel(events)
	assert.Equal(t, 4, c.Total)
	assert.Equal(t, 1, c.ByLevel[Level1])
	assert.Equal(t, 0, c.ByLevel[Level2])
	assert.Equal(t, 2, c.ByLevel[Level3])

	empty := CountByLevel(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Len(t, empty.ByLevel, 3)
}
