package resource

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Number
		wantInt int
		whole   bool
	}{
		{"missing", `{}`, Number{}, 0, true},
		{"null", `{"n":null}`, Number{}, 0, true},
		{"empty string", `{"n":" "}`, Number{}, 0, true},
		{"integer", `{"n":5000}`, Number{Present: true, Value: 5000}, 5000, true},
		{"negative", `{"n":-3}`, Number{Present: true, Value: -3}, -3, true},
		{"numeric string", `{"n":"42"}`, Number{Present: true, Value: 42}, 42, true},
		{"fraction", `{"n":1.5}`, Number{Present: true, Value: 1.5}, 0, false},
		{"word", `{"n":"many"}`, Number{Present: true, Invalid: true}, 0, true},
		{"object", `{"n":{"a":1}}`, Number{Present: true, Invalid: true}, 0, true},
		{"true", `{"n":true}`, Number{Present: true, Value: 1}, 1, true},
		{"huge", `{"n":1e300}`, Number{Present: true, Value: 1e300}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out struct {
				N Number `json:"n"`
			}
			require.NoError(t, json.Unmarshal([]byte(tt.in), &out))
			assert.Equal(t, tt.want, out.N)

			i, ok := out.N.Int()
			assert.Equal(t, tt.whole, ok)
			assert.Equal(t, tt.wantInt, i)
		})
	}
}

func TestTextUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want Text
	}{
		{`{}`, Text{}},
		{`{"s":null}`, Text{}},
		{`{"s":"Central"}`, Text{Value: "Central"}},
		{`{"s":12}`, Text{Value: "12"}},
		{`{"s":false}`, Text{Value: "false"}},
		{`{"s":["a"]}`, Text{Invalid: true}},
	}

	for _, tt := range tests {
		var out struct {
			S Text `json:"s"`
		}
		require.NoError(t, json.Unmarshal([]byte(tt.in), &out), tt.in)
		assert.Equal(t, tt.want, out.S, tt.in)
	}
}
