package resource

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxExactInt is the largest integer a JSON number carries without loss.
const maxExactInt = 1 << 53

// Number is a leniently decoded JSON number. It accepts numbers, numeric
// strings and null, and never fails the surrounding decode: a value that
// cannot be cast is remembered instead.
type Number struct {
	// Present is false when the key was missing, null or an empty string.
	Present bool
	// Invalid is true when a present value could not be cast to a number.
	Invalid bool
	Value   float64
}

func (n *Number) UnmarshalJSON(b []byte) error {
	*n = Number{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			n.Present, n.Invalid = true, true
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		n.Present = true
		n.Value, n.Invalid = parseFloat(s)
	case 't', 'f':
		// Booleans cast to 1 and 0.
		n.Present = true
		if b[0] == 't' {
			n.Value = 1
		}
	case '[', '{':
		n.Present, n.Invalid = true, true
	default:
		n.Present = true
		n.Value, n.Invalid = parseFloat(string(b))
	}
	return nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true
	}
	return f, false
}

// Int returns the value as an int and whether it is a whole number within
// the exactly representable range.
func (n Number) Int() (int, bool) {
	if n.Value != math.Trunc(n.Value) || math.Abs(n.Value) > maxExactInt {
		return 0, false
	}
	return int(n.Value), true
}

// Text is a leniently decoded JSON string. Numbers and booleans are kept in
// their literal form, null counts as absent, arrays and objects are invalid.
type Text struct {
	Invalid bool
	Value   string
}

func (t *Text) UnmarshalJSON(b []byte) error {
	*t = Text{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	switch b[0] {
	case '"':
		if err := json.Unmarshal(b, &t.Value); err != nil {
			t.Invalid = true
		}
	case '[', '{':
		t.Invalid = true
	default:
		t.Value = string(b)
	}
	return nil
}
