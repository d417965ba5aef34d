package model

import "time"

// Plan is a staffing and crowd-expectation record for a station.
type Plan struct {
	ID              string
	DateKey         string `validate:"required"`
	StationName     string `validate:"required"`
	ExpectedCrowd   int    `validate:"min=0"`
	GRPStaff        int    `validate:"min=0"`
	RPFStaff        int    `validate:"min=0"`
	CommercialStaff int    `validate:"min=0"`
	TrainNumber     string
	TrainType       string
	TrainRoute      string

	CreatedAt time.Time
}

var planMessages = map[string]string{
	"DateKey.required":     "Date key is required",
	"StationName.required": "Station name is required",
	"ExpectedCrowd.min":    "Expected crowd cannot be negative",
	"GRPStaff.min":         "Staff count cannot be negative",
	"RPFStaff.min":         "Staff count cannot be negative",
	"CommercialStaff.min":  "Staff count cannot be negative",
}

// Check records every constraint violation of m on v.
func (m *Plan) Check(v *Validator) {
	checkStruct(v, m, planMessages)
}

// Validate returns a *ValidationError when m violates its constraints.
func (m *Plan) Validate() error {
	v := NewValidator()
	m.Check(v)
	return v.Err()
}
