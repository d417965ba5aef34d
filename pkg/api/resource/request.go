package resource

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/nsyszr/rcm/pkg/model"
	"github.com/pkg/errors"
)

// EventRequest is the body of a create event request.
type EventRequest struct {
	DateKey  Text   `json:"dateKey"`
	Type     Text   `json:"type"`
	Station  Text   `json:"station"`
	Zone     Text   `json:"zone"`
	Division Text   `json:"division"`
	Crowd    Number `json:"crowd"`
	Level    Text   `json:"level"`
}

// PlanRequest is the body of a create plan request.
type PlanRequest struct {
	DateKey         Text   `json:"dateKey"`
	StationName     Text   `json:"stationName"`
	ExpectedCrowd   Number `json:"expectedCrowd"`
	GRPStaff        Number `json:"grpStaff"`
	RPFStaff        Number `json:"rpfStaff"`
	CommercialStaff Number `json:"commercialStaff"`
	TrainNumber     Text   `json:"trainNumber"`
	TrainType       Text   `json:"trainType"`
	TrainRoute      Text   `json:"trainRoute"`
}

const errNotObject = "Request body must be a JSON object"

// DecodeBody reads a JSON object from r into out. An empty body decodes as
// an empty object. Anything but an object yields a *model.ValidationError.
func DecodeBody(r io.Reader, out interface{}) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}
	if !strings.HasPrefix(trimmed, "{") {
		return &model.ValidationError{Details: []string{errNotObject}}
	}
	if err := json.Unmarshal([]byte(trimmed), out); err != nil {
		return &model.ValidationError{Details: []string{errNotObject}}
	}
	return nil
}

// ValidateEvent converts r into an event, or returns a *model.ValidationError
// listing every failing field.
func ValidateEvent(r *EventRequest) (*model.Event, error) {
	v := model.NewValidator()

	checkText(v, "DateKey", "Date key", r.DateKey)
	checkText(v, "Type", "Event type", r.Type)
	checkText(v, "Station", "Station name", r.Station)
	checkText(v, "Zone", "Zone", r.Zone)
	checkText(v, "Division", "Division", r.Division)
	checkText(v, "Level", "Crowd level", r.Level)

	m := &model.Event{
		DateKey:  r.DateKey.Value,
		Type:     model.EventType(r.Type.Value),
		Station:  r.Station.Value,
		Zone:     r.Zone.Value,
		Division: r.Division.Value,
		Crowd:    intValue(r.Crowd),
		Level:    model.Level(r.Level.Value),
	}
	m.Check(v)

	checkNumber(v, "Crowd", "Crowd estimate", r.Crowd, true)

	if err := v.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// ValidatePlan converts r into a plan, or returns a *model.ValidationError
// listing every failing field. Staff counts default to zero.
func ValidatePlan(r *PlanRequest) (*model.Plan, error) {
	v := model.NewValidator()

	checkText(v, "DateKey", "Date key", r.DateKey)
	checkText(v, "StationName", "Station name", r.StationName)
	checkText(v, "TrainNumber", "Train number", r.TrainNumber)
	checkText(v, "TrainType", "Train type", r.TrainType)
	checkText(v, "TrainRoute", "Train route", r.TrainRoute)

	m := &model.Plan{
		DateKey:         r.DateKey.Value,
		StationName:     r.StationName.Value,
		ExpectedCrowd:   intValue(r.ExpectedCrowd),
		GRPStaff:        intValue(r.GRPStaff),
		RPFStaff:        intValue(r.RPFStaff),
		CommercialStaff: intValue(r.CommercialStaff),
		TrainNumber:     r.TrainNumber.Value,
		TrainType:       r.TrainType.Value,
		TrainRoute:      r.TrainRoute.Value,
	}
	m.Check(v)

	checkNumber(v, "ExpectedCrowd", "Expected crowd", r.ExpectedCrowd, true)
	checkNumber(v, "GRPStaff", "Staff count", r.GRPStaff, false)
	checkNumber(v, "RPFStaff", "Staff count", r.RPFStaff, false)
	checkNumber(v, "CommercialStaff", "Staff count", r.CommercialStaff, false)

	if err := v.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func checkText(v *model.Validator, field, label string, t Text) {
	if t.Invalid {
		v.Invalid(field, label+" must be text")
	}
}

// checkNumber records presence and cast failures of n. Range checks are
// left to the model.
func checkNumber(v *model.Validator, field, label string, n Number, required bool) {
	switch {
	case !n.Present:
		if required {
			v.Required(field, label+" is required")
		}
	case n.Invalid:
		v.Invalid(field, label+" must be a number")
	default:
		if _, ok := n.Int(); !ok {
			v.Invalid(field, label+" must be a whole number")
		}
	}
}

func intValue(n Number) int {
	i, _ := n.Int()
	return i
}
