package resource

import (
	"time"

	"github.com/nsyszr/rcm/pkg/model"
)

type PlanResource struct {
	ID              string    `json:"_id"`
	DateKey         string    `json:"dateKey"`
	StationName     string    `json:"stationName"`
	ExpectedCrowd   int       `json:"expectedCrowd"`
	GRPStaff        int       `json:"grpStaff"`
	RPFStaff        int       `json:"rpfStaff"`
	CommercialStaff int       `json:"commercialStaff"`
	TrainNumber     string    `json:"trainNumber,omitempty"`
	TrainType       string    `json:"trainType,omitempty"`
	TrainRoute      string    `json:"trainRoute,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	Version         int       `json:"__v"`
}

func NewPlan(m *model.Plan) *PlanResource {
	return &PlanResource{
		ID:              m.ID,
		DateKey:         m.DateKey,
		StationName:     m.StationName,
		ExpectedCrowd:   m.ExpectedCrowd,
		GRPStaff:        m.GRPStaff,
		RPFStaff:        m.RPFStaff,
		CommercialStaff: m.CommercialStaff,
		TrainNumber:     m.TrainNumber,
		TrainType:       m.TrainType,
		TrainRoute:      m.TrainRoute,
		CreatedAt:       m.CreatedAt.UTC().Truncate(time.Millisecond),
	}
}

// NewPlanList keeps the order of m, which the store returns newest first.
func NewPlanList(m []model.Plan) []*PlanResource {
	out := make([]*PlanResource, 0, len(m))
	for i := range m {
		out = append(out, NewPlan(&m[i]))
	}
	return out
}
