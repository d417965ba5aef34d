package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		details []string
	}{
		{
			name: "zero expected crowd is accepted",
			plan: Plan{DateKey: "2024-03-01", StationName: "Central", ExpectedCrowd: 0},
		},
		{
			name: "date key is free text",
			plan: Plan{DateKey: "next monday", StationName: "Central", ExpectedCrowd: 10},
		},
		{
			name:    "negative expected crowd",
			plan:    Plan{DateKey: "2024-03-01", StationName: "Central", ExpectedCrowd: -1},
			details: []string{"Expected crowd cannot be negative"},
		},
		{
			name: "negative staff counts",
			plan: Plan{DateKey: "2024-03-01", StationName: "Central", GRPStaff: -1, CommercialStaff: -3},
			details: []string{
				"Staff count cannot be negative",
				"Staff count cannot be negative",
			},
		},
		{
			name: "missing required text",
			plan: Plan{ExpectedCrowd: -2},
			details: []string{
				"Date key is required",
				"Station name is required",
				"Expected crowd cannot be negative",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.plan.Validate()
			if tc.details == nil {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tc.details, err.(*ValidationError).Details)
		})
	}
}
