package rehab_test

import (
	"testing"

	"github.com/2beens/kneerehab/internal/rehab"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkoutSettings_Validate(t *testing.T) {
	require.NoError(t, rehab.DefaultSettings().Validate())
	assert.Equal(t, rehab.WorkoutSettings{HoldSecs: 45, RestSecs: 60, TotalSets: 4}, rehab.DefaultSettings())

	invalid := []rehab.WorkoutSettings{
		{HoldSecs: 0, RestSecs: 60, TotalSets: 4},
		{HoldSecs: 601, RestSecs: 60, TotalSets: 4},
		{HoldSecs: 45, RestSecs: -1, TotalSets: 4},
		{HoldSecs: 45, RestSecs: 601, TotalSets: 4},
		{HoldSecs: 45, RestSecs: 60, TotalSets: 0},
		{HoldSecs: 45, RestSecs: 60, TotalSets: 11},
	}
	for _, s := range invalid {
		assert.ErrorIs(t, s.Validate(), rehab.ErrInvalidSettings, "%+v", s)
	}

	require.NoError(t, rehab.WorkoutSettings{HoldSecs: 600, RestSecs: 1, TotalSets: 10}.Validate())
}
