package fitness

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateEnergyTargets_WeightLoss(t *testing.T) {
	got, err := EstimateEnergyTargets(80, ActivityModerate, GoalWeightLoss)
	require.NoError(t, err)

	// 80 × 22 × 1.55 − 500
	assert.InDelta(t, 2228, got.TargetCalories, 0.001)
	assert.InDelta(t, 160, got.ProteinG, 0.001)
	assert.InDelta(t, 2228*0.30/9, got.FatsG, 0.001)
	assert.InDelta(t, (2228-160*4-2228*0.30)/4, got.CarbsG, 0.001)
}

func TestEstimateEnergyTargets_Goals(t *testing.T) {
	cases := []struct {
		goal        Goal
		target      float64
		proteinG    float64
		fatFraction float64
	}{
		{GoalMuscleGain, 80*22*1.55 + 300, 176, 0.25},
		{GoalMaintenance, 80 * 22 * 1.55, 144, 0.30},
		{Goal("recomp"), 80 * 22 * 1.55, 144, 0.30},
	}
	for _, tc := range cases {
		t.Run(string(tc.goal), func(t *testing.T) {
			got, err := EstimateEnergyTargets(80, ActivityModerate, tc.goal)
			require.NoError(t, err)
			assert.InDelta(t, tc.target, got.TargetCalories, 0.001)
			assert.InDelta(t, tc.proteinG, got.ProteinG, 0.001)
			assert.InDelta(t, tc.target*tc.fatFraction/9, got.FatsG, 0.001)
		})
	}
}

func TestActivityMultiplier(t *testing.T) {
	assert.Equal(t, 1.2, ActivityMultiplier(ActivitySedentary))
	assert.Equal(t, 1.725, ActivityMultiplier(ActivityActive))
	assert.Equal(t, 1.9, ActivityMultiplier(ActivityVeryActive))
	assert.Equal(t, 1.55, ActivityMultiplier("couch"))
}

func TestEstimateEnergyTargets_Infeasible(t *testing.T) {
	// 30kg sedentary with a 500 kcal deficit leaves a negative carb budget.
	got, err := EstimateEnergyTargets(30, ActivitySedentary, GoalWeightLoss)
	require.ErrorIs(t, err, ErrInfeasibleTargets)
	assert.Negative(t, got.CarbsG)
	assert.Equal(t, "InfeasibleTargets", KindOf(err))
}

func TestEstimateEnergyTargets_InvalidWeight(t *testing.T) {
	for _, w := range []float64{0, -70, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := EstimateEnergyTargets(w, ActivityModerate, GoalMaintenance)
		require.ErrorIs(t, err, ErrInvalidInput, "weight %v", w)
	}
}
