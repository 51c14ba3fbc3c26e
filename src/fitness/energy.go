package fitness

import "math"

const (
	// baselineKcalPerKg stands in for a full BMR equation. It ignores age,
	// sex and height, so targets are coarse.
	baselineKcalPerKg = 22.0

	defaultActivityMultiplier = 1.55

	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
	kcalPerGramFat     = 9.0
)

// activityMultipliers maps an activity level to its TDEE multiplier.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// EnergyTargets are unrounded daily targets; callers round for display.
type EnergyTargets struct {
	BaselineCalories float64 `json:"baseline_calories"`
	TDEE             float64 `json:"tdee"`
	TargetCalories   float64 `json:"target_calories"`
	ProteinG         float64 `json:"protein_g"`
	CarbsG           float64 `json:"carbs_g"`
	FatsG            float64 `json:"fats_g"`
}

// ActivityMultiplier returns the multiplier for level, defaulting to
// moderate for unknown levels.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return defaultActivityMultiplier
}

// EstimateEnergyTargets derives calorie and macro targets from body weight,
// activity level and goal. Unrecognized goals use the maintenance profile.
func EstimateEnergyTargets(weightKg float64, level ActivityLevel, goal Goal) (EnergyTargets, error) {
	const op = "estimate energy targets"
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return EnergyTargets{}, InvalidInput(op, "weight must be positive, got %v", weightKg)
	}

	profile := macroProfileFor(goal)
	baseline := weightKg * baselineKcalPerKg
	tdee := baseline * ActivityMultiplier(level)
	target := tdee + profile.CalorieDelta

	proteinG := weightKg * profile.ProteinPerKg
	proteinKcal := proteinG * kcalPerGramProtein
	fatKcal := target * profile.FatShare
	carbKcal := target - proteinKcal - fatKcal

	t := EnergyTargets{
		BaselineCalories: baseline,
		TDEE:             tdee,
		TargetCalories:   target,
		ProteinG:         proteinG,
		CarbsG:           carbKcal / kcalPerGramCarb,
		FatsG:            fatKcal / kcalPerGramFat,
	}
	if t.TargetCalories <= 0 || t.CarbsG < 0 {
		return t, &Error{
			Kind: ErrInfeasibleTargets,
			Op:   op,
			Msg:  "protein and fat targets exceed the calorie budget for this weight and goal",
		}
	}
	return t, nil
}
