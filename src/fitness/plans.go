package fitness

import (
	"fmt"
	"slices"
)

var workoutTips = []string{
	"Always warm up for 5-10 minutes before starting",
	"Focus on proper form over heavy weights",
	"Rest 60-90 seconds between sets",
	"Cool down and stretch after each session",
	"Increase weights by 5-10% when you can complete all sets with good form",
}

var dietTips = []string{
	"Eat protein with every meal",
	"Include vegetables in lunch and dinner",
	"Prepare meals in advance",
	"Track your food intake for first 2 weeks",
	"Adjust portions based on weekly progress",
}

var suggestedSupplements = []string{
	"Multivitamin",
	"Omega-3 Fish Oil",
	"Vitamin D3",
	"Whey Protein (if needed to hit protein goals)",
}

type WorkoutPlan struct {
	Plan               []WorkoutDay `json:"plan"`
	DurationPerSession string       `json:"duration_per_session"`
	FitnessLevel       FitnessLevel `json:"fitness_level"`
	Goals              []Goal       `json:"goals"`
	Tips               []string     `json:"tips"`
}

// SelectWorkoutPlan picks the template for the first goal (muscle gain when
// goals is empty) and keeps at most daysPerWeek days in template order.
// A template shorter than daysPerWeek is returned whole, never repeated.
func SelectWorkoutPlan(level FitnessLevel, goals []Goal, daysPerWeek, durationMinutes int) (WorkoutPlan, error) {
	const op = "select workout plan"
	if daysPerWeek < 1 {
		return WorkoutPlan{}, InvalidInput(op, "days_per_week must be at least 1, got %d", daysPerWeek)
	}
	if durationMinutes < 1 {
		return WorkoutPlan{}, InvalidInput(op, "duration_minutes must be at least 1, got %d", durationMinutes)
	}

	primary := GoalMuscleGain
	if len(goals) > 0 {
		primary = goals[0]
	}
	days, err := LookupWorkoutTemplate(level, primary)
	if err != nil {
		return WorkoutPlan{}, err
	}
	if len(days) > daysPerWeek {
		days = days[:daysPerWeek]
	}

	return WorkoutPlan{
		Plan:               days,
		DurationPerSession: fmt.Sprintf("%d minutes", durationMinutes),
		FitnessLevel:       level,
		Goals:              slices.Clone(goals),
		Tips:               slices.Clone(workoutTips),
	}, nil
}

type DietPlan struct {
	Goal        Goal     `json:"goal"`
	MealsPerDay int      `json:"meals_per_day"`
	MealPlan    []Meal   `json:"meal_plan"`
	Tips        []string `json:"tips"`
	Supplements []string `json:"supplements_suggested"`
}

// SelectDietPlan returns the example meals for goal. mealsPerDay is echoed
// back and does not filter the template.
func SelectDietPlan(goal Goal, mealsPerDay int) DietPlan {
	meals, _ := LookupDietTemplate(goal)
	return DietPlan{
		Goal:        goal,
		MealsPerDay: mealsPerDay,
		MealPlan:    meals,
		Tips:        slices.Clone(dietTips),
		Supplements: slices.Clone(suggestedSupplements),
	}
}
