package fitness

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Exercise is one prescription: sets×reps, a duration, or sets of a duration.
type Exercise struct {
	Name     string `json:"name"`
	Sets     int    `json:"sets,omitempty"`
	Reps     string `json:"reps,omitempty"`
	Duration string `json:"duration,omitempty"`
}

type WorkoutDay struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
}

type templateKey struct {
	level FitnessLevel
	goal  Goal
}

func reps(name string, sets int, r string) Exercise { return Exercise{Name: name, Sets: sets, Reps: r} }

func timed(name string, sets int, d string) Exercise {
	return Exercise{Name: name, Sets: sets, Duration: d}
}

// workoutTemplates covers a curated subset of (level, goal) pairs. Absent
// pairs are reported by LookupWorkoutTemplate, never filled with a default.
var workoutTemplates = map[templateKey][]WorkoutDay{
	{LevelBeginner, GoalWeightLoss}: {
		{Day: "Monday", Focus: "Full Body", Exercises: []Exercise{
			reps("Bodyweight Squats", 3, "12"),
			reps("Push-ups (modified)", 3, "8-10"),
			reps("Lunges", 3, "10 each leg"),
			timed("Plank", 3, "30 seconds"),
			reps("Jumping Jacks", 3, "20"),
		}},
		{Day: "Wednesday", Focus: "Cardio & Core", Exercises: []Exercise{
			timed("Brisk Walking", 0, "20 minutes"),
			reps("Mountain Climbers", 3, "15"),
			reps("Bicycle Crunches", 3, "15"),
			reps("Burpees", 3, "8"),
			reps("Leg Raises", 3, "12"),
		}},
		{Day: "Friday", Focus: "Full Body", Exercises: []Exercise{
			reps("Bodyweight Squats", 3, "15"),
			reps("Incline Push-ups", 3, "10"),
			reps("Step-ups", 3, "12 each leg"),
			timed("Side Plank", 3, "20s each side"),
			timed("High Knees", 3, "30 seconds"),
		}},
	},
	{LevelBeginner, GoalMuscleGain}: {
		{Day: "Monday", Focus: "Upper Body", Exercises: []Exercise{
			reps("Push-ups", 4, "8-12"),
			reps("Dumbbell Rows", 4, "10"),
			reps("Shoulder Press", 3, "10"),
			reps("Bicep Curls", 3, "12"),
			reps("Tricep Dips", 3, "10"),
		}},
		{Day: "Wednesday", Focus: "Lower Body", Exercises: []Exercise{
			reps("Goblet Squats", 4, "10"),
			reps("Romanian Deadlifts", 4, "10"),
			reps("Lunges", 3, "12 each"),
			reps("Calf Raises", 4, "15"),
			reps("Glute Bridges", 3, "15"),
		}},
		{Day: "Friday", Focus: "Full Body", Exercises: []Exercise{
			reps("Squats", 4, "10"),
			reps("Push-ups", 4, "10"),
			reps("Bent Over Rows", 4, "10"),
			reps("Overhead Press", 3, "10"),
			timed("Planks", 3, "45s"),
		}},
	},
	{LevelIntermediate, GoalMuscleGain}: {
		{Day: "Monday", Focus: "Chest & Triceps", Exercises: []Exercise{
			reps("Barbell Bench Press", 4, "8-10"),
			reps("Incline Dumbbell Press", 3, "10"),
			reps("Cable Flyes", 3, "12"),
			reps("Tricep Pushdowns", 4, "12"),
			reps("Overhead Tricep Extension", 3, "12"),
		}},
		{Day: "Tuesday", Focus: "Back & Biceps", Exercises: []Exercise{
			reps("Pull-ups", 4, "6-8"),
			reps("Barbell Rows", 4, "8"),
			reps("Lat Pulldowns", 3, "10"),
			reps("Barbell Curls", 4, "10"),
			reps("Hammer Curls", 3, "12"),
		}},
		{Day: "Thursday", Focus: "Legs", Exercises: []Exercise{
			reps("Back Squats", 4, "8"),
			reps("Leg Press", 4, "12"),
			reps("Romanian Deadlifts", 3, "10"),
			reps("Leg Curls", 3, "12"),
			reps("Leg Extensions", 3, "15"),
		}},
		{Day: "Friday", Focus: "Shoulders & Arms", Exercises: []Exercise{
			reps("Military Press", 4, "8"),
			reps("Lateral Raises", 4, "12"),
			reps("Face Pulls", 3, "15"),
			reps("Barbell Curls", 3, "10"),
			reps("Close-Grip Bench", 3, "10"),
		}},
	},
}

// LookupWorkoutTemplate returns a copy of the template for (level, goal).
func LookupWorkoutTemplate(level FitnessLevel, goal Goal) ([]WorkoutDay, error) {
	days, ok := workoutTemplates[templateKey{level, goal}]
	if !ok {
		return nil, &Error{
			Kind: ErrTemplateNotFound,
			Op:   "lookup workout template",
			Msg:  fmt.Sprintf("no workout template for level %q and goal %q (available: %s)", level, goal, availableTemplates()),
		}
	}
	out := make([]WorkoutDay, len(days))
	for i, d := range days {
		d.Exercises = slices.Clone(d.Exercises)
		out[i] = d
	}
	return out, nil
}

// WorkoutTemplateKeys lists the (level, goal) pairs that have a template.
func WorkoutTemplateKeys() [][2]string {
	keys := make([][2]string, 0, len(workoutTemplates))
	for k := range workoutTemplates {
		keys = append(keys, [2]string{string(k.level), string(k.goal)})
	}
	slices.SortFunc(keys, func(a, b [2]string) int {
		return cmp.Or(cmp.Compare(a[0], b[0]), cmp.Compare(a[1], b[1]))
	})
	return keys
}

func availableTemplates() string {
	pairs := make([]string, 0, len(workoutTemplates))
	for _, k := range WorkoutTemplateKeys() {
		pairs = append(pairs, k[0]+"/"+k[1])
	}
	return strings.Join(pairs, ", ")
}

type Meal struct {
	Label    string `json:"label"`
	Items    string `json:"items"`
	Calories int    `json:"calories"`
	ProteinG int    `json:"protein_g"`
}

// macroProfile is the calorie adjustment and macro split for a goal.
type macroProfile struct {
	CalorieDelta float64
	ProteinPerKg float64
	CarbShare    float64
	FatShare     float64
}

var macroProfiles = map[Goal]macroProfile{
	GoalWeightLoss:  {CalorieDelta: -500, ProteinPerKg: 2.0, CarbShare: 0.30, FatShare: 0.30},
	GoalMuscleGain:  {CalorieDelta: 300, ProteinPerKg: 2.2, CarbShare: 0.40, FatShare: 0.25},
	GoalMaintenance: {CalorieDelta: 0, ProteinPerKg: 1.8, CarbShare: 0.35, FatShare: 0.30},
}

func macroProfileFor(goal Goal) macroProfile {
	if p, ok := macroProfiles[goal]; ok {
		return p
	}
	return macroProfiles[GoalMaintenance]
}

var mealTemplates = map[Goal][]Meal{
	GoalWeightLoss: {
		{Label: "breakfast", Items: "Oatmeal with berries and protein powder", Calories: 350, ProteinG: 25},
		{Label: "snack1", Items: "Greek yogurt with almonds", Calories: 200, ProteinG: 15},
		{Label: "lunch", Items: "Grilled chicken salad with olive oil dressing", Calories: 450, ProteinG: 40},
		{Label: "snack2", Items: "Apple with peanut butter", Calories: 180, ProteinG: 5},
		{Label: "dinner", Items: "Baked salmon with roasted vegetables", Calories: 500, ProteinG: 38},
	},
	GoalMuscleGain: {
		{Label: "breakfast", Items: "Scrambled eggs with whole grain toast and avocado", Calories: 550, ProteinG: 30},
		{Label: "snack1", Items: "Protein shake with banana", Calories: 300, ProteinG: 30},
		{Label: "lunch", Items: "Chicken breast with brown rice and broccoli", Calories: 650, ProteinG: 50},
		{Label: "snack2", Items: "Trail mix with dried fruits", Calories: 250, ProteinG: 7},
		{Label: "dinner", Items: "Lean beef with sweet potato and green beans", Calories: 700, ProteinG: 48},
		{Label: "snack3", Items: "Cottage cheese with berries", Calories: 200, ProteinG: 24},
	},
	GoalMaintenance: {
		{Label: "breakfast", Items: "Greek yogurt parfait with granola and fruit", Calories: 450, ProteinG: 25},
		{Label: "lunch", Items: "Turkey and hummus whole wheat wrap with side salad", Calories: 600, ProteinG: 38},
		{Label: "snack", Items: "Hard-boiled eggs with carrot sticks", Calories: 200, ProteinG: 13},
		{Label: "dinner", Items: "Shrimp stir-fry with jasmine rice and mixed vegetables", Calories: 650, ProteinG: 40},
	},
}

// LookupDietTemplate returns a copy of the meal sequence for goal. Unknown
// goals get the weight-loss meals; the bool reports whether goal matched.
func LookupDietTemplate(goal Goal) ([]Meal, bool) {
	meals, ok := mealTemplates[goal]
	if !ok {
		meals = mealTemplates[GoalWeightLoss]
	}
	return slices.Clone(meals), ok
}
