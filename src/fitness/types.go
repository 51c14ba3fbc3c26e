// Package fitness holds the deterministic coaching core: body metrics,
// energy targets, static workout and diet templates, and progress analysis.
package fitness

type Goal string

const (
	GoalWeightLoss  Goal = "weight_loss"
	GoalMuscleGain  Goal = "muscle_gain"
	GoalMaintenance Goal = "maintenance"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// UserProfile is the demographic context a caller supplies with a request.
type UserProfile struct {
	Age           int           `json:"age,omitempty"`
	Sex           string        `json:"gender,omitempty"`
	HeightCm      float64       `json:"height_cm,omitempty"`
	WeightKg      float64       `json:"weight_kg,omitempty"`
	Goal          Goal          `json:"goal,omitempty"`
	ActivityLevel ActivityLevel `json:"activity_level,omitempty"`
}
