package llm

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v2"

	"github.com/thomasfsr/fitgenius/src/fitness"
)

func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

// FunctionParameters converts a generated schema into the map form the chat
// completions API expects for tool parameters.
func FunctionParameters(schema *jsonschema.Schema) (openai.FunctionParameters, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var params openai.FunctionParameters
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	delete(params, "$schema")
	delete(params, "$id")
	return params, nil
}

type BMIArgs struct {
	WeightKg float64 `json:"weight_kg" jsonschema_description:"Weight in kilograms"`
	HeightCm float64 `json:"height_cm" jsonschema_description:"Height in centimeters"`
}

type BodyAnalysisArgs struct {
	ImageData string              `json:"image_data" jsonschema_description:"Base64 encoded body image"`
	MediaType string              `json:"media_type,omitempty" jsonschema:"enum=image/jpeg,enum=image/png,enum=image/webp" jsonschema_description:"Media type of the image, image/jpeg when omitted"`
	UserInfo  fitness.UserProfile `json:"user_info" jsonschema_description:"User demographics and measurements"`
}

type WorkoutArgs struct {
	FitnessLevel       fitness.FitnessLevel `json:"fitness_level" jsonschema:"enum=beginner,enum=intermediate,enum=advanced" jsonschema_description:"beginner, intermediate, or advanced"`
	Goals              []fitness.Goal       `json:"goals,omitempty" jsonschema_description:"List of fitness goals, the first one selects the template"`
	AvailableEquipment []string             `json:"available_equipment,omitempty" jsonschema_description:"Available gym equipment"`
	DaysPerWeek        int                  `json:"days_per_week" jsonschema_description:"Number of workout days"`
	DurationMinutes    int                  `json:"duration_minutes" jsonschema_description:"Session duration in minutes"`
	FocusAreas         []string             `json:"focus_areas,omitempty" jsonschema_description:"Body parts to focus on"`
}

type DietArgs struct {
	Goal                fitness.Goal          `json:"goal" jsonschema:"enum=weight_loss,enum=muscle_gain,enum=maintenance" jsonschema_description:"weight_loss, muscle_gain, or maintenance"`
	CurrentWeight       float64               `json:"current_weight" jsonschema_description:"Current weight in kg"`
	TargetWeight        float64               `json:"target_weight,omitempty" jsonschema_description:"Target weight in kg"`
	ActivityLevel       fitness.ActivityLevel `json:"activity_level" jsonschema:"enum=sedentary,enum=moderate,enum=active,enum=very_active" jsonschema_description:"Activity level"`
	DietaryRestrictions []string              `json:"dietary_restrictions,omitempty" jsonschema_description:"Dietary restrictions"`
	MealsPerDay         int                   `json:"meals_per_day,omitempty" jsonschema_description:"Number of meals per day"`
}

type ProgressArgs struct {
	UserID           string             `json:"user_id" jsonschema_description:"Unique user identifier"`
	Date             string             `json:"date" jsonschema_description:"Date of measurement (YYYY-MM-DD)"`
	Weight           float64            `json:"weight" jsonschema_description:"Current weight in kg"`
	BodyMeasurements map[string]float64 `json:"body_measurements,omitempty" jsonschema_description:"Body measurements in cm keyed by name (waist, chest, arms...)"`
	ProgressImage    string             `json:"progress_image,omitempty" jsonschema_description:"Optional base64 progress photo"`
}

type SearchArgs struct {
	Query    string `json:"query" jsonschema_description:"Search query"`
	Category string `json:"category,omitempty" jsonschema:"enum=nutrition,enum=exercises,enum=supplements,enum=research" jsonschema_description:"Search category"`
}
