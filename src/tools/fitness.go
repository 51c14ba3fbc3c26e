package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/thomasfsr/fitgenius/src/blob"
	"github.com/thomasfsr/fitgenius/src/fitness"
	"github.com/thomasfsr/fitgenius/src/llm"
	"github.com/thomasfsr/fitgenius/src/search"
)

// ImageAnalyzer is the vision model collaborator.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, prompt, mediaType, imageB64 string) (string, error)
}

// Deps are the collaborators the tools are built on. Vision and Objects may
// be nil.
type Deps struct {
	Tracker  *fitness.Tracker
	Vision   ImageAnalyzer
	Objects  blob.Store
	Searcher search.Searcher
	Now      func() time.Time
}

// RegisterAll adds the six fitness tools to r.
func RegisterAll(r *Registry, d Deps) error {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Searcher == nil {
		d.Searcher = search.Stub{}
	}
	for _, t := range []Tool{
		New("bmi_calculator", "Calculate BMI and determine health category", bmiCalculator),
		New("body_analyzer", "Analyze body composition from image using AI vision", d.bodyAnalyzer),
		New("workout_planner", "Generate personalized workout plans based on goals and fitness level", workoutPlanner),
		New("diet_planner", "Generate personalized diet and nutrition plans", dietPlanner),
		New("progress_tracker", "Track daily progress with measurements and images", d.progressTracker),
		New("fitness_search", "Search for fitness information, exercises, nutrition data", d.fitnessSearch),
	} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}

func bmiCalculator(_ context.Context, a llm.BMIArgs) (any, error) {
	return fitness.ComputeBMI(a.WeightKg, a.HeightCm)
}

type BodyAnalysis struct {
	Analysis  string              `json:"analysis"`
	Timestamp time.Time           `json:"timestamp"`
	UserInfo  fitness.UserProfile `json:"user_info"`
	ImageKey  string              `json:"image_key,omitempty"`
}

func (d Deps) bodyAnalyzer(ctx context.Context, a llm.BodyAnalysisArgs) (any, error) {
	const op = "body_analyzer"
	data, b64, mediaType, err := llm.DecodeImage(a.ImageData)
	if err != nil {
		return nil, err
	}
	mediaType = firstNonEmpty(a.MediaType, mediaType, "image/jpeg")
	if d.Vision == nil {
		return nil, fitness.Upstream(op, errors.New("no vision model configured"))
	}

	analysis, err := d.Vision.Analyze(ctx, llm.BodyAnalysisPrompt(a.UserInfo), mediaType, b64)
	if err != nil {
		return nil, fitness.Upstream(op, err)
	}

	var key string
	if d.Objects != nil {
		key = blob.NewKey("body", "", mediaType)
		if err := d.Objects.Put(ctx, key, mediaType, data); err != nil {
			return nil, fitness.Upstream(op, err)
		}
	}
	return BodyAnalysis{
		Analysis:  analysis,
		Timestamp: d.Now().UTC(),
		UserInfo:  a.UserInfo,
		ImageKey:  key,
	}, nil
}

type WorkoutPlanResult struct {
	fitness.WorkoutPlan
	AvailableEquipment []string `json:"available_equipment,omitempty"`
	FocusAreas         []string `json:"focus_areas,omitempty"`
}

func workoutPlanner(_ context.Context, a llm.WorkoutArgs) (any, error) {
	level := fitness.FitnessLevel(strings.ToLower(strings.TrimSpace(string(a.FitnessLevel))))
	plan, err := fitness.SelectWorkoutPlan(level, a.Goals, a.DaysPerWeek, a.DurationMinutes)
	if err != nil {
		return nil, err
	}
	return WorkoutPlanResult{
		WorkoutPlan:        plan,
		AvailableEquipment: a.AvailableEquipment,
		FocusAreas:         a.FocusAreas,
	}, nil
}

type Macros struct {
	ProteinG int `json:"protein_g"`
	CarbsG   int `json:"carbs_g"`
	FatsG    int `json:"fats_g"`
}

type DietPlanResult struct {
	DailyCalories       int            `json:"daily_calories"`
	Macros              Macros         `json:"macros"`
	MealPlan            []fitness.Meal `json:"meal_plan"`
	Hydration           string         `json:"hydration"`
	Tips                []string       `json:"tips"`
	Supplements         []string       `json:"supplements_suggested"`
	Goal                fitness.Goal   `json:"goal"`
	MealsPerDay         int            `json:"meals_per_day,omitempty"`
	TargetWeight        float64        `json:"target_weight,omitempty"`
	DietaryRestrictions []string       `json:"dietary_restrictions,omitempty"`
}

func dietPlanner(_ context.Context, a llm.DietArgs) (any, error) {
	if a.MealsPerDay < 0 {
		return nil, fitness.InvalidInput("diet_planner", "meals_per_day must not be negative, got %d", a.MealsPerDay)
	}
	targets, err := fitness.EstimateEnergyTargets(a.CurrentWeight, a.ActivityLevel, a.Goal)
	if err != nil {
		return nil, err
	}
	plan := fitness.SelectDietPlan(a.Goal, a.MealsPerDay)
	return DietPlanResult{
		DailyCalories: int(math.Round(targets.TargetCalories)),
		Macros: Macros{
			ProteinG: int(math.Round(targets.ProteinG)),
			CarbsG:   int(math.Round(targets.CarbsG)),
			FatsG:    int(math.Round(targets.FatsG)),
		},
		MealPlan:            plan.MealPlan,
		Hydration:           fmt.Sprintf("Drink at least %.1f liters of water daily", fitness.HydrationLiters(a.CurrentWeight)),
		Tips:                plan.Tips,
		Supplements:         plan.Supplements,
		Goal:                plan.Goal,
		MealsPerDay:         plan.MealsPerDay,
		TargetWeight:        a.TargetWeight,
		DietaryRestrictions: a.DietaryRestrictions,
	}, nil
}

func (d Deps) progressTracker(ctx context.Context, a llm.ProgressArgs) (any, error) {
	const op = "progress_tracker"
	if d.Tracker == nil {
		return nil, fitness.Upstream(op, errors.New("no progress store configured"))
	}
	in := fitness.ProgressInput{
		UserID:       a.UserID,
		Date:         a.Date,
		Weight:       a.Weight,
		Measurements: a.BodyMeasurements,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if a.ProgressImage != "" {
		data, _, mediaType, err := llm.DecodeImage(a.ProgressImage)
		if err != nil {
			return nil, err
		}
		if d.Objects != nil {
			mediaType = firstNonEmpty(mediaType, "image/jpeg")
			in.ImageKey = blob.NewKey("progress", a.UserID, mediaType)
			if err := d.Objects.Put(ctx, in.ImageKey, mediaType, data); err != nil {
				return nil, fitness.Upstream(op, err)
			}
		}
	}

	rec, err := d.Tracker.Record(ctx, in)
	if err != nil {
		// no record points at the photo
		if in.ImageKey != "" {
			_ = d.Objects.Delete(context.WithoutCancel(ctx), in.ImageKey)
		}
		return nil, err
	}
	return d.Tracker.Report(ctx, rec)
}

func (d Deps) fitnessSearch(ctx context.Context, a llm.SearchArgs) (any, error) {
	if strings.TrimSpace(a.Query) == "" {
		return nil, fitness.InvalidInput("fitness_search", "query is required")
	}
	res, err := d.Searcher.Search(ctx, a.Query, a.Category)
	if err != nil {
		return nil, fitness.Upstream("fitness_search", err)
	}
	return res, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
