package fitness

import "math"

// BMI category thresholds; intervals are closed-open.
const (
	bmiUnderweight = 18.5
	bmiOverweight  = 25.0
	bmiObese       = 30.0

	idealBMIMin = 18.5
	idealBMIMax = 24.9
)

type WeightRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type MetricResult struct {
	BMI              float64     `json:"bmi"`
	Category         string      `json:"category"`
	HealthRisk       string      `json:"health_risk"`
	IdealWeightRange WeightRange `json:"ideal_weight_range"`
}

// ComputeBMI returns the body mass index with its category, health risk and
// the weight range that maps to a normal BMI at the given height.
func ComputeBMI(weightKg, heightCm float64) (MetricResult, error) {
	if weightKg <= 0 || math.IsNaN(weightKg) || math.IsInf(weightKg, 0) {
		return MetricResult{}, InvalidInput("compute bmi", "weight_kg must be positive, got %v", weightKg)
	}
	if heightCm <= 0 || math.IsNaN(heightCm) || math.IsInf(heightCm, 0) {
		return MetricResult{}, InvalidInput("compute bmi", "height_cm must be positive, got %v", heightCm)
	}

	heightM := heightCm / 100
	bmi := weightKg / (heightM * heightM)
	category, risk := bmiCategory(bmi)

	return MetricResult{
		BMI:        round(bmi, 2),
		Category:   category,
		HealthRisk: risk,
		IdealWeightRange: WeightRange{
			Min: round(idealBMIMin*heightM*heightM, 1),
			Max: round(idealBMIMax*heightM*heightM, 1),
		},
	}, nil
}

// bmiCategory classifies the unrounded BMI.
func bmiCategory(bmi float64) (category, risk string) {
	switch {
	case bmi < bmiUnderweight:
		return "Underweight", "Low to Moderate"
	case bmi < bmiOverweight:
		return "Normal Weight", "Low"
	case bmi < bmiObese:
		return "Overweight", "Moderate"
	default:
		return "Obese", "High"
	}
}

// HydrationLiters is the daily water intake hint, 33 ml per kg.
func HydrationLiters(weightKg float64) float64 {
	if weightKg <= 0 {
		return 0
	}
	return round(weightKg*0.033, 1)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
