package entities

import (
	"fmt"
	"sort"
	"strings"
)

// HealthVitals holds the measurements collected before a consultation
type HealthVitals struct {
	Systolic   float64 `json:"blood_pressure_systolic"`
	Diastolic  float64 `json:"blood_pressure_diastolic"`
	BloodSugar float64 `json:"blood_sugar"`
	HeartRate  float64 `json:"heart_rate"`
	WeightKg   float64 `json:"weight"`
	HeightCm   float64 `json:"height"`
	BMI        float64 `json:"bmi"`
}

// BMICategory is the WHO adult BMI band
type BMICategory string

const (
	BMIUnderweight BMICategory = "Underweight"
	BMINormal      BMICategory = "Normal"
	BMIOverweight  BMICategory = "Overweight"
	BMIObese       BMICategory = "Obese"
)

type vitalRange struct {
	field    string
	min, max float64
	message  string
}

var vitalRanges = []vitalRange{
	{"blood_pressure_systolic", 70, 200, "Please enter a valid systolic pressure (70-200 mmHg)"},
	{"blood_pressure_diastolic", 40, 120, "Please enter a valid diastolic pressure (40-120 mmHg)"},
	{"blood_sugar", 50, 400, "Please enter a valid blood sugar level (50-400 mg/dL)"},
	{"heart_rate", 40, 200, "Please enter a valid heart rate (40-200 bpm)"},
	{"weight", 20, 300, "Please enter a valid weight (20-300 kg)"},
	{"height", 100, 250, "Please enter a valid height (100-250 cm)"},
}

// VitalsError maps field names to validation messages
type VitalsError map[string]string

func (e VitalsError) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid vitals: %s", strings.Join(fields, ", "))
}

func (v *HealthVitals) values() map[string]float64 {
	return map[string]float64{
		"blood_pressure_systolic":  v.Systolic,
		"blood_pressure_diastolic": v.Diastolic,
		"blood_sugar":              v.BloodSugar,
		"heart_rate":               v.HeartRate,
		"weight":                   v.WeightKg,
		"height":                   v.HeightCm,
	}
}

// Validate checks every measurement against its accepted range.
// A zero value counts as missing.
func (v *HealthVitals) Validate() error {
	values := v.values()
	errs := VitalsError{}
	for _, r := range vitalRanges {
		val := values[r.field]
		if val == 0 || val < r.min || val > r.max {
			errs[r.field] = r.message
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalize fills in the derived BMI
func (v *HealthVitals) Normalize() {
	v.BMI = ComputeBMI(v.WeightKg, v.HeightCm)
}

// ComputeBMI returns weight / height^2 with height given in centimetres
func ComputeBMI(weightKg, heightCm float64) float64 {
	if heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	return weightKg / (m * m)
}

// CategorizeBMI maps a BMI value to its band
func CategorizeBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMIUnderweight
	case bmi < 25:
		return BMINormal
	case bmi < 30:
		return BMIOverweight
	default:
		return BMIObese
	}
}
