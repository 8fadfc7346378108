package entities

import (
	"errors"
	"math"
	"testing"
)

func validVitals() HealthVitals {
	return HealthVitals{
		Systolic:   120,
		Diastolic:  80,
		BloodSugar: 95,
		HeartRate:  72,
		WeightKg:   70,
		HeightCm:   175,
	}
}

func TestVitalsValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(v *HealthVitals)
		wantFields []string
	}{
		{name: "valid", mutate: func(v *HealthVitals) {}},
		{name: "missing systolic", mutate: func(v *HealthVitals) { v.Systolic = 0 }, wantFields: []string{"blood_pressure_systolic"}},
		{name: "diastolic too high", mutate: func(v *HealthVitals) { v.Diastolic = 130 }, wantFields: []string{"blood_pressure_diastolic"}},
		{name: "boundaries are inclusive", mutate: func(v *HealthVitals) { v.HeartRate = 40; v.WeightKg = 300 }},
		{
			name:       "several fields",
			mutate:     func(v *HealthVitals) { v.BloodSugar = 20; v.HeightCm = 90 },
			wantFields: []string{"blood_sugar", "height"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validVitals()
			tt.mutate(&v)
			err := v.Validate()

			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}

			var verr VitalsError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected VitalsError, got %v", err)
			}
			if len(verr) != len(tt.wantFields) {
				t.Errorf("Expected %d field errors, got %v", len(tt.wantFields), verr)
			}
			for _, f := range tt.wantFields {
				if _, ok := verr[f]; !ok {
					t.Errorf("Expected error for field %s", f)
				}
			}
		})
	}
}

func TestBMI(t *testing.T) {
	v := validVitals()
	v.Normalize()
	if math.Abs(v.BMI-22.857) > 0.01 {
		t.Errorf("Expected BMI ~22.86, got %f", v.BMI)
	}

	if ComputeBMI(70, 0) != 0 {
		t.Error("Expected zero BMI for zero height")
	}

	cases := map[float64]BMICategory{
		17.0: BMIUnderweight,
		18.5: BMINormal,
		24.9: BMINormal,
		25.0: BMIOverweight,
		30.0: BMIObese,
	}
	for bmi, want := range cases {
		if got := CategorizeBMI(bmi); got != want {
			t.Errorf("CategorizeBMI(%v) = %s, want %s", bmi, got, want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]LanguageTag{
		"":      LanguageEnglish,
		"hi-IN": LanguageHindi,
		"EN":    LanguageEnglish,
		" ta ":  LanguageTamil,
		"fr":    LanguageTag("fr"),
		"%%%":   LanguageEnglish,
	}
	for raw, want := range cases {
		if got := ParseLanguage(raw); got != want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", raw, got, want)
		}
	}

	if LanguageTag("fr").IsSelectable() {
		t.Error("fr should not be selectable")
	}
	if LanguageTag("fr").SpeechLocale() != "en-US" {
		t.Error("Unknown tags should use the English speech locale")
	}
	if len(SelectableLanguages()) != 7 {
		t.Errorf("Expected 7 selectable languages, got %d", len(SelectableLanguages()))
	}
}

func TestEnglishName(t *testing.T) {
	if got := LanguageHindi.EnglishName(); got != "Hindi" {
		t.Errorf("Expected Hindi, got %q", got)
	}
	if got := LanguageMarathi.EnglishName(); got != "Marathi" {
		t.Errorf("Expected Marathi, got %q", got)
	}
}
