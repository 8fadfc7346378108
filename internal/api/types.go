package api

import (
	"time"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/internal/triage"
)

// LoginRequest represents the request payload for patient login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents the response payload for patient login
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Patient   *entities.Patient `json:"patient"`
}

// LanguagesResponse lists the selectable languages
type LanguagesResponse struct {
	Default   entities.LanguageTag      `json:"default"`
	Languages []triage.LanguageCoverage `json:"languages"`
}

// VitalsResponse echoes validated vitals with the derived BMI
type VitalsResponse struct {
	Vitals      entities.HealthVitals `json:"vitals"`
	BMICategory entities.BMICategory  `json:"bmi_category"`
}

// ResultsRequest asks for the results page of a finished conversation
type ResultsRequest struct {
	Handoff entities.SymptomHandoff `json:"handoff"`
	Vitals  *entities.HealthVitals  `json:"vitals,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}
