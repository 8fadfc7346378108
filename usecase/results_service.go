package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/triage"
)

var resultsTracer = otel.Tracer("swasthya/usecase/results")

// VitalsSummary is the validated vitals with the derived BMI band
type VitalsSummary struct {
	entities.HealthVitals
	BMICategory entities.BMICategory `json:"bmi_category"`
}

// ResultsReport is everything the results page renders for one consultation
type ResultsReport struct {
	SessionID          string                       `json:"session_id"`
	HealthType         entities.HealthType          `json:"health_type"`
	Language           entities.LanguageTag         `json:"language"`
	InputMethod        entities.InputMethod         `json:"input_method"`
	Symptoms           string                       `json:"symptoms"`
	Urgency            entities.UrgencyLevel        `json:"urgency_level"`
	SuggestedActions   []string                     `json:"suggested_actions"`
	Emergency          bool                         `json:"emergency"`
	Assessment         entities.Assessment          `json:"assessment"`
	Vitals             *VitalsSummary               `json:"vitals,omitempty"`
	NearbyDoctors      []entities.Doctor            `json:"nearby_doctors"`
	TeleconsultDoctors []entities.TeleconsultDoctor `json:"teleconsult_doctors"`
	Medicines          []entities.Medicine          `json:"medicines"`
	Pharmacies         []entities.Pharmacy          `json:"pharmacies"`
	GeneratedAt        time.Time                    `json:"generated_at"`
}

// ResultsService turns a symptom handoff into a results report
type ResultsService struct {
	catalog    repositories.CatalogProvider
	classifier *triage.Classifier
	logger     *zap.Logger
}

// NewResultsService creates a new results service
func NewResultsService(catalog repositories.CatalogProvider, classifier *triage.Classifier, logger *zap.Logger) *ResultsService {
	if classifier == nil {
		classifier = triage.NewClassifier(triage.DefaultTable())
	}
	return &ResultsService{
		catalog:    catalog,
		classifier: classifier,
		logger:     logger,
	}
}

// Build validates the handoff and optional vitals and assembles the report.
// Medicine suggestions are withheld when the symptoms are an emergency.
func (s *ResultsService) Build(ctx context.Context, handoff entities.SymptomHandoff, vitals *entities.HealthVitals) (*ResultsReport, error) {
	_, span := resultsTracer.Start(ctx, "results.build")
	defer span.End()

	if err := handoff.Validate(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("invalid handoff: %w", err)
	}

	var summary *VitalsSummary
	if vitals != nil {
		if err := vitals.Validate(); err != nil {
			span.RecordError(err)
			return nil, err
		}
		v := *vitals
		v.Normalize()
		summary = &VitalsSummary{HealthVitals: v, BMICategory: entities.CategorizeBMI(v.BMI)}
	}

	lang := handoff.Language
	if lang == "" {
		lang = entities.DefaultLanguage
	}
	analysis := s.classifier.Classify(handoff.CombinedSymptomText, lang)
	catalog := s.catalog.Catalog()

	report := &ResultsReport{
		SessionID:          handoff.SessionID,
		HealthType:         handoff.HealthType,
		Language:           lang,
		InputMethod:        handoff.InputMethod,
		Symptoms:           handoff.CombinedSymptomText,
		Urgency:            analysis.UrgencyLevel,
		SuggestedActions:   analysis.SuggestedActions,
		Emergency:          analysis.IsEmergency(),
		Assessment:         catalog.Assessments[handoff.HealthType],
		Vitals:             summary,
		NearbyDoctors:      catalog.NearbyDoctors,
		TeleconsultDoctors: speakersFirst(catalog.TeleconsultDoctors, lang),
		Medicines:          catalog.Medicines,
		Pharmacies:         catalog.Pharmacies,
		GeneratedAt:        time.Now(),
	}
	if report.Emergency {
		report.Medicines = []entities.Medicine{}
	}

	span.SetAttributes(
		attribute.String("swasthya.session_id", handoff.SessionID),
		attribute.String("swasthya.urgency", string(report.Urgency)),
		attribute.Bool("swasthya.vitals", summary != nil),
	)
	s.logger.Info("Results report built",
		zap.String("session_id", handoff.SessionID),
		zap.String("urgency", string(report.Urgency)),
		zap.Bool("emergency", report.Emergency),
	)
	return report, nil
}

// speakersFirst moves doctors who speak the patient's language to the front,
// keeping the catalog order otherwise.
func speakersFirst(doctors []entities.TeleconsultDoctor, lang entities.LanguageTag) []entities.TeleconsultDoctor {
	name := lang.EnglishName()
	speaks := func(d entities.TeleconsultDoctor) bool {
		return name != "" && slices.Contains(d.Languages, name)
	}
	out := slices.Clone(doctors)
	slices.SortStableFunc(out, func(a, b entities.TeleconsultDoctor) int {
		switch sa, sb := speaks(a), speaks(b); {
		case sa && !sb:
			return -1
		case sb && !sa:
			return 1
		}
		return 0
	})
	return out
}
