package triage

import (
	"strings"

	"github.com/swasthya-health/swasthya/domain/entities"
)

// Coverage describes how much content is authored for a language
type Coverage string

const (
	// CoverageFull means every message, question list and script line is authored
	CoverageFull Coverage = "full"
	// CoveragePartial means some content falls back to English
	CoveragePartial Coverage = "partial"
	// CoverageFallback means all content is served in English
	CoverageFallback Coverage = "fallback"
)

// Message template keys
const (
	templateEmergency = "emergency"
	templateHigh      = "high"
	templateMedium    = "medium"
	templateLow       = "low"
)

const symptomsPlaceholder = "{symptoms}"
const healthTypePlaceholder = "{health_type}"

// Locale is the authored content for one language. Empty fields fall back to English.
type Locale struct {
	Greeting    string
	Closing     string
	HealthTypes map[entities.HealthType]string
	Templates   map[string]string
	FollowUps   map[entities.UrgencyLevel][]string
	Script      []string
}

// Table is a read-only set of locales with English as the fallback
type Table struct {
	locales map[entities.LanguageTag]Locale
}

// NewTable builds a table. The English locale must be complete.
func NewTable(locales map[entities.LanguageTag]Locale) *Table {
	return &Table{locales: locales}
}

var defaultTable = NewTable(map[entities.LanguageTag]Locale{
	entities.LanguageEnglish: english,
	entities.LanguageHindi:   hindi,
	entities.LanguageTamil:   tamil,
})

// DefaultTable returns the built-in content table
func DefaultTable() *Table {
	return defaultTable
}

// Coverage reports whether content for lang is authored, partly authored or
// served entirely from the English fallback.
func (t *Table) Coverage(lang entities.LanguageTag) Coverage {
	if lang == entities.LanguageEnglish {
		return CoverageFull
	}
	loc, ok := t.locales[lang]
	if !ok {
		return CoverageFallback
	}
	base := t.locales[entities.LanguageEnglish]
	if loc.Greeting == "" || loc.Closing == "" || len(loc.Script) == 0 {
		return CoveragePartial
	}
	for key := range base.Templates {
		if loc.Templates[key] == "" {
			return CoveragePartial
		}
	}
	for urgency := range base.FollowUps {
		if len(loc.FollowUps[urgency]) == 0 {
			return CoveragePartial
		}
	}
	return CoverageFull
}

// IsAuthored reports whether any content is authored for lang
func (t *Table) IsAuthored(lang entities.LanguageTag) bool {
	return t.Coverage(lang) != CoverageFallback
}

// Resolve returns the locale for lang with every missing field taken from English
func (t *Table) Resolve(lang entities.LanguageTag) Locale {
	base := t.locales[entities.LanguageEnglish]
	loc, ok := t.locales[lang]
	if !ok || lang == entities.LanguageEnglish {
		return base
	}

	out := Locale{
		Greeting:    firstNonEmpty(loc.Greeting, base.Greeting),
		Closing:     firstNonEmpty(loc.Closing, base.Closing),
		HealthTypes: make(map[entities.HealthType]string, len(base.HealthTypes)),
		Templates:   make(map[string]string, len(base.Templates)),
		FollowUps:   make(map[entities.UrgencyLevel][]string, len(base.FollowUps)),
		Script:      loc.Script,
	}
	// A localized greeting keeps its own health type labels, an English one keeps English labels.
	labels := base.HealthTypes
	if loc.Greeting != "" && len(loc.HealthTypes) > 0 {
		labels = loc.HealthTypes
	}
	for k, v := range labels {
		out.HealthTypes[k] = v
	}
	for k, v := range base.Templates {
		out.Templates[k] = firstNonEmpty(loc.Templates[k], v)
	}
	for k, v := range base.FollowUps {
		if q := loc.FollowUps[k]; len(q) > 0 {
			out.FollowUps[k] = q
		} else {
			out.FollowUps[k] = v
		}
	}
	if len(out.Script) == 0 {
		out.Script = base.Script
	}
	return out
}

// Greeting renders the opening message of a session
func (t *Table) Greeting(healthType entities.HealthType, lang entities.LanguageTag) string {
	loc := t.Resolve(lang)
	label, ok := loc.HealthTypes[healthType]
	if !ok {
		label = string(healthType)
	}
	return strings.ReplaceAll(loc.Greeting, healthTypePlaceholder, label)
}

// Closing returns the message inviting the user to proceed to results
func (t *Table) Closing(lang entities.LanguageTag) string {
	return t.Resolve(lang).Closing
}

// Languages lists the selectable languages together with their coverage
func (t *Table) Languages() []LanguageCoverage {
	opts := entities.SelectableLanguages()
	out := make([]LanguageCoverage, 0, len(opts))
	for _, opt := range opts {
		out = append(out, LanguageCoverage{LanguageOption: opt, Coverage: t.Coverage(opt.Tag)})
	}
	return out
}

// LanguageCoverage pairs a selector entry with its content coverage
type LanguageCoverage struct {
	entities.LanguageOption
	Coverage Coverage `json:"coverage"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func render(template, symptoms string) string {
	return strings.ReplaceAll(template, symptomsPlaceholder, symptoms)
}
