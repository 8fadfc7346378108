package triage

import (
	"strings"

	"github.com/swasthya-health/swasthya/domain/entities"
)

// Tier is one keyword set of the classifier. Tiers are checked in order and
// the first tier with any matching keyword wins, regardless of how specific
// a later tier's match would be.
type Tier struct {
	Name      string
	Urgency   entities.UrgencyLevel
	Keywords  []string
	Actions   []string
	FollowUps bool
}

// Tier names
const (
	TierEmergency = "emergency"
	TierHigh      = "high"
	TierMedium    = "medium"
	TierLow       = "low"
)

// DefaultTiers returns the built-in keyword tiers in priority order
func DefaultTiers() []Tier {
	return []Tier{
		{
			Name:    TierEmergency,
			Urgency: entities.UrgencyHigh,
			Keywords: []string{
				"chest pain", "difficulty breathing", "severe bleeding", "unconscious",
				"heart attack", "stroke", "severe allergic reaction", "suicide", "self harm",
			},
			Actions: []string{entities.ActionCallEmergency, entities.ActionGoToER},
		},
		{
			Name:    TierHigh,
			Urgency: entities.UrgencyHigh,
			Keywords: []string{
				"severe pain", "high fever", "vomiting blood", "severe headache",
				"vision loss", "difficulty swallowing", "severe abdominal pain",
			},
			Actions:   []string{entities.ActionConsultWithin24h, entities.ActionMonitorClosely},
			FollowUps: true,
		},
		{
			Name:    TierMedium,
			Urgency: entities.UrgencyMedium,
			Keywords: []string{
				"fever", "headache", "nausea", "dizziness", "fatigue", "cough",
				"sore throat", "body ache", "stomach pain",
			},
			Actions:   []string{entities.ActionRestAndMonitor, entities.ActionSeeDoctorIfPersists},
			FollowUps: true,
		},
	}
}

var lowTier = Tier{
	Name:      TierLow,
	Urgency:   entities.UrgencyLow,
	Actions:   []string{entities.ActionMonitorSymptoms, entities.ActionMaintainHealth},
	FollowUps: true,
}

// Match describes which tier and keyword decided a classification
type Match struct {
	Tier    string
	Keyword string
	Urgency entities.UrgencyLevel
}

// Classifier maps free text to an urgency classification with localized content
type Classifier struct {
	tiers []Tier
	table *Table
}

// NewClassifier creates a classifier. A nil table uses DefaultTable, no tiers use DefaultTiers.
func NewClassifier(table *Table, tiers ...Tier) *Classifier {
	if table == nil {
		table = DefaultTable()
	}
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	return &Classifier{tiers: tiers, table: table}
}

var defaultClassifier = NewClassifier(nil)

// Classify runs the built-in classifier
func Classify(text string, lang entities.LanguageTag) entities.SymptomAnalysis {
	return defaultClassifier.Classify(text, lang)
}

// Match finds the winning tier for text. Matching is a case-insensitive substring test.
func (c *Classifier) Match(text string) Match {
	tier, keyword := c.match(text)
	return Match{Tier: tier.Name, Keyword: keyword, Urgency: tier.Urgency}
}

func (c *Classifier) match(text string) (Tier, string) {
	lower := strings.ToLower(text)
	for _, tier := range c.tiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(lower, kw) {
				return tier, kw
			}
		}
	}
	return lowTier, ""
}

// Classify produces a fresh analysis for text. Blank text is a caller error and
// is not checked here.
func (c *Classifier) Classify(text string, lang entities.LanguageTag) entities.SymptomAnalysis {
	tier, _ := c.match(text)
	loc := c.table.Resolve(lang)

	analysis := entities.SymptomAnalysis{
		ResponseText:      render(loc.Templates[tier.Name], text),
		FollowUpQuestions: []string{},
		UrgencyLevel:      tier.Urgency,
		SuggestedActions:  append([]string(nil), tier.Actions...),
	}
	if tier.FollowUps {
		analysis.FollowUpQuestions = append(analysis.FollowUpQuestions, loc.FollowUps[tier.Urgency]...)
	}
	return analysis
}
