package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swasthya-health/swasthya/domain/entities"
)

func TestClassifyEmergencyShortCircuits(t *testing.T) {
	inputs := []string{
		"I have chest pain",
		"CHEST PAIN and a mild cough",
		"severe headache, high fever and difficulty breathing",
		"I keep thinking about suicide",
		"my father is unconscious",
		"fatigue, nausea and a stroke last year",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			for _, lang := range []entities.LanguageTag{entities.LanguageEnglish, entities.LanguageHindi, entities.LanguageTamil} {
				got := Classify(input, lang)
				assert.Equal(t, entities.UrgencyHigh, got.UrgencyLevel)
				assert.Empty(t, got.FollowUpQuestions)
				assert.Equal(t, []string{entities.ActionCallEmergency, entities.ActionGoToER}, got.SuggestedActions)
				assert.True(t, got.IsEmergency())
				assert.Contains(t, got.ResponseText, "108")
			}
		})
	}
}

func TestClassifySevereHeadacheIsHigh(t *testing.T) {
	got := Classify("I have a severe headache", entities.LanguageEnglish)

	assert.Equal(t, entities.UrgencyHigh, got.UrgencyLevel)
	assert.False(t, got.IsEmergency())
	assert.Equal(t, []string{entities.ActionConsultWithin24h, entities.ActionMonitorClosely}, got.SuggestedActions)
	assert.Len(t, got.FollowUpQuestions, 4)
	assert.Equal(t, "When did these symptoms first start?", got.FollowUpQuestions[0])

	m := NewClassifier(nil).Match("I have a severe headache")
	assert.Equal(t, TierHigh, m.Tier)
	assert.Equal(t, "severe headache", m.Keyword)
}

func TestClassifyTiers(t *testing.T) {
	tests := []struct {
		input   string
		urgency entities.UrgencyLevel
		tier    string
		actions []string
	}{
		{"vomiting blood since morning", entities.UrgencyHigh, TierHigh, []string{entities.ActionConsultWithin24h, entities.ActionMonitorClosely}},
		{"Mild Fever and a sore throat", entities.UrgencyMedium, TierMedium, []string{entities.ActionRestAndMonitor, entities.ActionSeeDoctorIfPersists}},
		{"a bit of dizziness", entities.UrgencyMedium, TierMedium, []string{entities.ActionRestAndMonitor, entities.ActionSeeDoctorIfPersists}},
		{"my knee feels stiff", entities.UrgencyLow, TierLow, []string{entities.ActionMonitorSymptoms, entities.ActionMaintainHealth}},
	}

	c := NewClassifier(nil)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := c.Classify(tt.input, entities.LanguageEnglish)
			assert.Equal(t, tt.urgency, got.UrgencyLevel)
			assert.Equal(t, tt.actions, got.SuggestedActions)
			assert.Len(t, got.FollowUpQuestions, 4)
			assert.Equal(t, tt.tier, c.Match(tt.input).Tier)
		})
	}
}

func TestClassifyEchoesOriginalCasing(t *testing.T) {
	got := Classify("Mild FEVER since Tuesday", entities.LanguageEnglish)
	assert.Equal(t,
		"Thank you for sharing your symptoms: Mild FEVER since Tuesday. While these symptoms are concerning, they don't appear to be immediately life-threatening. Let me gather more information to provide you with the best guidance.",
		got.ResponseText)
}

func TestClassifyLowHasFourFollowUps(t *testing.T) {
	inputs := []string{"my knee feels stiff", "I feel a little off", "itchy eyes"}
	for _, lang := range []entities.LanguageTag{entities.LanguageEnglish, entities.LanguageHindi} {
		for _, input := range inputs {
			got := Classify(input, lang)
			assert.Equal(t, entities.UrgencyLow, got.UrgencyLevel, "input %q lang %s", input, lang)
			assert.Len(t, got.FollowUpQuestions, 4, "input %q lang %s", input, lang)
		}
	}

	hi := Classify("itchy eyes", entities.LanguageHindi)
	assert.Equal(t, "आपने पहली बार इन लक्षणों को कब नोटिस किया?", hi.FollowUpQuestions[0])
}

func TestClassifyFallbackMatchesEnglish(t *testing.T) {
	inputs := []string{"chest pain", "severe headache", "cough", "itchy eyes"}
	for _, lang := range []entities.LanguageTag{entities.LanguageTelugu, entities.LanguageBengali, entities.LanguageKannada, entities.LanguageMarathi, "fr", ""} {
		for _, input := range inputs {
			assert.Equal(t, Classify(input, entities.LanguageEnglish), Classify(input, lang), "input %q lang %q", input, lang)
		}
	}
}

func TestClassifyTamilUsesEnglishFollowUps(t *testing.T) {
	ta := Classify("cough", entities.LanguageTamil)
	en := Classify("cough", entities.LanguageEnglish)

	assert.NotEqual(t, en.ResponseText, ta.ResponseText)
	assert.Equal(t, en.FollowUpQuestions, ta.FollowUpQuestions)
}

func TestClassifyReturnsFreshSlices(t *testing.T) {
	first := Classify("cough", entities.LanguageEnglish)
	first.FollowUpQuestions[0] = "mutated"
	first.SuggestedActions[0] = "mutated"

	second := Classify("cough", entities.LanguageEnglish)
	require.Len(t, second.FollowUpQuestions, 4)
	assert.Equal(t, "How long have you been experiencing these symptoms?", second.FollowUpQuestions[0])
	assert.Equal(t, entities.ActionRestAndMonitor, second.SuggestedActions[0])
}

func TestCustomTiers(t *testing.T) {
	c := NewClassifier(nil, Tier{
		Name:      TierMedium,
		Urgency:   entities.UrgencyMedium,
		Keywords:  []string{"rash"},
		Actions:   []string{entities.ActionRestAndMonitor},
		FollowUps: true,
	})

	assert.Equal(t, entities.UrgencyMedium, c.Classify("a rash on my arm", entities.LanguageEnglish).UrgencyLevel)
	assert.Equal(t, entities.UrgencyLow, c.Classify("chest pain", entities.LanguageEnglish).UrgencyLevel)
}
