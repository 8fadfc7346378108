package entities

// UrgencyLevel is the classifier output tier
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// Suggested actions attached to a classification
const (
	ActionCallEmergency       = "Call emergency services immediately"
	ActionGoToER              = "Go to nearest emergency room"
	ActionConsultWithin24h    = "Consult a doctor within 24 hours"
	ActionMonitorClosely      = "Monitor symptoms closely"
	ActionRestAndMonitor      = "Rest and monitor symptoms"
	ActionSeeDoctorIfPersists = "Consider seeing a doctor if symptoms persist"
	ActionMonitorSymptoms     = "Monitor symptoms"
	ActionMaintainHealth      = "Maintain good health practices"
)

// SymptomAnalysis is produced fresh by every classification
type SymptomAnalysis struct {
	ResponseText      string       `json:"response_text"`
	FollowUpQuestions []string     `json:"follow_up_questions"`
	UrgencyLevel      UrgencyLevel `json:"urgency_level"`
	SuggestedActions  []string     `json:"suggested_actions"`
}

// IsEmergency reports whether the analysis redirects the user to emergency services
func (a SymptomAnalysis) IsEmergency() bool {
	if a.UrgencyLevel != UrgencyHigh {
		return false
	}
	for _, action := range a.SuggestedActions {
		if action == ActionCallEmergency {
			return true
		}
	}
	return false
}
