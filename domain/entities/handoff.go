package entities

import (
	"errors"
	"strings"
	"time"
)

// SymptomHandoff is the finalized record handed to the results stage
type SymptomHandoff struct {
	SessionID           string      `json:"session_id"`
	CombinedSymptomText string      `json:"combined_symptom_text"`
	Language            LanguageTag `json:"language"`
	InputMethod         InputMethod `json:"input_method"`
	HealthType          HealthType  `json:"health_type"`
	CreatedAt           time.Time   `json:"created_at"`
}

// NewSymptomHandoff builds the handoff record from the current session state
func NewSymptomHandoff(s *ConversationSession) SymptomHandoff {
	return SymptomHandoff{
		SessionID:           s.ID,
		CombinedSymptomText: s.CombinedSymptomText(),
		Language:            s.Language,
		InputMethod:         s.InputMethod,
		HealthType:          s.HealthType,
		CreatedAt:           time.Now(),
	}
}

func (h *SymptomHandoff) Validate() error {
	if strings.TrimSpace(h.CombinedSymptomText) == "" {
		return errors.New("combined symptom text is required")
	}
	if err := h.HealthType.Validate(); err != nil {
		return err
	}
	if h.InputMethod != "" {
		if err := h.InputMethod.Validate(); err != nil {
			return err
		}
	}
	return nil
}
