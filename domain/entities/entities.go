package entities

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// HealthType is the kind of concern a session is opened for
type HealthType string

const (
	HealthTypePhysical HealthType = "physical"
	HealthTypeMental   HealthType = "mental"
)

// InputMethod records how the user supplied their symptoms
type InputMethod string

const (
	InputMethodText  InputMethod = "text"
	InputMethodVoice InputMethod = "voice"
)

// MessageRole represents the author of a transcript message
type MessageRole string

const (
	MessageRoleUser MessageRole = "user"
	MessageRoleAI   MessageRole = "ai"
)

// Message is a single transcript entry. It is never mutated after creation.
type Message struct {
	ID        string      `json:"id"`
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewMessage creates a message with a fresh ID and the current time
func NewMessage(role MessageRole, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// Patient represents a signed-in user of the assistant
type Patient struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Email             string      `json:"email"`
	PreferredLanguage LanguageTag `json:"preferred_language"`
	AuthProvider      string      `json:"auth_provider"`
	CreatedAt         time.Time   `json:"created_at"`
}

// Domain validation methods
func (h HealthType) Validate() error {
	switch h {
	case HealthTypePhysical, HealthTypeMental:
		return nil
	case "":
		return errors.New("health type is required")
	default:
		return errors.New("health type must be physical or mental")
	}
}

func (m InputMethod) Validate() error {
	if m != InputMethodText && m != InputMethodVoice {
		return errors.New("input method must be text or voice")
	}
	return nil
}

func (p *Patient) Validate() error {
	if p.Email == "" {
		return errors.New("email is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}
