package entities

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle status of a session
type SessionStatus string

const (
	SessionStatusActive     SessionStatus = "active"
	SessionStatusExpired    SessionStatus = "expired"
	SessionStatusTerminated SessionStatus = "terminated"
)

// ConversationState is the position of a session in the consultation flow
type ConversationState string

const (
	StateGreeting           ConversationState = "greeting"
	StateAwaitingFirstInput ConversationState = "awaiting_first_input"
	StateAwaitingFollowUp   ConversationState = "awaiting_follow_up"
	StateReadyForResults    ConversationState = "ready_for_results"
	StateEmergencyHalted    ConversationState = "emergency_halted"
	StateClosed             ConversationState = "closed"
)

// SessionTTL is how long an untouched session stays valid
const SessionTTL = 30 * time.Minute

// ConversationSession is the state of one symptom conversation
type ConversationSession struct {
	ID           string            `json:"id"`
	HealthType   HealthType        `json:"health_type"`
	Language     LanguageTag       `json:"language"`
	InputMethod  InputMethod       `json:"input_method"`
	Transcript   []Message         `json:"transcript"`
	TurnCount    int               `json:"turn_count"`
	IsComplete   bool              `json:"is_complete"`
	State        ConversationState `json:"state"`
	Status       SessionStatus     `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActiveAt time.Time         `json:"last_active_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
}

// NewConversationSession creates a new session. Health type and language are fixed for its lifetime.
func NewConversationSession(healthType HealthType, lang LanguageTag) *ConversationSession {
	now := time.Now()
	return &ConversationSession{
		ID:           uuid.NewString(),
		HealthType:   healthType,
		Language:     lang,
		InputMethod:  InputMethodText,
		Transcript:   make([]Message, 0, 16),
		State:        StateGreeting,
		Status:       SessionStatusActive,
		CreatedAt:    now,
		LastActiveAt: now,
		ExpiresAt:    now.Add(SessionTTL),
	}
}

// AppendMessage adds a message to the transcript
func (s *ConversationSession) AppendMessage(msg Message) {
	s.Transcript = append(s.Transcript, msg)
	s.Touch()
}

// Touch updates the last active timestamp and extends expiration
func (s *ConversationSession) Touch() {
	s.LastActiveAt = time.Now()
	s.ExpiresAt = s.LastActiveAt.Add(SessionTTL)
}

// UserTurns returns the content of every user message in order
func (s *ConversationSession) UserTurns() []string {
	turns := make([]string, 0, len(s.Transcript)/2)
	for _, msg := range s.Transcript {
		if msg.Role == MessageRoleUser {
			turns = append(turns, msg.Content)
		}
	}
	return turns
}

// CombinedSymptomText joins all user turns with a single space
func (s *ConversationSession) CombinedSymptomText() string {
	return strings.Join(s.UserTurns(), " ")
}

// FindMessage looks up a transcript message by ID
func (s *ConversationSession) FindMessage(id string) (Message, bool) {
	for _, msg := range s.Transcript {
		if msg.ID == id {
			return msg, true
		}
	}
	return Message{}, false
}

// IsExpired reports whether the session is past its TTL or no longer active
func (s *ConversationSession) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt) || s.Status != SessionStatusActive
}

// IsIdle reports whether the session saw no activity for longer than timeout
func (s *ConversationSession) IsIdle(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastActiveAt) > timeout
}

// Terminate marks the session as terminated
func (s *ConversationSession) Terminate() {
	s.Status = SessionStatusTerminated
	s.State = StateClosed
	s.LastActiveAt = time.Now()
}

// Expire marks the session as expired
func (s *ConversationSession) Expire() {
	s.Status = SessionStatusExpired
	s.State = StateClosed
}

// Snapshot returns a deep copy safe to hand to other goroutines
func (s *ConversationSession) Snapshot() ConversationSession {
	cp := *s
	cp.Transcript = make([]Message, len(s.Transcript))
	copy(cp.Transcript, s.Transcript)
	return cp
}

// Validate validates the session data
func (s *ConversationSession) Validate() error {
	if s.ID == "" {
		return errors.New("session id is required")
	}
	if err := s.HealthType.Validate(); err != nil {
		return err
	}
	if s.Language == "" {
		return errors.New("language is required")
	}

	if s.Status != SessionStatusActive && s.Status != SessionStatusExpired && s.Status != SessionStatusTerminated {
		return errors.New("invalid session status")
	}

	return nil
}
