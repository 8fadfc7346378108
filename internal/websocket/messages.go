package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/usecase"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Client to server message types
const (
	MessageTypeSessionStart   MessageType = "session_start"
	MessageTypeUserMessage    MessageType = "user_message"
	MessageTypeProceed        MessageType = "proceed"
	MessageTypeAutoSpeak      MessageType = "auto_speak"
	MessageTypeSpeak          MessageType = "speak"
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
	MessageTypePing           MessageType = "ping"
)

// Server to client message types
const (
	MessageTypeMessage       MessageType = "message"
	MessageTypeState         MessageType = "state"
	MessageTypeTranscript    MessageType = "transcript"
	MessageTypeAdvisory      MessageType = "advisory"
	MessageTypeHandoff       MessageType = "handoff"
	MessageTypeSpeakingStart MessageType = "speaking_start"
	MessageTypeSpeakingEnd   MessageType = "speaking_end"
	MessageTypeError         MessageType = "error"
	MessageTypePong          MessageType = "pong"
)

// Error codes sent in ErrorMessage
const (
	ErrorCodeInvalidMessage  = "invalid_message"
	ErrorCodeNoSession       = "no_session"
	ErrorCodeSessionStart    = "session_start_failed"
	ErrorCodeResponsePending = "response_pending"
	ErrorCodeNotReady        = "not_ready"
	ErrorCodeHalted          = "emergency_halted"
	ErrorCodeComplete        = "conversation_complete"
	ErrorCodeClosed          = "session_closed"
	ErrorCodeNotFound        = "message_not_found"
	ErrorCodeSpeech          = "speech_failed"
	ErrorCodeInternal        = "internal_error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
}

func newBase(t MessageType) BaseMessage {
	return BaseMessage{Type: t, Timestamp: time.Now().Format(time.RFC3339)}
}

// SessionStartMessage opens a new conversation on the connection
type SessionStartMessage struct {
	BaseMessage
	HealthType entities.HealthType `json:"health_type"`
	Language   string              `json:"language,omitempty"`
}

// UserMessage is a typed answer
type UserMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// ProceedMessage asks for the symptom handoff
type ProceedMessage struct {
	BaseMessage
}

// AutoSpeakMessage toggles automatic narration
type AutoSpeakMessage struct {
	BaseMessage
	Enabled bool `json:"enabled"`
}

// SpeakMessage asks for one transcript message to be narrated
type SpeakMessage struct {
	BaseMessage
	MessageID string `json:"message_id"`
}

// ListeningStartMessage announces binary audio frames for a voice answer
type ListeningStartMessage struct {
	BaseMessage
	SampleRate int    `json:"sample_rate,omitempty"`
	Encoding   string `json:"encoding,omitempty"`
}

// ListeningEndMessage marks the end of the audio frames
type ListeningEndMessage struct {
	BaseMessage
}

// PingMessage represents a ping message for connection health check
type PingMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// PongMessage represents a pong response
type PongMessage struct {
	BaseMessage
	Data string `json:"data,omitempty"`
}

// ConversationMessage carries one transcript entry
type ConversationMessage struct {
	BaseMessage
	SessionID string           `json:"session_id"`
	Message   entities.Message `json:"message"`
	StatePayload
}

// StatePayload is the session status attached to state and message events
type StatePayload struct {
	State      entities.ConversationState `json:"state"`
	TurnCount  int                        `json:"turn_count"`
	CanProceed bool                       `json:"can_proceed"`
	IsComplete bool                       `json:"is_complete"`
	Urgency    entities.UrgencyLevel      `json:"urgency_level,omitempty"`
}

// StateMessage reports a state change
type StateMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	StatePayload
}

// TranscriptMessage relays speech recognition results
type TranscriptMessage struct {
	BaseMessage
	SessionID string                  `json:"session_id"`
	Transcript repositories.Transcript `json:"transcript"`
}

// AdvisoryMessage is a non-fatal notice such as missing speech support
type AdvisoryMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// HandoffMessage carries the finalized symptom record
type HandoffMessage struct {
	BaseMessage
	SessionID string                  `json:"session_id"`
	Handoff   entities.SymptomHandoff `json:"handoff"`
}

// SpeakingStartMessage precedes the binary audio of one narration
type SpeakingStartMessage struct {
	BaseMessage
	Text     string               `json:"text"`
	Language entities.LanguageTag `json:"language"`
}

// SpeakingEndMessage follows the binary audio of one narration
type SpeakingEndMessage struct {
	BaseMessage
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// MessageValidator provides validation for WebSocket messages
type MessageValidator struct{}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{}
}

// ValidateMessage validates an incoming message
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	// First parse as base message to get type
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeSessionStart:
		var msg SessionStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid session start message: %w", err)
		}
		if err := msg.HealthType.Validate(); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypeUserMessage:
		var msg UserMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid user message: %w", err)
		}
		return &msg, nil

	case MessageTypeProceed:
		return &ProceedMessage{BaseMessage: base}, nil

	case MessageTypeAutoSpeak:
		var msg AutoSpeakMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid auto speak message: %w", err)
		}
		return &msg, nil

	case MessageTypeSpeak:
		var msg SpeakMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid speak message: %w", err)
		}
		if strings.TrimSpace(msg.MessageID) == "" {
			return nil, fmt.Errorf("message_id is required")
		}
		return &msg, nil

	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening start message: %w", err)
		}
		if err := v.validateListeningStart(&msg); err != nil {
			return nil, err
		}
		return &msg, nil

	case MessageTypeListeningEnd:
		return &ListeningEndMessage{BaseMessage: base}, nil

	case MessageTypePing:
		var msg PingMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid ping message: %w", err)
		}
		return &msg, nil

	case "":
		return nil, fmt.Errorf("message missing type field")

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// validateListeningStart validates the optional audio format
func (v *MessageValidator) validateListeningStart(msg *ListeningStartMessage) error {
	if msg.SampleRate != 0 && (msg.SampleRate < 8000 || msg.SampleRate > 48000) {
		return fmt.Errorf("sample_rate must be between 8000 and 48000")
	}
	if msg.Encoding == "" {
		return nil
	}

	validEncodings := map[string]bool{
		"LINEAR16": true, "FLAC": true, "MULAW": true, "OGG_OPUS": true, "WEBM_OPUS": true,
	}
	if !validEncodings[strings.ToUpper(msg.Encoding)] {
		return fmt.Errorf("encoding must be one of: LINEAR16, FLAC, MULAW, OGG_OPUS, WEBM_OPUS")
	}
	return nil
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message, details string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: newBase(MessageTypeError),
		Code:        code,
		Message:     message,
		Details:     details,
	}
}

// CreatePongMessage creates a pong response message
func CreatePongMessage(data string) *PongMessage {
	return &PongMessage{
		BaseMessage: newBase(MessageTypePong),
		Data:        data,
	}
}

// EventMessage converts a conversation event into its wire message
func EventMessage(ev usecase.Event) interface{} {
	state := StatePayload{
		State:      ev.State,
		TurnCount:  ev.TurnCount,
		CanProceed: ev.CanProceed,
		IsComplete: ev.IsComplete,
		Urgency:    ev.Urgency,
	}

	switch ev.Type {
	case usecase.EventMessage:
		if ev.Message == nil {
			return nil
		}
		return &ConversationMessage{
			BaseMessage:  newBase(MessageTypeMessage),
			SessionID:    ev.SessionID,
			Message:      *ev.Message,
			StatePayload: state,
		}
	case usecase.EventState:
		return &StateMessage{
			BaseMessage:  newBase(MessageTypeState),
			SessionID:    ev.SessionID,
			StatePayload: state,
		}
	case usecase.EventTranscript:
		if ev.Transcript == nil {
			return nil
		}
		return &TranscriptMessage{
			BaseMessage: newBase(MessageTypeTranscript),
			SessionID:   ev.SessionID,
			Transcript:  *ev.Transcript,
		}
	case usecase.EventAdvisory:
		if ev.Advisory == nil {
			return nil
		}
		return &AdvisoryMessage{
			BaseMessage: newBase(MessageTypeAdvisory),
			SessionID:   ev.SessionID,
			Kind:        ev.Advisory.Kind,
			Message:     ev.Advisory.Message,
		}
	case usecase.EventHandoff:
		if ev.Handoff == nil {
			return nil
		}
		return &HandoffMessage{
			BaseMessage: newBase(MessageTypeHandoff),
			SessionID:   ev.SessionID,
			Handoff:     *ev.Handoff,
		}
	}
	return nil
}

// errorCode maps driver errors to wire error codes
func errorCode(err error) string {
	switch {
	case errors.Is(err, usecase.ErrResponsePending):
		return ErrorCodeResponsePending
	case errors.Is(err, usecase.ErrNotReady):
		return ErrorCodeNotReady
	case errors.Is(err, usecase.ErrEmergencyHalted):
		return ErrorCodeHalted
	case errors.Is(err, usecase.ErrConversationComplete):
		return ErrorCodeComplete
	case errors.Is(err, usecase.ErrSessionClosed):
		return ErrorCodeClosed
	case errors.Is(err, usecase.ErrMessageNotFound):
		return ErrorCodeNotFound
	case errors.Is(err, usecase.ErrSpeechUnavailable):
		return ErrorCodeSpeech
	case errors.Is(err, usecase.ErrNotStarted):
		return ErrorCodeNoSession
	}
	return ErrorCodeInternal
}
