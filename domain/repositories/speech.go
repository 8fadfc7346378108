package repositories

import (
	"context"
	"errors"

	"github.com/swasthya-health/swasthya/domain/entities"
)

// ErrCapabilityUnavailable is returned (possibly wrapped) when a speech device or
// service is missing, denied or not configured.
var ErrCapabilityUnavailable = errors.New("speech capability unavailable")

// Transcript is one recognition result from a capture stream
type Transcript struct {
	Text       string  `json:"text"`
	IsFinal    bool    `json:"is_final"`
	Confidence float32 `json:"confidence"`
}

// SpeechInput captures the user's voice as a stream of transcripts.
// The returned channel is closed when the capture ends.
type SpeechInput interface {
	StartCapture(ctx context.Context, lang entities.LanguageTag) (<-chan Transcript, error)
}

// SpeechOutput narrates text. The returned channel yields exactly one value,
// nil on success, and is then closed.
type SpeechOutput interface {
	Speak(ctx context.Context, text string, lang entities.LanguageTag) (<-chan error, error)
}
