package repositories

import (
	"context"

	"github.com/swasthya-health/swasthya/domain/entities"
)

// TextToSpeech synthesizes audio, streamed in chunks
type TextToSpeech interface {
	ConvertTextToSpeech(ctx context.Context, text string, lang entities.LanguageTag) (<-chan []byte, error)
}
