package tts

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

const (
	mockBytesPerRune = 480 // ~10ms of 24kHz 16-bit PCM per character
	mockChunkSize    = 4096
)

// MockTextToSpeech streams silent PCM sized to the text, for local development
type MockTextToSpeech struct {
	logger *zap.Logger
}

var _ repositories.TextToSpeech = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{logger: logger}
}

func (m *MockTextToSpeech) ConvertTextToSpeech(ctx context.Context, text string, lang entities.LanguageTag) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	total := len([]rune(text)) * mockBytesPerRune
	m.logger.Debug("Generating mock speech",
		zap.String("language", lang.String()),
		zap.Int("totalBytes", total))

	audioChan := make(chan []byte, 4)
	go func() {
		defer close(audioChan)
		for sent := 0; sent < total; sent += mockChunkSize {
			n := min(mockChunkSize, total-sent)
			select {
			case audioChan <- make([]byte, n):
			case <-ctx.Done():
				return
			}
		}
	}()
	return audioChan, nil
}
