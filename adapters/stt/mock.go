package stt

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/repositories"
)

// MockSpeechToText recognizes canned symptom phrases picked by audio size
type MockSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*MockSpeechToText)(nil)

// MockSpeechToTextStream is a mock implementation of streaming speech recognition
type MockSpeechToTextStream struct {
	logger *zap.Logger

	mu       sync.Mutex
	received int
	ended    bool
	results  chan repositories.Transcript
}

// NewMockSpeechToText creates a new mock speech-to-text service
func NewMockSpeechToText(logger *zap.Logger) *MockSpeechToText {
	return &MockSpeechToText{
		logger: logger,
	}
}

// InitTranscribeStreaming creates a new mock streaming session
func (s *MockSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	s.logger.Info("Initializing mock streaming transcription",
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding),
		zap.String("language", config.Language))

	return &MockSpeechToTextStream{
		logger:  s.logger,
		results: make(chan repositories.Transcript, 1),
	}, nil
}

// Stream implements mock streaming audio processing
func (m *MockSpeechToTextStream) Stream(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return nil
	}
	m.received += len(data)
	m.logger.Debug("Processing mock audio chunk", zap.Int("size", len(data)), zap.Int("total", m.received))
	return nil
}

func (m *MockSpeechToTextStream) Results() <-chan repositories.Transcript {
	return m.results
}

// End emits the final mock transcription and closes the results
func (m *MockSpeechToTextStream) End() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return nil
	}
	m.ended = true
	defer close(m.results)

	if m.received == 0 {
		return ErrNoAudio
	}

	text := mockTranscription(m.received)
	m.logger.Info("Ending mock transcription stream", zap.String("result", text))
	m.results <- repositories.Transcript{Text: text, IsFinal: true, Confidence: 0.9}
	return nil
}

// TranscribeAudio implements repository.SpeechToText
func (s *MockSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	s.logger.Info("Processing speech-to-text",
		zap.Int("audioSize", len(audioData)),
		zap.Int("sampleRate", config.SampleRate),
		zap.String("encoding", config.Encoding))

	if len(audioData) == 0 {
		return "", ErrNoAudio
	}
	return mockTranscription(len(audioData)), nil
}

// Mock transcription based on audio size
func mockTranscription(size int) string {
	switch {
	case size > 10000:
		return "I have had a headache and mild fever since yesterday."
	case size > 5000:
		return "It gets worse in the evening."
	case size > 1000:
		return "About two days."
	default:
		return "Yes"
	}
}
