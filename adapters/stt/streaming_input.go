package stt

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

const maxBufferedAudio = 2 << 20

var (
	ErrAudioBufferFull   = errors.New("buffered audio limit reached")
	ErrCaptureInProgress = errors.New("speech capture already in progress")
	ErrNoActiveCapture   = errors.New("no active speech capture")
)

// StreamingInput is a SpeechInput fed with audio chunks pushed by the caller,
// usually binary frames from a client connection. One capture runs at a time
// and ends at the first final transcript or when Finish is called.
//
// Arm lets audio arrive before the capture is started: chunks and a Finish
// written while armed are replayed once StartCapture runs.
type StreamingInput struct {
	stt    repositories.SpeechToText
	audio  repositories.AudioConfig
	logger *zap.Logger

	mu     sync.Mutex
	active repositories.SpeechToTextStreaming
	cancel context.CancelFunc

	armed         bool
	buffered      [][]byte
	bufferedBytes int
	finishPending bool
}

var _ repositories.SpeechInput = (*StreamingInput)(nil)

// NewStreamingInput creates an input that recognizes audio with recognizer.
// The language field of audio is replaced by the capture language.
func NewStreamingInput(recognizer repositories.SpeechToText, audio repositories.AudioConfig, logger *zap.Logger) *StreamingInput {
	return &StreamingInput{stt: recognizer, audio: audio, logger: logger}
}

// Configure replaces the audio format used by the next capture
func (s *StreamingInput) Configure(sampleRate int, encoding string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sampleRate > 0 {
		s.audio.SampleRate = sampleRate
	}
	if encoding != "" {
		s.audio.Encoding = encoding
	}
}

// Arm starts buffering audio for the next capture
func (s *StreamingInput) Arm() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	s.buffered = nil
	s.bufferedBytes = 0
	s.finishPending = false
}

func (s *StreamingInput) StartCapture(ctx context.Context, lang entities.LanguageTag) (<-chan repositories.Transcript, error) {
	if s.stt == nil {
		return nil, repositories.ErrCapabilityUnavailable
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrCaptureInProgress
	}

	cfg := s.audio
	cfg.Language = lang.SpeechLocale()

	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := s.stt.InitTranscribeStreaming(streamCtx, cfg)
	if err != nil {
		cancel()
		return nil, err
	}
	s.active = stream
	s.cancel = cancel

	buffered, finish := s.buffered, s.finishPending
	s.armed = false
	s.buffered = nil
	s.bufferedBytes = 0
	s.finishPending = false

	s.logger.Info("Speech capture started",
		zap.String("language", cfg.Language),
		zap.Int("sampleRate", cfg.SampleRate),
		zap.String("encoding", cfg.Encoding))

	out := make(chan repositories.Transcript, 1)
	go s.forward(streamCtx, stream, out)
	for _, chunk := range buffered {
		if err := stream.Stream(chunk); err != nil {
			s.logger.Warn("Failed to replay buffered audio", zap.Error(err))
			break
		}
	}
	if finish {
		go s.finish(stream)
	}
	return out, nil
}

// forward relays transcripts up to the first final one and drains the rest
func (s *StreamingInput) forward(ctx context.Context, stream repositories.SpeechToTextStreaming, out chan<- repositories.Transcript) {
	open := true
	for tr := range stream.Results() {
		if !open {
			continue
		}
		select {
		case out <- tr:
		case <-ctx.Done():
			close(out)
			open = false
			go s.finish(stream)
			continue
		}
		if tr.IsFinal {
			close(out)
			open = false
			go s.finish(stream)
		}
	}
	if open {
		close(out)
	}
	s.release(stream)
}

// Write pushes one audio chunk into the active capture
func (s *StreamingInput) Write(data []byte) error {
	s.mu.Lock()
	stream := s.active
	if stream == nil {
		defer s.mu.Unlock()
		if !s.armed {
			return ErrNoActiveCapture
		}
		if s.bufferedBytes+len(data) > maxBufferedAudio {
			return ErrAudioBufferFull
		}
		s.buffered = append(s.buffered, append([]byte(nil), data...))
		s.bufferedBytes += len(data)
		return nil
	}
	s.mu.Unlock()
	return stream.Stream(data)
}

// Finish marks the end of audio for the active capture and waits for the
// recognizer to deliver its last results.
func (s *StreamingInput) Finish() error {
	s.mu.Lock()
	stream := s.active
	if stream == nil {
		defer s.mu.Unlock()
		if !s.armed {
			return ErrNoActiveCapture
		}
		s.finishPending = true
		return nil
	}
	s.mu.Unlock()
	return s.finish(stream)
}

// Active reports whether a capture is running
func (s *StreamingInput) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

func (s *StreamingInput) finish(stream repositories.SpeechToTextStreaming) error {
	err := stream.End()
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("Speech capture ended with error", zap.Error(err))
		if errors.Is(err, ErrNoAudio) {
			return err
		}
		return fmt.Errorf("speech recognition failed: %w", err)
	}
	return nil
}

func (s *StreamingInput) release(stream repositories.SpeechToTextStreaming) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == stream {
		s.active = nil
		if s.cancel != nil {
			s.cancel()
			s.cancel = nil
		}
	}
}
