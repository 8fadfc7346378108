package tts

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

// AudioSink receives synthesized speech, one narration at a time
type AudioSink interface {
	BeginSpeech(text string, lang entities.LanguageTag) error
	WriteAudio(chunk []byte) error
	EndSpeech() error
}

// Narrator is a SpeechOutput that synthesizes text and plays it into a sink.
// Narrations are serialized so their audio never interleaves.
type Narrator struct {
	tts    repositories.TextToSpeech
	sink   AudioSink
	logger *zap.Logger

	playing sync.Mutex
}

var _ repositories.SpeechOutput = (*Narrator)(nil)

// NewNarrator creates a narrator. A nil tts makes every Speak report the
// capability as unavailable.
func NewNarrator(tts repositories.TextToSpeech, sink AudioSink, logger *zap.Logger) *Narrator {
	return &Narrator{tts: tts, sink: sink, logger: logger}
}

func (n *Narrator) Speak(ctx context.Context, text string, lang entities.LanguageTag) (<-chan error, error) {
	if n.tts == nil || n.sink == nil {
		return nil, repositories.ErrCapabilityUnavailable
	}

	chunks, err := n.tts.ConvertTextToSpeech(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to convert text to speech: %w", err)
	}

	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- n.play(ctx, text, lang, chunks)
	}()
	return done, nil
}

func (n *Narrator) play(ctx context.Context, text string, lang entities.LanguageTag, chunks <-chan []byte) error {
	n.playing.Lock()
	defer n.playing.Unlock()

	if err := n.sink.BeginSpeech(text, lang); err != nil {
		drain(chunks)
		return err
	}

	total := 0
	var writeErr error
	for chunk := range chunks {
		if writeErr != nil {
			continue
		}
		if err := n.sink.WriteAudio(chunk); err != nil {
			writeErr = err
			continue
		}
		total += len(chunk)
	}

	if err := n.sink.EndSpeech(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		return writeErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if total == 0 {
		n.logger.Warn("Speech synthesis produced no audio", zap.String("language", lang.String()))
		return fmt.Errorf("%w: no audio produced", repositories.ErrCapabilityUnavailable)
	}

	n.logger.Debug("Narration finished", zap.Int("totalBytes", total))
	return nil
}

func drain(chunks <-chan []byte) {
	for range chunks {
	}
}
