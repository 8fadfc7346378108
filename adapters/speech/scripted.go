package speech

import (
	"context"
	"sync"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

// ScriptedInput is a SpeechInput that replays fixed transcripts on every capture
type ScriptedInput struct {
	mu          sync.Mutex
	transcripts []repositories.Transcript
	err         error
	captures    []entities.LanguageTag
}

var _ repositories.SpeechInput = (*ScriptedInput)(nil)

// NewScriptedInput creates an input that emits transcripts in order and then closes
func NewScriptedInput(transcripts ...repositories.Transcript) *ScriptedInput {
	return &ScriptedInput{transcripts: transcripts}
}

// NewUnavailableInput creates an input whose capture always fails
func NewUnavailableInput() *ScriptedInput {
	return &ScriptedInput{err: repositories.ErrCapabilityUnavailable}
}

func (s *ScriptedInput) StartCapture(ctx context.Context, lang entities.LanguageTag) (<-chan repositories.Transcript, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.captures = append(s.captures, lang)

	out := make(chan repositories.Transcript, len(s.transcripts))
	for _, tr := range s.transcripts {
		out <- tr
	}
	close(out)
	return out, nil
}

// Captures returns the language of every capture started so far
func (s *ScriptedInput) Captures() []entities.LanguageTag {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.LanguageTag(nil), s.captures...)
}

// Utterance is one narration request
type Utterance struct {
	Text     string
	Language entities.LanguageTag
}

// RecordingOutput is a SpeechOutput that records what it was asked to say
type RecordingOutput struct {
	mu      sync.Mutex
	spoken  []Utterance
	err     error
	spokeCh chan Utterance
}

var _ repositories.SpeechOutput = (*RecordingOutput)(nil)

// NewRecordingOutput creates an output that completes immediately
func NewRecordingOutput() *RecordingOutput {
	return &RecordingOutput{spokeCh: make(chan Utterance, 64)}
}

// NewUnavailableOutput creates an output that reports the capability as missing
func NewUnavailableOutput() *RecordingOutput {
	return &RecordingOutput{err: repositories.ErrCapabilityUnavailable, spokeCh: make(chan Utterance, 64)}
}

func (r *RecordingOutput) Speak(ctx context.Context, text string, lang entities.LanguageTag) (<-chan error, error) {
	if r.err != nil {
		return nil, r.err
	}
	u := Utterance{Text: text, Language: lang}
	r.mu.Lock()
	r.spoken = append(r.spoken, u)
	r.mu.Unlock()

	select {
	case r.spokeCh <- u:
	default:
	}

	done := make(chan error, 1)
	done <- nil
	close(done)
	return done, nil
}

// Spoken returns every utterance so far
func (r *RecordingOutput) Spoken() []Utterance {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Utterance(nil), r.spoken...)
}

// Utterances delivers each utterance as it is spoken
func (r *RecordingOutput) Utterances() <-chan Utterance {
	return r.spokeCh
}
