package stt

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap/zaptest"

	"github.com/swasthya-health/swasthya/domain/repositories"
)

// fakeRecognizeStream replays responses once the send side is closed
type fakeRecognizeStream struct {
	mu        sync.Mutex
	sent      []*speechpb.StreamingRecognizeRequest
	responses []*speechpb.StreamingRecognizeResponse
	recvErr   error
	closed    chan struct{}
}

func newFakeRecognizeStream(responses ...*speechpb.StreamingRecognizeResponse) *fakeRecognizeStream {
	return &fakeRecognizeStream{responses: responses, closed: make(chan struct{})}
}

func (f *fakeRecognizeStream) Send(req *speechpb.StreamingRecognizeRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return nil
}

func (f *fakeRecognizeStream) Recv() (*speechpb.StreamingRecognizeResponse, error) {
	<-f.closed
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.responses) == 0 {
		if f.recvErr != nil {
			return nil, f.recvErr
		}
		return nil, io.EOF
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

func (f *fakeRecognizeStream) CloseSend() error {
	close(f.closed)
	return nil
}

func response(text string, final bool) *speechpb.StreamingRecognizeResponse {
	return &speechpb.StreamingRecognizeResponse{
		Results: []*speechpb.StreamingRecognitionResult{{
			IsFinal:      final,
			Alternatives: []*speechpb.SpeechRecognitionAlternative{{Transcript: text, Confidence: 0.8}},
		}},
	}
}

func TestGoogleStreamDeliversInterimAndFinal(t *testing.T) {
	fake := newFakeRecognizeStream(response("head", false), response("headache and fever", true))
	stream, err := startStream(context.Background(), fake, &speechpb.RecognitionConfig{LanguageCode: "en-US"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to start stream: %v", err)
	}

	text, err := Collect(stream, []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if text != "headache and fever" {
		t.Errorf("Expected final transcript only, got %q", text)
	}

	cfg := fake.sent[0].GetStreamingConfig()
	if cfg == nil || !cfg.InterimResults {
		t.Error("Expected first request to be a streaming config with interim results")
	}
	if len(fake.sent) != 2 {
		t.Errorf("Expected config and one audio request, got %d", len(fake.sent))
	}
}

func TestGoogleStreamWithoutAudio(t *testing.T) {
	fake := newFakeRecognizeStream()
	stream, err := startStream(context.Background(), fake, &speechpb.RecognitionConfig{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to start stream: %v", err)
	}
	if err := stream.End(); !errors.Is(err, ErrNoAudio) {
		t.Errorf("Expected ErrNoAudio, got %v", err)
	}
	if err := stream.Stream([]byte{1}); err == nil {
		t.Error("Expected Stream after End to fail")
	}
}

func TestGoogleStreamReceiveError(t *testing.T) {
	fake := newFakeRecognizeStream()
	fake.recvErr = errors.New("boom")
	stream, _ := startStream(context.Background(), fake, &speechpb.RecognitionConfig{}, zaptest.NewLogger(t))

	if _, err := Collect(stream, []byte{1}); err == nil {
		t.Error("Expected receive error to surface")
	}
}

func TestGetAudioEncoding(t *testing.T) {
	if enc, err := getAudioEncoding("linear16"); err != nil || enc != speechpb.RecognitionConfig_LINEAR16 {
		t.Errorf("Expected LINEAR16, got %v (%v)", enc, err)
	}
	if _, err := getAudioEncoding("MP3"); err == nil {
		t.Error("Expected unsupported encoding error")
	}
}

var _ repositories.SpeechToTextStreaming = (*GoogleSpeechToTextStream)(nil)
