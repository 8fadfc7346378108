package stt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/repositories"
)

// ErrNoAudio is returned when a stream ends without receiving audio
var ErrNoAudio = errors.New("no audio data received")

// ErrNoSpeech is returned when the provider heard audio but recognized nothing
var ErrNoSpeech = errors.New("no speech detected in audio")

// GoogleSpeechToText implements SpeechToText for Google Cloud
type GoogleSpeechToText struct {
	logger *zap.Logger
}

var _ repositories.SpeechToText = (*GoogleSpeechToText)(nil)

// NewGoogleSpeechToText creates a Google Cloud speech recognizer. Credentials
// are resolved by the client library on each stream.
func NewGoogleSpeechToText(logger *zap.Logger) *GoogleSpeechToText {
	return &GoogleSpeechToText{logger: logger}
}

// recognizeStream is the part of the gRPC stream the adapter uses
type recognizeStream interface {
	Send(*speechpb.StreamingRecognizeRequest) error
	Recv() (*speechpb.StreamingRecognizeResponse, error)
	CloseSend() error
}

func (g *GoogleSpeechToText) InitTranscribeStreaming(ctx context.Context, config repositories.AudioConfig) (repositories.SpeechToTextStreaming, error) {
	// Convert encoding string to Google Speech API enum
	encoding, err := getAudioEncoding(config.Encoding)
	if err != nil {
		return nil, err
	}

	// Create Google Cloud Speech client
	client, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create speech client: %v", repositories.ErrCapabilityUnavailable, err)
	}

	stream, err := client.StreamingRecognize(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to create streaming recognize: %w", err)
	}

	streamInstance, err := startStream(ctx, stream, &speechpb.RecognitionConfig{
		Encoding:                   encoding,
		SampleRateHertz:            int32(config.SampleRate),
		LanguageCode:               config.Language,
		EnableAutomaticPunctuation: true,
	}, g.logger)
	if err != nil {
		client.Close()
		return nil, err
	}
	streamInstance.closer = client.Close
	return streamInstance, nil
}

func startStream(ctx context.Context, stream recognizeStream, cfg *speechpb.RecognitionConfig, logger *zap.Logger) (*GoogleSpeechToTextStream, error) {
	// Send initial configuration
	if err := stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_StreamingConfig{
			StreamingConfig: &speechpb.StreamingRecognitionConfig{
				Config:         cfg,
				InterimResults: true,
			},
		},
	}); err != nil {
		stream.CloseSend()
		return nil, fmt.Errorf("failed to send streaming config: %w", err)
	}

	s := &GoogleSpeechToTextStream{
		stream:  stream,
		ctx:     ctx,
		logger:  logger,
		results: make(chan repositories.Transcript, 16),
		done:    make(chan struct{}),
	}
	go s.receiveResults()
	return s, nil
}

// GoogleSpeechToTextStream is one streaming recognition session
type GoogleSpeechToTextStream struct {
	stream recognizeStream
	ctx    context.Context
	logger *zap.Logger
	closer func() error

	mu            sync.Mutex
	audioReceived bool
	ended         bool
	err           error

	results chan repositories.Transcript
	done    chan struct{}
}

func (g *GoogleSpeechToTextStream) Stream(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		return errors.New("stream already ended")
	}
	g.audioReceived = true
	g.mu.Unlock()

	// Send audio data to Google
	if err := g.stream.Send(&speechpb.StreamingRecognizeRequest{
		StreamingRequest: &speechpb.StreamingRecognizeRequest_AudioContent{
			AudioContent: data,
		},
	}); err != nil {
		return fmt.Errorf("failed to send audio data: %w", err)
	}
	return nil
}

func (g *GoogleSpeechToTextStream) Results() <-chan repositories.Transcript {
	return g.results
}

// End closes the audio side and waits until every result has been delivered
func (g *GoogleSpeechToTextStream) End() error {
	g.mu.Lock()
	if g.ended {
		g.mu.Unlock()
		<-g.done
		return g.receiveErr()
	}
	g.ended = true
	audio := g.audioReceived
	g.mu.Unlock()

	defer g.cleanup()

	// Close the send stream to signal end of audio
	if err := g.stream.CloseSend(); err != nil {
		return fmt.Errorf("failed to close send stream: %w", err)
	}

	select {
	case <-g.ctx.Done():
		return fmt.Errorf("context cancelled while waiting for result: %w", g.ctx.Err())
	case <-g.done:
	}

	if !audio {
		return ErrNoAudio
	}
	return g.receiveErr()
}

func (g *GoogleSpeechToTextStream) receiveErr() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

func (g *GoogleSpeechToTextStream) receiveResults() {
	defer close(g.done)
	defer close(g.results)

	for {
		resp, err := g.stream.Recv()
		if err == io.EOF {
			// Stream ended normally
			return
		}
		if err != nil {
			g.mu.Lock()
			g.err = fmt.Errorf("failed to receive response: %w", err)
			g.mu.Unlock()
			return
		}

		for _, result := range resp.GetResults() {
			if len(result.GetAlternatives()) == 0 {
				continue
			}
			// Take the best alternative
			best := result.GetAlternatives()[0]
			tr := repositories.Transcript{
				Text:       strings.TrimSpace(best.GetTranscript()),
				IsFinal:    result.GetIsFinal(),
				Confidence: best.GetConfidence(),
			}
			if tr.Text == "" {
				continue
			}
			select {
			case g.results <- tr:
			case <-g.ctx.Done():
				return
			}
		}
	}
}

func (g *GoogleSpeechToTextStream) cleanup() {
	if g.closer != nil {
		if err := g.closer(); err != nil && g.logger != nil {
			g.logger.Debug("Failed to close speech client", zap.Error(err))
		}
	}
}

// TranscribeAudio converts audio data to text using a single streaming session
func (g *GoogleSpeechToText) TranscribeAudio(ctx context.Context, audioData []byte, config repositories.AudioConfig) (string, error) {
	stream, err := g.InitTranscribeStreaming(ctx, config)
	if err != nil {
		return "", fmt.Errorf("failed to initialize streaming: %w", err)
	}
	return Collect(stream, audioData)
}

// Collect sends audio in one go and joins the final transcripts
func Collect(stream repositories.SpeechToTextStreaming, audioData []byte) (string, error) {
	var (
		parts []string
		wg    sync.WaitGroup
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		for tr := range stream.Results() {
			if tr.IsFinal {
				parts = append(parts, tr.Text)
			}
		}
	}()

	if err := stream.Stream(audioData); err != nil {
		stream.End()
		wg.Wait()
		return "", fmt.Errorf("failed to stream audio data: %w", err)
	}
	err := stream.End()
	wg.Wait()
	if err != nil {
		return "", err
	}

	text := strings.Join(parts, " ")
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// getAudioEncoding converts string encoding to Google Speech API enum
func getAudioEncoding(encoding string) (speechpb.RecognitionConfig_AudioEncoding, error) {
	switch strings.ToUpper(encoding) {
	case "WAV", "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16, nil
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC, nil
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW, nil
	case "AMR":
		return speechpb.RecognitionConfig_AMR, nil
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB, nil
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS, nil
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE, nil
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS, nil
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED, fmt.Errorf("unsupported encoding: %s", encoding)
	}
}
