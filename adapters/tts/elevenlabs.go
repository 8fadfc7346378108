package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
)

const (
	defaultAPIBaseURL   = "https://api.elevenlabs.io/v1"
	defaultVoiceID      = "21m00Tcm4TlvDq8ikWAM" // Rachel
	defaultChunkSize    = 1024
	defaultOutputFormat = "pcm_24000"
	defaultModelID      = "eleven_multilingual_v2"
	defaultStability    = 0.5
	defaultClarity      = 0.75

	maxErrorBody = 4 << 10
)

// ErrSynthesisFailed is returned when the ElevenLabs API refuses a request
var ErrSynthesisFailed = errors.New("speech synthesis failed")

// ElevenLabsConfig configures the ElevenLabs adapter. Only APIKey is required;
// zero values fall back to the package defaults.
type ElevenLabsConfig struct {
	APIKey       string
	APIBaseURL   string
	VoiceID      string
	ModelID      string
	OutputFormat string
	ChunkSize    int
	Stability    float64 // 0..1
	Clarity      float64 // 0..1, sent as similarity_boost
}

// ElevenLabsTTS streams synthesized speech from the ElevenLabs HTTP API
type ElevenLabsTTS struct {
	apiKey       string
	apiBaseURL   string
	voiceID      string
	modelID      string
	outputFormat string
	chunkSize    int
	stability    float64
	clarity      float64
	httpClient   *http.Client
	logger       *zap.Logger
}

var _ repositories.TextToSpeech = (*ElevenLabsTTS)(nil)

// ElevenLabsVoiceSettings is the voice_settings object of a synthesis request
type ElevenLabsVoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style,omitempty"`
	UseSpeakerBoost bool    `json:"use_speaker_boost,omitempty"`
}

// ElevenLabsRequest is the body of a streaming synthesis request
type ElevenLabsRequest struct {
	Text                   string                  `json:"text"`
	ModelID                string                  `json:"model_id"`
	LanguageCode           string                  `json:"language_code,omitempty"`
	VoiceSettings          ElevenLabsVoiceSettings `json:"voice_settings"`
	ApplyTextNormalization string                  `json:"apply_text_normalization,omitempty"`
}

// ValidateElevenLabsConfig rejects configs that cannot produce a valid request
func ValidateElevenLabsConfig(config ElevenLabsConfig) error {
	if config.APIKey == "" {
		return fmt.Errorf("eleven labs API key is required")
	}
	if config.Stability < 0 || config.Stability > 1 {
		return fmt.Errorf("stability must be between 0 and 1, got %f", config.Stability)
	}
	if config.Clarity < 0 || config.Clarity > 1 {
		return fmt.Errorf("clarity must be between 0 and 1, got %f", config.Clarity)
	}
	if config.ChunkSize < 0 {
		return fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	return nil
}

func orDefault[T comparable](value, fallback T) T {
	var zero T
	if value == zero {
		return fallback
	}
	return value
}

// NewElevenLabsTTS creates an ElevenLabs adapter
func NewElevenLabsTTS(config ElevenLabsConfig, logger *zap.Logger) (*ElevenLabsTTS, error) {
	if err := ValidateElevenLabsConfig(config); err != nil {
		return nil, err
	}

	e := &ElevenLabsTTS{
		apiKey:       config.APIKey,
		apiBaseURL:   strings.TrimRight(orDefault(config.APIBaseURL, defaultAPIBaseURL), "/"),
		voiceID:      orDefault(config.VoiceID, defaultVoiceID),
		modelID:      orDefault(config.ModelID, defaultModelID),
		outputFormat: orDefault(config.OutputFormat, defaultOutputFormat),
		chunkSize:    orDefault(config.ChunkSize, defaultChunkSize),
		stability:    orDefault(config.Stability, defaultStability),
		clarity:      orDefault(config.Clarity, defaultClarity),
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		logger:       logger,
	}
	logger.Info("ElevenLabs speech output configured",
		zap.String("voiceID", e.voiceID),
		zap.String("modelID", e.modelID),
		zap.String("outputFormat", e.outputFormat))
	return e, nil
}

// ConvertTextToSpeech starts a synthesis request and streams the audio body in
// chunkSize pieces. API errors are returned before any audio is sent; read
// errors after that just end the stream.
func (e *ElevenLabsTTS) ConvertTextToSpeech(ctx context.Context, text string, lang entities.LanguageTag) (<-chan []byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	req, err := e.newRequest(ctx, text, lang)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Requesting speech synthesis",
		zap.Int("textLength", len(text)),
		zap.String("language", lang.String()))

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach eleven labs: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		e.logger.Error("Eleven Labs API returned error",
			zap.Int("statusCode", resp.StatusCode),
			zap.String("response", string(body)))
		return nil, fmt.Errorf("%w: status %d", ErrSynthesisFailed, resp.StatusCode)
	}

	audioChan := make(chan []byte, 10)
	go e.stream(ctx, resp.Body, audioChan)
	return audioChan, nil
}

func (e *ElevenLabsTTS) newRequest(ctx context.Context, text string, lang entities.LanguageTag) (*http.Request, error) {
	body, err := json.Marshal(ElevenLabsRequest{
		Text:                   text,
		ModelID:                e.modelID,
		LanguageCode:           languageCode(lang),
		ApplyTextNormalization: "auto",
		VoiceSettings: ElevenLabsVoiceSettings{
			Stability:       e.stability,
			SimilarityBoost: e.clarity,
			UseSpeakerBoost: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s/stream?output_format=%s&enable_logging=false",
		e.apiBaseURL, e.voiceID, e.outputFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// pcm_* formats are only served with an audio/pcm accept header
	accept := "audio/mpeg"
	if strings.HasPrefix(e.outputFormat, "pcm") {
		accept = "audio/pcm"
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", e.apiKey)
	return req, nil
}

func (e *ElevenLabsTTS) stream(ctx context.Context, body io.ReadCloser, out chan<- []byte) {
	defer close(out)
	defer body.Close()

	total := 0
	for {
		buf := make([]byte, e.chunkSize)
		n, err := io.ReadFull(body, buf)
		if n > 0 {
			total += n
			select {
			case out <- buf[:n]:
			case <-ctx.Done():
				e.logger.Debug("Speech stream cancelled", zap.Int("bytes", total))
				return
			}
		}
		switch {
		case err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF):
			e.logger.Debug("Speech stream finished", zap.Int("bytes", total))
			return
		case err != nil:
			e.logger.Warn("Speech stream interrupted", zap.Error(err), zap.Int("bytes", total))
			return
		}
	}
}

// languageCode maps a tag to the ISO 639-1 code the multilingual models accept.
// Unknown tags are left to the model's own detection.
func languageCode(lang entities.LanguageTag) string {
	if lang == "" || !lang.IsSelectable() {
		return ""
	}
	return lang.String()
}
