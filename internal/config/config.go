package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration

	// Conversation pacing
	AnalysisDelay      time.Duration
	FollowUpDelay      time.Duration
	ReplyDelay         time.Duration
	ClosingDelay       time.Duration
	ProceedAfterTurns  int
	CompleteAfterTurns int

	SessionIdleTimeout time.Duration
	CleanupInterval    time.Duration

	// Speech capabilities
	SpeechProvider   string
	TTSProvider      string
	SpeechSampleRate int
	SpeechEncoding   string

	// Eleven Labs
	ElevenLabsAPIKey       string
	ElevenLabsAPIBaseURL   string
	ElevenLabsVoiceID      string
	ElevenLabsModelID      string
	ElevenLabsOutputFormat string
	ElevenLabsChunkSize    int
	ElevenLabsStability    float64
	ElevenLabsClarity      float64
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),
		TokenTTL:  getEnvAsDuration("TOKEN_TTL", 24*time.Hour),

		AnalysisDelay:      getEnvAsDuration("ANALYSIS_DELAY", 2*time.Second),
		FollowUpDelay:      getEnvAsDuration("FOLLOW_UP_DELAY", 2*time.Second),
		ReplyDelay:         getEnvAsDuration("REPLY_DELAY", 1500*time.Millisecond),
		ClosingDelay:       getEnvAsDuration("CLOSING_DELAY", 3*time.Second),
		ProceedAfterTurns:  getEnvAsInt("PROCEED_AFTER_TURNS", 2),
		CompleteAfterTurns: getEnvAsInt("COMPLETE_AFTER_TURNS", 4),

		SessionIdleTimeout: getEnvAsDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		CleanupInterval:    getEnvAsDuration("CLEANUP_INTERVAL", time.Minute),

		SpeechProvider:   getEnv("SPEECH_PROVIDER", "mock"),
		TTSProvider:      getEnv("TTS_PROVIDER", "mock"),
		SpeechSampleRate: getEnvAsInt("SPEECH_SAMPLE_RATE", 16000),
		SpeechEncoding:   getEnv("SPEECH_ENCODING", "LINEAR16"),

		ElevenLabsAPIKey:       getEnv("ELEVEN_LABS_API_KEY", ""),
		ElevenLabsAPIBaseURL:   getEnv("ELEVEN_LABS_API_BASE_URL", ""),
		ElevenLabsVoiceID:      getEnv("ELEVEN_LABS_VOICE_ID", ""),
		ElevenLabsModelID:      getEnv("ELEVEN_LABS_MODEL_ID", ""),
		ElevenLabsOutputFormat: getEnv("ELEVEN_LABS_OUTPUT_FORMAT", ""),
		ElevenLabsChunkSize:    getEnvAsInt("ELEVEN_LABS_CHUNK_SIZE", 0),
		ElevenLabsStability:    getEnvAsUnitFloat("ELEVEN_LABS_STABILITY", 0),
		ElevenLabsClarity:      getEnvAsUnitFloat("ELEVEN_LABS_CLARITY", 0),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsUnitFloat accepts only values between 0 and 1
func getEnvAsUnitFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil && value >= 0 && value <= 1 {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return getEnvAsBool("PRODUCTION", c.Env == "production")
}
