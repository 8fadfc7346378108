package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/swasthya-health/swasthya/adapters"
	"github.com/swasthya-health/swasthya/adapters/stt"
	"github.com/swasthya-health/swasthya/adapters/tts"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/api"
	"github.com/swasthya-health/swasthya/internal/auth"
	"github.com/swasthya-health/swasthya/internal/config"
	"github.com/swasthya-health/swasthya/internal/observability/metrics"
	"github.com/swasthya-health/swasthya/internal/triage"
	"github.com/swasthya-health/swasthya/internal/websocket"
	"github.com/swasthya-health/swasthya/usecase"
)

func main() {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	cfg := config.Load()

	// Initialize logger
	logger := newLogger(cfg)
	defer logger.Sync()

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Initialize adapters
	speechToText := newSpeechToText(cfg, logger)
	textToSpeech := newTextToSpeech(cfg, logger)

	patients, err := adapters.NewDemoPatientRepository()
	if err != nil {
		logger.Fatal("Failed to seed patient repository", zap.Error(err))
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("Invalid JWT configuration", zap.Error(err))
	}
	if cfg.IsProduction() && cfg.JWTSecret == "your-secret-key" {
		logger.Warn("Running in production with the default JWT secret")
	}

	// Initialize usecase services
	consultationMetrics := metrics.NewConsultationMetrics(prometheus.DefaultRegisterer)
	table := triage.DefaultTable()
	conversations := usecase.NewConversationService(usecase.DriverConfig{
		AnalysisDelay:      cfg.AnalysisDelay,
		FollowUpDelay:      cfg.FollowUpDelay,
		ReplyDelay:         cfg.ReplyDelay,
		ClosingDelay:       cfg.ClosingDelay,
		ProceedAfterTurns:  cfg.ProceedAfterTurns,
		CompleteAfterTurns: cfg.CompleteAfterTurns,
	}, table, consultationMetrics, logger)
	authService := usecase.NewAuthService(patients, tokens, logger)
	results := usecase.NewResultsService(adapters.NewStaticCatalog(), triage.NewClassifier(table), logger)

	// Initialize WebSocket hub with conversation service
	hubCtx, stopHub := context.WithCancel(context.Background())
	defer stopHub()
	hub := websocket.NewHub(conversations, speechToText, textToSpeech, repositories.AudioConfig{
		SampleRate: cfg.SpeechSampleRate,
		Encoding:   cfg.SpeechEncoding,
	}, logger)
	go hub.Run(hubCtx)

	cleanup := websocket.NewSessionCleanupService(hub, cfg.SessionIdleTimeout, cfg.CleanupInterval, logger)
	cleanup.Start()
	defer cleanup.Stop()

	// Initialize API routes
	api.InitRoutes(e, api.Dependencies{
		Hub:           hub,
		Auth:          authService,
		Conversations: conversations,
		Results:       results,
		TokenTTL:      tokens.TTL(),
		Gatherer:      prometheus.DefaultGatherer,
		Logger:        logger,
	})

	// Graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("shutting down the server", zap.Error(err))
		}
	}()

	logger.Info("Server started",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("speechProvider", cfg.SpeechProvider),
		zap.String("ttsProvider", cfg.TTSProvider))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	stopHub()

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *zap.Logger {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	zcfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = level

	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newSpeechToText picks the recognizer. Returning nil disables voice input.
func newSpeechToText(cfg *config.Config, logger *zap.Logger) repositories.SpeechToText {
	switch cfg.SpeechProvider {
	case "google":
		return stt.NewGoogleSpeechToText(logger)
	case "mock":
		return stt.NewMockSpeechToText(logger)
	case "none", "":
		return nil
	default:
		logger.Warn("Unknown speech provider, voice input disabled", zap.String("provider", cfg.SpeechProvider))
		return nil
	}
}

// newTextToSpeech picks the synthesizer. Returning nil disables voice output.
func newTextToSpeech(cfg *config.Config, logger *zap.Logger) repositories.TextToSpeech {
	switch cfg.TTSProvider {
	case "elevenlabs":
		engine, err := tts.NewElevenLabsTTS(tts.ElevenLabsConfig{
			APIKey:       cfg.ElevenLabsAPIKey,
			APIBaseURL:   cfg.ElevenLabsAPIBaseURL,
			VoiceID:      cfg.ElevenLabsVoiceID,
			ModelID:      cfg.ElevenLabsModelID,
			OutputFormat: cfg.ElevenLabsOutputFormat,
			ChunkSize:    cfg.ElevenLabsChunkSize,
			Stability:    cfg.ElevenLabsStability,
			Clarity:      cfg.ElevenLabsClarity,
		}, logger)
		if err != nil {
			logger.Warn("Eleven Labs unavailable, voice output disabled", zap.Error(err))
			return nil
		}
		return engine
	case "mock":
		return tts.NewMockTextToSpeech(logger)
	case "none", "":
		return nil
	default:
		logger.Warn("Unknown TTS provider, voice output disabled", zap.String("provider", cfg.TTSProvider))
		return nil
	}
}
