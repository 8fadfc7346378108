package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "ANALYSIS_DELAY", "REPLY_DELAY", "PROCEED_AFTER_TURNS", "COMPLETE_AFTER_TURNS", "SPEECH_PROVIDER", "ELEVEN_LABS_STABILITY", "PRODUCTION"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.AnalysisDelay != 2*time.Second {
		t.Fatalf("expected default analysis delay, got %s", cfg.AnalysisDelay)
	}
	if cfg.ReplyDelay != 1500*time.Millisecond {
		t.Fatalf("expected default reply delay, got %s", cfg.ReplyDelay)
	}
	if cfg.ProceedAfterTurns != 2 || cfg.CompleteAfterTurns != 4 {
		t.Fatalf("expected thresholds 2/4, got %d/%d", cfg.ProceedAfterTurns, cfg.CompleteAfterTurns)
	}
	if cfg.SpeechProvider != "mock" {
		t.Fatalf("expected mock speech provider, got %s", cfg.SpeechProvider)
	}
	if cfg.IsProduction() {
		t.Fatalf("expected development by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("ANALYSIS_DELAY", "0s")
	t.Setenv("CLOSING_DELAY", "250ms")
	t.Setenv("PROCEED_AFTER_TURNS", "3")
	t.Setenv("COMPLETE_AFTER_TURNS", "6")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("ELEVEN_LABS_STABILITY", "0.8")
	t.Setenv("ELEVEN_LABS_CLARITY", "1.5")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.AnalysisDelay != 0 {
		t.Fatalf("expected zero analysis delay, got %s", cfg.AnalysisDelay)
	}
	if cfg.ClosingDelay != 250*time.Millisecond {
		t.Fatalf("expected closing delay override, got %s", cfg.ClosingDelay)
	}
	if cfg.ProceedAfterTurns != 3 || cfg.CompleteAfterTurns != 6 {
		t.Fatalf("expected thresholds 3/6, got %d/%d", cfg.ProceedAfterTurns, cfg.CompleteAfterTurns)
	}
	if cfg.TokenTTL != time.Hour {
		t.Fatalf("expected token ttl override, got %s", cfg.TokenTTL)
	}
	if cfg.ElevenLabsStability != 0.8 {
		t.Fatalf("expected stability override, got %f", cfg.ElevenLabsStability)
	}
	if cfg.ElevenLabsClarity != 0 {
		t.Fatalf("expected out of range clarity to be ignored, got %f", cfg.ElevenLabsClarity)
	}
	if !cfg.IsProduction() {
		t.Fatalf("expected production env")
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REPLY_DELAY", "soon")
	t.Setenv("PROCEED_AFTER_TURNS", "two")
	cfg := Load()
	if cfg.ReplyDelay != 1500*time.Millisecond {
		t.Fatalf("expected default reply delay, got %s", cfg.ReplyDelay)
	}
	if cfg.ProceedAfterTurns != 2 {
		t.Fatalf("expected default proceed threshold, got %d", cfg.ProceedAfterTurns)
	}
}
