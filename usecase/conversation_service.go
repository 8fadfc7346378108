package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/observability/metrics"
	"github.com/swasthya-health/swasthya/internal/triage"
)

// ConversationService creates conversation drivers that share content, pacing
// and metrics. Every session gets its own driver; nothing else is shared.
type ConversationService struct {
	cfg        DriverConfig
	table      *triage.Table
	classifier *triage.Classifier
	responder  *triage.Responder
	metrics    *metrics.ConsultationMetrics
	logger     *zap.Logger
}

// NewConversationService creates a new conversation service
func NewConversationService(
	cfg DriverConfig,
	table *triage.Table,
	m *metrics.ConsultationMetrics,
	logger *zap.Logger,
) *ConversationService {
	if table == nil {
		table = triage.DefaultTable()
	}
	return &ConversationService{
		cfg:        cfg,
		table:      table,
		classifier: triage.NewClassifier(table),
		responder:  triage.NewResponder(table),
		metrics:    m,
		logger:     logger,
	}
}

// SessionCapabilities are the per-connection collaborators of a session
type SessionCapabilities struct {
	SpeechInput  repositories.SpeechInput
	SpeechOutput repositories.SpeechOutput
	OnEvent      EventHandler
	OnHandoff    func(entities.SymptomHandoff)
}

// StartSession creates a driver and greets the user
func (s *ConversationService) StartSession(ctx context.Context, params SessionParams, caps SessionCapabilities) (*ConversationDriver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	driver, err := NewConversationDriver(params,
		WithDriverConfig(s.cfg),
		WithContent(s.table, s.classifier, s.responder),
		WithMetrics(s.metrics),
		WithLogger(s.logger),
		WithSpeechInput(caps.SpeechInput),
		WithSpeechOutput(caps.SpeechOutput),
		WithEventHandler(caps.OnEvent),
		WithHandoffSink(caps.OnHandoff),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session parameters: %w", err)
	}

	if err := driver.Start(); err != nil {
		return nil, err
	}
	return driver, nil
}

// Languages lists the selectable languages with their content coverage
func (s *ConversationService) Languages() []triage.LanguageCoverage {
	return s.table.Languages()
}
