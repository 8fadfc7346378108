package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/internal/observability/metrics"
	"github.com/swasthya-health/swasthya/internal/triage"
)

var driverTracer = otel.Tracer("swasthya/usecase/conversation")

var (
	ErrEmptyInput           = errors.New("input is empty")
	ErrNotStarted           = errors.New("conversation has not started")
	ErrResponsePending      = errors.New("a response is still pending")
	ErrEmergencyHalted      = errors.New("conversation halted after emergency advice")
	ErrConversationComplete = errors.New("conversation is already complete")
	ErrSessionClosed        = errors.New("session is closed")
	ErrNotReady             = errors.New("not enough information to proceed")
	ErrSpeechUnavailable    = errors.New("speech is unavailable")
	ErrMessageNotFound      = errors.New("message not found")
)

// Completion reasons reported to metrics
const (
	completionScript    = "script_complete"
	completionProceed   = "proceed"
	completionEmergency = "emergency"
	completionAbandoned = "abandoned"
)

// Advisory kinds
const (
	AdvisorySpeechInputUnavailable  = "speech_input_unavailable"
	AdvisorySpeechOutputUnavailable = "speech_output_unavailable"
)

// DriverConfig holds the pacing and thresholds of a conversation
type DriverConfig struct {
	AnalysisDelay time.Duration
	FollowUpDelay time.Duration
	ReplyDelay    time.Duration
	ClosingDelay  time.Duration
	// ProceedAfterTurns is the turn count from which the user may proceed to results
	ProceedAfterTurns int
	// CompleteAfterTurns is the number of answered follow-up exchanges after which
	// the script closes itself
	CompleteAfterTurns int
}

// DefaultDriverConfig returns the standard pacing
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		AnalysisDelay:      2 * time.Second,
		FollowUpDelay:      2 * time.Second,
		ReplyDelay:         1500 * time.Millisecond,
		ClosingDelay:       3 * time.Second,
		ProceedAfterTurns:  2,
		CompleteAfterTurns: 4,
	}
}

// SessionParams are fixed for the lifetime of a session
type SessionParams struct {
	HealthType entities.HealthType
	Language   entities.LanguageTag
}

// EventType identifies what changed in a conversation
type EventType string

const (
	EventMessage    EventType = "message"
	EventState      EventType = "state"
	EventTranscript EventType = "transcript"
	EventAdvisory   EventType = "advisory"
	EventHandoff    EventType = "handoff"
)

// Advisory is a user-visible notice that does not end the conversation
type Advisory struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Event is delivered to the EventHandler after the driver state changed
type Event struct {
	Type       EventType
	SessionID  string
	Message    *entities.Message
	State      entities.ConversationState
	TurnCount  int
	CanProceed bool
	IsComplete bool
	Urgency    entities.UrgencyLevel
	Transcript *repositories.Transcript
	Advisory   *Advisory
	Handoff    *entities.SymptomHandoff
}

// EventHandler observes a conversation. It is called without any driver lock held.
type EventHandler func(Event)

// DriverOption customizes a ConversationDriver
type DriverOption func(*ConversationDriver)

// WithDriverConfig sets pacing and thresholds
func WithDriverConfig(cfg DriverConfig) DriverOption {
	return func(d *ConversationDriver) {
		d.cfg = cfg
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) DriverOption {
	return func(d *ConversationDriver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithSpeechInput enables voice capture
func WithSpeechInput(in repositories.SpeechInput) DriverOption {
	return func(d *ConversationDriver) {
		d.speechIn = in
	}
}

// WithSpeechOutput enables narration
func WithSpeechOutput(out repositories.SpeechOutput) DriverOption {
	return func(d *ConversationDriver) {
		d.speechOut = out
	}
}

// WithMetrics records consultation metrics
func WithMetrics(m *metrics.ConsultationMetrics) DriverOption {
	return func(d *ConversationDriver) {
		d.metrics = m
	}
}

// WithEventHandler registers the conversation observer
func WithEventHandler(h EventHandler) DriverOption {
	return func(d *ConversationDriver) {
		d.onEvent = h
	}
}

// WithHandoffSink receives the finalized symptom record once per session
func WithHandoffSink(sink func(entities.SymptomHandoff)) DriverOption {
	return func(d *ConversationDriver) {
		d.handoffSink = sink
	}
}

// WithContent replaces the classifier, responder and content table
func WithContent(table *triage.Table, classifier *triage.Classifier, responder *triage.Responder) DriverOption {
	return func(d *ConversationDriver) {
		if table != nil {
			d.table = table
		}
		if classifier != nil {
			d.classifier = classifier
		}
		if responder != nil {
			d.responder = responder
		}
	}
}

// ConversationDriver runs one symptom conversation. The first user message is
// classified; every later one gets the next line of the follow-up script.
// Submissions are serialized: a second submission while a response is pending
// is rejected.
type ConversationDriver struct {
	cfg         DriverConfig
	table       *triage.Table
	classifier  *triage.Classifier
	responder   *triage.Responder
	speechIn    repositories.SpeechInput
	speechOut   repositories.SpeechOutput
	metrics     *metrics.ConsultationMetrics
	logger      *zap.Logger
	onEvent     EventHandler
	handoffSink func(entities.SymptomHandoff)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	session   *entities.ConversationSession
	started   bool
	pending   bool
	closed    bool
	autoSpeak bool
	analysis  *entities.SymptomAnalysis
	handoff   *entities.SymptomHandoff
}

// NewConversationDriver creates a driver for a new session. Call Start to greet the user.
func NewConversationDriver(params SessionParams, opts ...DriverOption) (*ConversationDriver, error) {
	if params.Language == "" {
		params.Language = entities.DefaultLanguage
	}
	session := entities.NewConversationSession(params.HealthType, params.Language)
	if err := session.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &ConversationDriver{
		cfg:     DefaultDriverConfig(),
		table:   triage.DefaultTable(),
		logger:  zap.NewNop(),
		ctx:     ctx,
		cancel:  cancel,
		session: session,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.classifier == nil {
		d.classifier = triage.NewClassifier(d.table)
	}
	if d.responder == nil {
		d.responder = triage.NewResponder(d.table)
	}
	d.logger = d.logger.With(zap.String("sessionID", d.session.ID))
	return d, nil
}

// SessionID returns the ID of the underlying session
func (d *ConversationDriver) SessionID() string {
	return d.session.ID
}

// Start appends the greeting and waits for the first user message. The greeting
// is never narrated automatically.
func (d *ConversationDriver) Start() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	if d.started {
		d.mu.Unlock()
		return nil
	}
	greeting := entities.NewMessage(entities.MessageRoleAI, d.table.Greeting(d.session.HealthType, d.session.Language))
	d.session.AppendMessage(greeting)
	d.session.State = entities.StateAwaitingFirstInput
	d.started = true
	events := []Event{d.messageEventLocked(greeting), d.stateEventLocked()}
	d.mu.Unlock()

	d.logger.Info("Conversation started",
		zap.String("healthType", string(d.session.HealthType)),
		zap.String("language", d.session.Language.String()))
	d.emit(events...)
	return nil
}

// Submit handles one user message and blocks until the response cycle is done.
// Blank input returns ErrEmptyInput without touching the transcript.
func (d *ConversationDriver) Submit(ctx context.Context, text string, method entities.InputMethod) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	if method.Validate() != nil {
		method = entities.InputMethodText
	}

	d.mu.Lock()
	if err := d.acceptLocked(); err != nil {
		d.mu.Unlock()
		return err
	}
	d.pending = true
	firstTurn := d.session.TurnCount == 0
	// Abandoned cycles leave unanswered user messages behind; the script only
	// advances for answered ones.
	prior := d.session.UserTurns()
	if len(prior) > d.session.TurnCount {
		prior = prior[:d.session.TurnCount]
	}
	userMsg := entities.NewMessage(entities.MessageRoleUser, text)
	d.session.AppendMessage(userMsg)
	d.session.InputMethod = method
	turn := d.session.TurnCount
	events := []Event{d.messageEventLocked(userMsg)}
	d.mu.Unlock()
	d.emit(events...)

	defer func() {
		d.mu.Lock()
		d.pending = false
		d.mu.Unlock()
	}()

	ctx, span := driverTracer.Start(ctx, "conversation.submit")
	defer span.End()
	span.SetAttributes(
		attribute.String("swasthya.session_id", d.session.ID),
		attribute.String("swasthya.language", d.session.Language.String()),
		attribute.String("swasthya.input_method", string(method)),
		attribute.Int("swasthya.turn", turn),
	)

	started := time.Now()
	var err error
	if firstTurn {
		err = d.analyze(ctx, text)
		d.metrics.ObserveResponseLatency("analysis", time.Since(started).Seconds())
	} else {
		err = d.reply(ctx, text, prior)
		d.metrics.ObserveResponseLatency("reply", time.Since(started).Seconds())
	}
	if err != nil {
		span.RecordError(err)
		d.logger.Debug("Response cycle abandoned", zap.Error(err))
	}
	return err
}

func (d *ConversationDriver) acceptLocked() error {
	switch {
	case d.closed:
		return ErrSessionClosed
	case !d.started:
		return ErrNotStarted
	case d.pending:
		return ErrResponsePending
	case d.session.State == entities.StateEmergencyHalted:
		return ErrEmergencyHalted
	case d.session.IsComplete:
		return ErrConversationComplete
	}
	return nil
}

// analyze handles the first user message
func (d *ConversationDriver) analyze(ctx context.Context, text string) error {
	analysis := d.classifyOnce(text)

	if err := d.wait(ctx, d.cfg.AnalysisDelay); err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	msg := d.appendAILocked(analysis.ResponseText)
	d.session.TurnCount = 1
	if analysis.IsEmergency() {
		d.session.State = entities.StateEmergencyHalted
	} else {
		d.session.State = entities.StateAwaitingFollowUp
	}
	events := []Event{d.messageEventLocked(msg), d.stateEventLocked()}
	halted := d.session.State == entities.StateEmergencyHalted
	d.mu.Unlock()
	d.emit(events...)
	d.metrics.ObserveTurn(string(events[1].State))

	if halted {
		d.logger.Warn("Emergency symptoms reported, conversation halted")
		d.metrics.ObserveCompletion(completionEmergency)
		return nil
	}
	if len(analysis.FollowUpQuestions) == 0 {
		return nil
	}

	if err := d.wait(ctx, d.cfg.FollowUpDelay); err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	question := d.appendAILocked(analysis.FollowUpQuestions[0])
	events = []Event{d.messageEventLocked(question)}
	d.mu.Unlock()
	d.emit(events...)
	return nil
}

// classifyOnce classifies the first user message. When that message's cycle was
// abandoned, later submissions get the stored result instead of a new one.
func (d *ConversationDriver) classifyOnce(text string) entities.SymptomAnalysis {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analysis != nil {
		return *d.analysis
	}

	lang := d.session.Language
	analysis := d.classifier.Classify(text, lang)
	match := d.classifier.Match(text)
	d.analysis = &analysis
	d.metrics.ObserveClassification(string(analysis.UrgencyLevel), match.Tier, lang.String())
	d.logger.Info("Symptoms classified",
		zap.String("urgency", string(analysis.UrgencyLevel)),
		zap.String("tier", match.Tier),
		zap.String("keyword", match.Keyword))
	return analysis
}

// reply handles every user message after the first
func (d *ConversationDriver) reply(ctx context.Context, text string, prior []string) error {
	line := d.responder.Respond(text, prior, d.session.Language)

	if err := d.wait(ctx, d.cfg.ReplyDelay); err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	msg := d.appendAILocked(line)
	d.session.TurnCount++
	closing := d.session.TurnCount-1 >= d.cfg.CompleteAfterTurns
	events := []Event{d.messageEventLocked(msg), d.stateEventLocked()}
	d.mu.Unlock()
	d.emit(events...)
	d.metrics.ObserveTurn(string(events[1].State))

	if !closing {
		return nil
	}

	if err := d.wait(ctx, d.cfg.ClosingDelay); err != nil {
		return err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	closingMsg := d.appendAILocked(d.table.Closing(d.session.Language))
	handoff := d.completeLocked()
	events = []Event{d.messageEventLocked(closingMsg), d.stateEventLocked(), d.handoffEventLocked(handoff)}
	d.mu.Unlock()

	d.logger.Info("Conversation complete", zap.Int("turns", events[1].TurnCount))
	d.metrics.ObserveCompletion(completionScript)
	d.emit(events...)
	d.deliver(handoff)
	return nil
}

// CanProceed reports whether the user may move on to results
func (d *ConversationDriver) CanProceed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.canProceedLocked()
}

func (d *ConversationDriver) canProceedLocked() bool {
	if d.closed || d.session.State == entities.StateEmergencyHalted {
		return false
	}
	return d.session.IsComplete || d.session.TurnCount >= d.cfg.ProceedAfterTurns
}

// Proceed finalizes the conversation and returns the symptom handoff. Calling it
// again returns the same record without delivering it twice.
func (d *ConversationDriver) Proceed() (entities.SymptomHandoff, error) {
	d.mu.Lock()
	switch {
	case d.closed:
		d.mu.Unlock()
		return entities.SymptomHandoff{}, ErrSessionClosed
	case d.session.State == entities.StateEmergencyHalted:
		d.mu.Unlock()
		return entities.SymptomHandoff{}, ErrEmergencyHalted
	case d.handoff != nil:
		h := *d.handoff
		d.mu.Unlock()
		return h, nil
	case d.pending:
		d.mu.Unlock()
		return entities.SymptomHandoff{}, ErrResponsePending
	case !d.canProceedLocked():
		d.mu.Unlock()
		return entities.SymptomHandoff{}, ErrNotReady
	}
	handoff := d.completeLocked()
	events := []Event{d.stateEventLocked(), d.handoffEventLocked(handoff)}
	d.mu.Unlock()

	d.logger.Info("User proceeded to results", zap.Int("turns", events[0].TurnCount))
	d.metrics.ObserveCompletion(completionProceed)
	d.emit(events...)
	d.deliver(handoff)
	return handoff, nil
}

func (d *ConversationDriver) completeLocked() entities.SymptomHandoff {
	d.session.IsComplete = true
	d.session.State = entities.StateReadyForResults
	handoff := entities.NewSymptomHandoff(d.session)
	d.handoff = &handoff
	return handoff
}

func (d *ConversationDriver) deliver(handoff entities.SymptomHandoff) {
	if d.handoffSink != nil {
		d.handoffSink(handoff)
	}
}

// Capture records one voice answer and submits it. When no speech input is
// available an advisory is raised and the conversation stays in text mode.
func (d *ConversationDriver) Capture(ctx context.Context) error {
	d.mu.Lock()
	err := d.acceptLocked()
	d.mu.Unlock()
	if err != nil {
		return err
	}

	if d.speechIn == nil {
		d.advise(AdvisorySpeechInputUnavailable, "Voice input is not available. Please type your symptoms instead.")
		return ErrSpeechUnavailable
	}

	results, err := d.speechIn.StartCapture(ctx, d.session.Language)
	if err != nil {
		d.logger.Warn("Speech capture failed to start", zap.Error(err))
		d.advise(AdvisorySpeechInputUnavailable, "Voice input is not available. Please type your symptoms instead.")
		return fmt.Errorf("%w: %w", ErrSpeechUnavailable, err)
	}

	var text string
	for done := false; !done; {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.ctx.Done():
			return ErrSessionClosed
		case tr, ok := <-results:
			if !ok {
				done = true
				break
			}
			text = tr.Text
			d.emit(Event{Type: EventTranscript, SessionID: d.session.ID, Transcript: &tr})
			done = tr.IsFinal
		}
	}

	d.logger.Debug("Speech captured", zap.String("text", text))
	return d.Submit(ctx, text, entities.InputMethodVoice)
}

// SetAutoSpeak turns automatic narration of new ai messages on or off
func (d *ConversationDriver) SetAutoSpeak(enabled bool) {
	d.mu.Lock()
	d.autoSpeak = enabled
	d.mu.Unlock()
}

// Speak narrates a transcript message and waits for the narration to finish
func (d *ConversationDriver) Speak(ctx context.Context, messageID string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrSessionClosed
	}
	msg, ok := d.session.FindMessage(messageID)
	d.mu.Unlock()
	if !ok {
		return ErrMessageNotFound
	}
	return d.narrate(ctx, msg)
}

func (d *ConversationDriver) narrate(ctx context.Context, msg entities.Message) error {
	if d.speechOut == nil {
		d.advise(AdvisorySpeechOutputUnavailable, "Voice output is not available. Responses are shown as text.")
		return ErrSpeechUnavailable
	}

	done, err := d.speechOut.Speak(ctx, msg.Content, d.session.Language)
	if err != nil {
		d.logger.Warn("Speech output failed to start", zap.Error(err))
		d.advise(AdvisorySpeechOutputUnavailable, "Voice output is not available. Responses are shown as text.")
		return fmt.Errorf("%w: %w", ErrSpeechUnavailable, err)
	}

	select {
	case err := <-done:
		if errors.Is(err, repositories.ErrCapabilityUnavailable) {
			d.advise(AdvisorySpeechOutputUnavailable, "Voice output is not available. Responses are shown as text.")
			return fmt.Errorf("%w: %w", ErrSpeechUnavailable, err)
		}
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-d.ctx.Done():
		return ErrSessionClosed
	}
}

func (d *ConversationDriver) advise(kind, message string) {
	d.metrics.ObserveSpeechAdvisory(kind)
	d.emit(Event{
		Type:      EventAdvisory,
		SessionID: d.session.ID,
		Advisory:  &Advisory{Kind: kind, Message: message},
	})
}

// Close tears the session down. Pending delays are cancelled and nothing is
// appended afterwards. Calling Close more than once is a no-op.
func (d *ConversationDriver) Close() {
	d.shutdown(false)
}

// Expire closes an idle session, recording it as expired rather than terminated
func (d *ConversationDriver) Expire() {
	d.shutdown(true)
}

func (d *ConversationDriver) shutdown(expired bool) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	complete := d.session.IsComplete || d.session.State == entities.StateEmergencyHalted
	if expired {
		d.session.Expire()
	} else {
		d.session.Terminate()
	}
	d.cancel()
	events := []Event{d.stateEventLocked()}
	d.mu.Unlock()

	if !complete {
		d.metrics.ObserveCompletion(completionAbandoned)
	}
	d.logger.Info("Conversation closed", zap.Bool("expired", expired))
	d.emit(events...)
}

// Idle reports whether the session has had no transcript activity for longer
// than timeout, or has outlived its TTL. A response in progress is never idle.
func (d *ConversationDriver) Idle(now time.Time, timeout time.Duration) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending || d.closed {
		return false
	}
	return d.session.IsExpired(now) || (timeout > 0 && d.session.IsIdle(now, timeout))
}

// Snapshot returns a copy of the current session
func (d *ConversationDriver) Snapshot() entities.ConversationSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session.Snapshot()
}

// Analysis returns the classification of the first message, if any. It is
// recorded before the analysis delay, so it is set while that response is pending.
func (d *ConversationDriver) Analysis() (entities.SymptomAnalysis, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.analysis == nil {
		return entities.SymptomAnalysis{}, false
	}
	return *d.analysis, true
}

// wait blocks for delay unless the session or the call is cancelled first
func (d *ConversationDriver) wait(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		select {
		case <-d.ctx.Done():
			return ErrSessionClosed
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-d.ctx.Done():
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *ConversationDriver) appendAILocked(content string) entities.Message {
	msg := entities.NewMessage(entities.MessageRoleAI, content)
	d.session.AppendMessage(msg)
	if d.autoSpeak {
		go func() {
			if err := d.narrate(d.ctx, msg); err != nil && !errors.Is(err, ErrSessionClosed) {
				d.logger.Debug("Auto speak failed", zap.Error(err))
			}
		}()
	}
	return msg
}

func (d *ConversationDriver) messageEventLocked(msg entities.Message) Event {
	ev := d.stateEventLocked()
	ev.Type = EventMessage
	ev.Message = &msg
	return ev
}

func (d *ConversationDriver) stateEventLocked() Event {
	ev := Event{
		Type:       EventState,
		SessionID:  d.session.ID,
		State:      d.session.State,
		TurnCount:  d.session.TurnCount,
		CanProceed: d.canProceedLocked(),
		IsComplete: d.session.IsComplete,
	}
	if d.analysis != nil && d.session.TurnCount > 0 {
		ev.Urgency = d.analysis.UrgencyLevel
	}
	return ev
}

func (d *ConversationDriver) handoffEventLocked(h entities.SymptomHandoff) Event {
	ev := d.stateEventLocked()
	ev.Type = EventHandoff
	ev.Handoff = &h
	return ev
}

func (d *ConversationDriver) emit(events ...Event) {
	if d.onEvent == nil {
		return
	}
	for _, ev := range events {
		d.onEvent(ev)
	}
}
