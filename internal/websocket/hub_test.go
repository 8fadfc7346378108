package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/swasthya-health/swasthya/adapters/stt"
	"github.com/swasthya-health/swasthya/adapters/tts"
	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/usecase"
)

type inbound struct {
	Type       MessageType              `json:"type"`
	State      string                   `json:"state"`
	TurnCount  int                      `json:"turn_count"`
	CanProceed bool                     `json:"can_proceed"`
	Message    *entities.Message        `json:"message"`
	Handoff    *entities.SymptomHandoff `json:"handoff"`
	Transcript *repositories.Transcript `json:"transcript"`
	Kind       string                   `json:"kind"`
	Code       string                   `json:"error_code"`
	Data       string                   `json:"data"`
}

func fastConfig() usecase.DriverConfig {
	return usecase.DriverConfig{ProceedAfterTurns: 2, CompleteAfterTurns: 4}
}

func setupTestHub(t testing.TB, sttRepo repositories.SpeechToText, ttsRepo repositories.TextToSpeech) *Hub {
	logger := zap.NewNop()
	conversations := usecase.NewConversationService(fastConfig(), nil, nil, logger)
	hub := NewHub(conversations, sttRepo, ttsRepo, repositories.AudioConfig{SampleRate: 16000, Encoding: "LINEAR16"}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub
}

func dial(t *testing.T, hub *Hub) *websocket.Conn {
	e := echo.New()
	e.GET("/ws", func(c echo.Context) error {
		return HandleWebSocket(hub, c, &entities.Patient{ID: "1", Name: "John Doe", PreferredLanguage: entities.LanguageEnglish})
	})
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, v interface{}) {
	t.Helper()
	if err := ws.WriteJSON(v); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}
}

// readUntil reads text frames until match accepts one. Binary frames are counted.
func readUntil(t *testing.T, ws *websocket.Conn, match func(inbound) bool) (inbound, int) {
	t.Helper()
	binary := 0
	ws.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		messageType, data, err := ws.ReadMessage()
		if err != nil {
			t.Fatalf("Failed to read message: %v", err)
		}
		if messageType == websocket.BinaryMessage {
			binary += len(data)
			continue
		}
		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("Invalid JSON from server: %v", err)
		}
		if match(msg) {
			return msg, binary
		}
	}
}

func ofType(typ MessageType) func(inbound) bool {
	return func(m inbound) bool { return m.Type == typ }
}

func startSession(t *testing.T, ws *websocket.Conn) entities.Message {
	send(t, ws, map[string]string{"type": "session_start", "health_type": "physical", "language": "en"})
	greeting, _ := readUntil(t, ws, ofType(MessageTypeMessage))
	if greeting.Message == nil || greeting.Message.Role != entities.MessageRoleAI {
		t.Fatalf("Expected greeting from ai, got %+v", greeting)
	}
	state, _ := readUntil(t, ws, ofType(MessageTypeState))
	if state.State != string(entities.StateAwaitingFirstInput) {
		t.Fatalf("Expected awaiting_first_input, got %s", state.State)
	}
	return *greeting.Message
}

// submit sends a typed answer, retrying while the previous cycle is finishing
func submit(t *testing.T, ws *websocket.Conn, text string) {
	t.Helper()
	for attempt := 0; attempt < 20; attempt++ {
		send(t, ws, map[string]string{"type": "user_message", "text": text})
		msg, _ := readUntil(t, ws, func(m inbound) bool {
			return m.Type == MessageTypeError || (m.Type == MessageTypeMessage && m.Message != nil && m.Message.Content == text)
		})
		if msg.Type == MessageTypeMessage {
			return
		}
		if msg.Code != ErrorCodeResponsePending {
			t.Fatalf("Unexpected error %s", msg.Code)
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Submission kept being rejected")
}

func TestHub_ConversationToHandoff(t *testing.T) {
	hub := setupTestHub(t, nil, nil)
	ws := dial(t, hub)

	startSession(t, ws)

	submit(t, ws, "I have a headache")
	readUntil(t, ws, func(m inbound) bool { return m.Type == MessageTypeState && m.TurnCount == 1 })

	submit(t, ws, "since yesterday")
	state, _ := readUntil(t, ws, func(m inbound) bool { return m.Type == MessageTypeState && m.TurnCount == 2 })
	if !state.CanProceed {
		t.Fatal("Expected to be able to proceed after two turns")
	}

	var handoff inbound
	for attempt := 0; attempt < 20; attempt++ {
		send(t, ws, map[string]string{"type": "proceed"})
		handoff, _ = readUntil(t, ws, func(m inbound) bool { return m.Type == MessageTypeHandoff || m.Type == MessageTypeError })
		if handoff.Type == MessageTypeHandoff {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if handoff.Handoff == nil {
		t.Fatalf("Expected handoff, got %+v", handoff)
	}
	if handoff.Handoff.CombinedSymptomText != "I have a headache since yesterday" {
		t.Errorf("Unexpected combined text %q", handoff.Handoff.CombinedSymptomText)
	}
	if handoff.Handoff.HealthType != entities.HealthTypePhysical {
		t.Errorf("Unexpected health type %s", handoff.Handoff.HealthType)
	}
}

func TestHub_EmergencyHalts(t *testing.T) {
	hub := setupTestHub(t, nil, nil)
	ws := dial(t, hub)
	startSession(t, ws)

	submit(t, ws, "I have chest pain")
	state, _ := readUntil(t, ws, ofType(MessageTypeState))
	if state.State != string(entities.StateEmergencyHalted) {
		t.Fatalf("Expected emergency_halted, got %s", state.State)
	}

	var errMsg inbound
	for attempt := 0; attempt < 20; attempt++ {
		send(t, ws, map[string]string{"type": "user_message", "text": "hello?"})
		errMsg, _ = readUntil(t, ws, ofType(MessageTypeError))
		if errMsg.Code != ErrorCodeResponsePending {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if errMsg.Code != ErrorCodeHalted {
		t.Errorf("Expected %s, got %s", ErrorCodeHalted, errMsg.Code)
	}
}

func TestHub_PingAndErrors(t *testing.T) {
	hub := setupTestHub(t, nil, nil)
	ws := dial(t, hub)

	send(t, ws, map[string]string{"type": "ping", "data": "hi"})
	pong, _ := readUntil(t, ws, ofType(MessageTypePong))
	if pong.Data != "hi" {
		t.Errorf("Expected pong data hi, got %q", pong.Data)
	}

	ws.WriteMessage(websocket.TextMessage, []byte("not json"))
	errMsg, _ := readUntil(t, ws, ofType(MessageTypeError))
	if errMsg.Code != ErrorCodeInvalidMessage {
		t.Errorf("Expected %s, got %s", ErrorCodeInvalidMessage, errMsg.Code)
	}

	send(t, ws, map[string]string{"type": "user_message", "text": "hello"})
	errMsg, _ = readUntil(t, ws, ofType(MessageTypeError))
	if errMsg.Code != ErrorCodeNoSession {
		t.Errorf("Expected %s, got %s", ErrorCodeNoSession, errMsg.Code)
	}
}

func TestHub_SpeakStreamsAudio(t *testing.T) {
	hub := setupTestHub(t, nil, tts.NewMockTextToSpeech(zaptest.NewLogger(t)))
	ws := dial(t, hub)
	greeting := startSession(t, ws)

	send(t, ws, map[string]string{"type": "speak", "message_id": greeting.ID})
	start, _ := readUntil(t, ws, ofType(MessageTypeSpeakingStart))
	if start.Type != MessageTypeSpeakingStart {
		t.Fatal("Expected speaking_start")
	}
	_, audio := readUntil(t, ws, ofType(MessageTypeSpeakingEnd))
	if audio == 0 {
		t.Error("Expected binary audio between speaking_start and speaking_end")
	}
}

func TestHub_SpeakWithoutOutputIsAdvisory(t *testing.T) {
	hub := setupTestHub(t, nil, nil)
	ws := dial(t, hub)
	greeting := startSession(t, ws)

	send(t, ws, map[string]string{"type": "speak", "message_id": greeting.ID})
	advisory, _ := readUntil(t, ws, ofType(MessageTypeAdvisory))
	if advisory.Kind != usecase.AdvisorySpeechOutputUnavailable {
		t.Errorf("Unexpected advisory kind %s", advisory.Kind)
	}
}

func TestHub_VoiceAnswer(t *testing.T) {
	hub := setupTestHub(t, stt.NewMockSpeechToText(zaptest.NewLogger(t)), nil)
	ws := dial(t, hub)
	startSession(t, ws)

	send(t, ws, map[string]interface{}{"type": "listening_start", "sample_rate": 16000, "encoding": "LINEAR16"})
	if err := ws.WriteMessage(websocket.BinaryMessage, make([]byte, 12000)); err != nil {
		t.Fatalf("Failed to send audio: %v", err)
	}
	send(t, ws, map[string]string{"type": "listening_end"})

	transcript, _ := readUntil(t, ws, ofType(MessageTypeTranscript))
	if transcript.Transcript == nil || !transcript.Transcript.IsFinal {
		t.Fatalf("Expected final transcript, got %+v", transcript)
	}
	userMsg, _ := readUntil(t, ws, func(m inbound) bool {
		return m.Type == MessageTypeMessage && m.Message != nil && m.Message.Role == entities.MessageRoleUser
	})
	if userMsg.Message.Content != "I have had a headache and mild fever since yesterday." {
		t.Errorf("Unexpected voice answer %q", userMsg.Message.Content)
	}
}

func TestHub_VoiceUnavailable(t *testing.T) {
	hub := setupTestHub(t, nil, nil)
	ws := dial(t, hub)
	startSession(t, ws)

	send(t, ws, map[string]string{"type": "listening_start"})
	advisory, _ := readUntil(t, ws, ofType(MessageTypeAdvisory))
	if advisory.Kind != usecase.AdvisorySpeechInputUnavailable {
		t.Errorf("Unexpected advisory kind %s", advisory.Kind)
	}
}

func TestHub_CloseIdle(t *testing.T) {
	logger := zap.NewNop()
	hub := NewHub(usecase.NewConversationService(fastConfig(), nil, nil, logger), nil, nil, repositories.AudioConfig{}, logger)

	idle := newClient(hub, nil, &entities.Patient{ID: "1"})
	active := newClient(hub, nil, &entities.Patient{ID: "2"})
	hub.clients[idle.id] = idle
	hub.clients[active.id] = active

	now := time.Now()
	idle.lastActive = now.Add(-time.Hour)

	if closed := hub.CloseIdle(now, 30*time.Minute); closed != 1 {
		t.Fatalf("Expected one idle client closed, got %d", closed)
	}
	if !idle.closed {
		t.Error("Idle client should be shut down")
	}
	if active.closed {
		t.Error("Active client should stay open")
	}
	if err := idle.WriteAudio([]byte{1}); err == nil {
		t.Error("Expected writes to a closed client to fail")
	}
}

func TestHub_CloseIdleExpiresStaleConversation(t *testing.T) {
	logger := zap.NewNop()
	conversations := usecase.NewConversationService(fastConfig(), nil, nil, logger)
	hub := NewHub(conversations, nil, nil, repositories.AudioConfig{}, logger)

	chatting := newClient(hub, nil, &entities.Patient{ID: "1"})
	waiting := newClient(hub, nil, &entities.Patient{ID: "2"})
	hub.clients[chatting.id] = chatting
	hub.clients[waiting.id] = waiting

	driver, err := conversations.StartSession(context.Background(), usecase.SessionParams{
		HealthType: entities.HealthTypePhysical,
		Language:   entities.LanguageEnglish,
	}, usecase.SessionCapabilities{})
	if err != nil {
		t.Fatalf("Failed to start session: %v", err)
	}
	chatting.driver = driver

	// both connections keep pinging, but the conversation has not moved for an hour
	later := time.Now().Add(time.Hour)
	chatting.lastActive = later
	waiting.lastActive = later

	if closed := hub.CloseIdle(later, 30*time.Minute); closed != 1 {
		t.Fatalf("Expected one stale conversation closed, got %d", closed)
	}
	if !chatting.closed || waiting.closed {
		t.Errorf("Expected only the stale conversation's client closed (chatting=%v waiting=%v)", chatting.closed, waiting.closed)
	}

	snap := driver.Snapshot()
	if snap.Status != entities.SessionStatusExpired {
		t.Errorf("Expected session status %s, got %s", entities.SessionStatusExpired, snap.Status)
	}
	if snap.State != entities.StateClosed {
		t.Errorf("Expected state %s, got %s", entities.StateClosed, snap.State)
	}
	if err := driver.Submit(context.Background(), "cough", entities.InputMethodText); !errors.Is(err, usecase.ErrSessionClosed) {
		t.Errorf("Expected ErrSessionClosed after expiry, got %v", err)
	}
}

type countingCloser struct{ calls atomic.Int32 }

func (c *countingCloser) CloseIdle(now time.Time, timeout time.Duration) int {
	c.calls.Add(1)
	return 0
}

func TestSessionCleanupService(t *testing.T) {
	target := &countingCloser{}
	svc := NewSessionCleanupService(target, time.Minute, 5*time.Millisecond, zaptest.NewLogger(t))
	svc.Start()

	deadline := time.Now().Add(time.Second)
	for target.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	svc.Stop()
	svc.Stop()

	if target.calls.Load() == 0 {
		t.Error("Expected cleanup to run at least once")
	}

	disabled := NewSessionCleanupService(target, 0, time.Minute, zaptest.NewLogger(t))
	if disabled.runCleanup() != 0 {
		t.Error("Expected disabled cleanup to do nothing")
	}
}
