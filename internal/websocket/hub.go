package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/swasthya-health/swasthya/adapters/stt"
	"github.com/swasthya-health/swasthya/adapters/tts"
	"github.com/swasthya-health/swasthya/domain/entities"
	"github.com/swasthya-health/swasthya/domain/repositories"
	"github.com/swasthya-health/swasthya/usecase"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512 * 1024 // 512KB for audio chunks
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of active clients. Every client owns one conversation.
type Hub struct {
	// Registered clients.
	clients map[string]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Closed when Run returns.
	done chan struct{}

	// Mutex for thread-safe access to clients map
	mu sync.RWMutex

	conversations *usecase.ConversationService
	sttRepo       repositories.SpeechToText
	ttsRepo       repositories.TextToSpeech
	audio         repositories.AudioConfig
	validator     *MessageValidator

	logger *zap.Logger
}

// NewHub creates a new WebSocket hub. A nil sttRepo or ttsRepo disables voice
// input or output; sessions then receive advisories instead.
func NewHub(
	conversations *usecase.ConversationService,
	sttRepo repositories.SpeechToText,
	ttsRepo repositories.TextToSpeech,
	audio repositories.AudioConfig,
	logger *zap.Logger,
) *Hub {
	return &Hub{
		clients:       make(map[string]*Client),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		done:          make(chan struct{}),
		conversations: conversations,
		sttRepo:       sttRepo,
		ttsRepo:       ttsRepo,
		audio:         audio,
		validator:     NewMessageValidator(),
		logger:        logger,
	}
}

// Run starts the hub's main loop. When ctx is done every client is closed.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.id] = client
			h.mu.Unlock()
			h.logger.Info("Client registered",
				zap.String("clientID", client.id),
				zap.String("patientID", client.patient.ID))

		case client := <-h.unregister:
			// shutdown must precede close(send) so no sender races the close
			client.shutdown()
			h.mu.Lock()
			if _, ok := h.clients[client.id]; ok {
				delete(h.clients, client.id)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("clientID", client.id))

		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				client.shutdown()
				delete(h.clients, id)
				close(client.send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// CloseIdle disconnects clients whose connection or conversation has been idle
// for longer than timeout, and returns how many were closed. Conversations
// closed this way are marked expired.
func (h *Hub) CloseIdle(now time.Time, timeout time.Duration) int {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for _, client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	var idle []*Client
	for _, client := range clients {
		driver := client.currentDriver()
		if client.idleSince(now) >= timeout || (driver != nil && driver.Idle(now, timeout)) {
			idle = append(idle, client)
		}
	}

	for _, client := range idle {
		h.logger.Info("Closing idle client", zap.String("clientID", client.id))
		if driver := client.currentDriver(); driver != nil {
			driver.Expire()
		}
		client.shutdown()
		if client.conn != nil {
			client.conn.Close()
		}
	}
	return len(idle)
}

// WriteData is one frame queued for the peer
type WriteData struct {
	// MessageType is the type of the websocket message.
	// Expect websocket.TextMessage or websocket.BinaryMessage
	Type    int
	Payload []byte
}

// Client is a middleman between the websocket connection and its conversation.
type Client struct {
	hub *Hub

	// The websocket connection.
	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan WriteData

	id      string
	patient *entities.Patient
	logger  *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	input    *stt.StreamingInput
	narrator *tts.Narrator

	mutex      sync.Mutex
	driver     *usecase.ConversationDriver
	lastActive time.Time
	closed     bool
}

func newClient(hub *Hub, conn *websocket.Conn, patient *entities.Patient) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.New().String()
	c := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan WriteData, 256),
		id:         id,
		patient:    patient,
		logger:     hub.logger.With(zap.String("clientID", id)),
		ctx:        ctx,
		cancel:     cancel,
		lastActive: time.Now(),
	}
	if hub.sttRepo != nil {
		c.input = stt.NewStreamingInput(hub.sttRepo, hub.audio, c.logger)
	}
	if hub.ttsRepo != nil {
		c.narrator = tts.NewNarrator(hub.ttsRepo, c, c.logger)
	}
	return c
}

// HandleWebSocket upgrades the request for an authenticated patient
func HandleWebSocket(hub *Hub, c echo.Context, patient *entities.Patient) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		hub.logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := newClient(hub, conn, patient)
	select {
	case client.hub.register <- client:
	case <-hub.done:
		conn.Close()
		return errors.New("websocket hub is stopped")
	}

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	return nil
}

// readPump pumps messages from the websocket connection to the conversation.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", zap.Error(err))
			}
			break
		}
		c.touch()

		switch messageType {
		case websocket.TextMessage:
			c.processMessage(message)
		case websocket.BinaryMessage:
			c.processBinaryAudioChunk(message)
		default:
			c.logger.Warn("Received unknown message type", zap.Int("type", messageType))
		}
	}
}

// writePump pumps messages from the conversation to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(message.Type, message.Payload); err != nil {
				c.logger.Error("Failed to write message", zap.Error(err))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// processMessage dispatches a validated control message
func (c *Client) processMessage(message []byte) {
	parsed, err := c.hub.validator.ValidateMessage(message)
	if err != nil {
		c.logger.Warn("Invalid message", zap.Error(err))
		c.sendJSON(CreateErrorMessage(ErrorCodeInvalidMessage, "Invalid message", err.Error()))
		return
	}

	switch msg := parsed.(type) {
	case *SessionStartMessage:
		c.handleSessionStart(msg)
	case *UserMessage:
		c.handleUserMessage(msg)
	case *ProceedMessage:
		c.handleProceed()
	case *AutoSpeakMessage:
		c.withDriver(func(d *usecase.ConversationDriver) { d.SetAutoSpeak(msg.Enabled) })
	case *SpeakMessage:
		c.handleSpeak(msg)
	case *ListeningStartMessage:
		c.handleListeningStart(msg)
	case *ListeningEndMessage:
		c.handleListeningEnd()
	case *PingMessage:
		c.sendJSON(CreatePongMessage(msg.Data))
	}
}

func (c *Client) currentDriver() *usecase.ConversationDriver {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.driver
}

func (c *Client) withDriver(fn func(d *usecase.ConversationDriver)) {
	d := c.currentDriver()
	if d == nil {
		c.sendJSON(CreateErrorMessage(ErrorCodeNoSession, "Start a session first", ""))
		return
	}
	fn(d)
}

// handleSessionStart replaces any running conversation with a new one
func (c *Client) handleSessionStart(msg *SessionStartMessage) {
	lang := entities.ParseLanguage(msg.Language)
	if msg.Language == "" && c.patient != nil && c.patient.PreferredLanguage != "" {
		lang = c.patient.PreferredLanguage
	}

	caps := usecase.SessionCapabilities{OnEvent: c.handleEvent}
	if c.input != nil {
		caps.SpeechInput = c.input
	}
	if c.narrator != nil {
		caps.SpeechOutput = c.narrator
	}

	c.mutex.Lock()
	previous := c.driver
	c.driver = nil
	c.mutex.Unlock()
	if previous != nil {
		previous.Close()
	}

	driver, err := c.hub.conversations.StartSession(c.ctx, usecase.SessionParams{
		HealthType: msg.HealthType,
		Language:   lang,
	}, caps)
	if err != nil {
		c.logger.Error("Failed to start session", zap.Error(err))
		c.sendJSON(CreateErrorMessage(ErrorCodeSessionStart, "Failed to start session", err.Error()))
		return
	}

	c.mutex.Lock()
	if c.closed {
		c.mutex.Unlock()
		driver.Close()
		return
	}
	c.driver = driver
	c.mutex.Unlock()

	c.logger.Info("Conversation session started",
		zap.String("sessionID", driver.SessionID()),
		zap.String("language", lang.String()))
}

func (c *Client) handleUserMessage(msg *UserMessage) {
	c.withDriver(func(d *usecase.ConversationDriver) {
		go func() {
			err := d.Submit(c.ctx, msg.Text, entities.InputMethodText)
			c.reportError(err)
		}()
	})
}

func (c *Client) handleProceed() {
	c.withDriver(func(d *usecase.ConversationDriver) {
		// The handoff itself reaches the peer as a handoff event
		_, err := d.Proceed()
		c.reportError(err)
	})
}

func (c *Client) handleSpeak(msg *SpeakMessage) {
	c.withDriver(func(d *usecase.ConversationDriver) {
		go func() {
			err := d.Speak(c.ctx, msg.MessageID)
			if errors.Is(err, usecase.ErrSpeechUnavailable) {
				// Already reported as an advisory
				return
			}
			c.reportError(err)
		}()
	})
}

// handleListeningStart arms the audio input and runs one voice capture
func (c *Client) handleListeningStart(msg *ListeningStartMessage) {
	c.withDriver(func(d *usecase.ConversationDriver) {
		if c.input != nil {
			c.input.Configure(msg.SampleRate, msg.Encoding)
			c.input.Arm()
		}
		go func() {
			err := d.Capture(c.ctx)
			if errors.Is(err, usecase.ErrSpeechUnavailable) {
				return
			}
			c.reportError(err)
		}()
	})
}

func (c *Client) handleListeningEnd() {
	if c.input == nil {
		return
	}
	if err := c.input.Finish(); err != nil && !errors.Is(err, stt.ErrNoActiveCapture) {
		c.logger.Warn("Failed to finish speech capture", zap.Error(err))
		c.sendJSON(CreateErrorMessage(ErrorCodeSpeech, "Could not recognize speech", err.Error()))
	}
}

// processBinaryAudioChunk handles binary audio data
func (c *Client) processBinaryAudioChunk(data []byte) {
	if c.input == nil {
		c.logger.Debug("Dropping audio chunk, speech input disabled")
		return
	}
	if err := c.input.Write(data); err != nil {
		c.logger.Warn("Failed to stream audio data", zap.Int("size", len(data)), zap.Error(err))
	}
}

// reportError sends driver errors the peer should see. Blank input is ignored.
func (c *Client) reportError(err error) {
	if err == nil || errors.Is(err, usecase.ErrEmptyInput) || errors.Is(err, context.Canceled) {
		return
	}
	c.sendJSON(CreateErrorMessage(errorCode(err), err.Error(), ""))
}

// handleEvent forwards conversation events to the peer
func (c *Client) handleEvent(ev usecase.Event) {
	if msg := EventMessage(ev); msg != nil {
		c.sendJSON(msg)
	}
}

// BeginSpeech implements tts.AudioSink
func (c *Client) BeginSpeech(text string, lang entities.LanguageTag) error {
	return c.enqueue(websocket.TextMessage, mustJSON(&SpeakingStartMessage{
		BaseMessage: newBase(MessageTypeSpeakingStart),
		Text:        text,
		Language:    lang,
	}))
}

// WriteAudio implements tts.AudioSink
func (c *Client) WriteAudio(chunk []byte) error {
	return c.enqueue(websocket.BinaryMessage, chunk)
}

// EndSpeech implements tts.AudioSink
func (c *Client) EndSpeech() error {
	return c.enqueue(websocket.TextMessage, mustJSON(&SpeakingEndMessage{
		BaseMessage: newBase(MessageTypeSpeakingEnd),
	}))
}

var errClientClosed = errors.New("client closed")

func (c *Client) sendJSON(v interface{}) {
	if err := c.enqueue(websocket.TextMessage, mustJSON(v)); err != nil {
		c.logger.Debug("Dropping outbound message", zap.Error(err))
	}
}

// enqueue queues a frame. The client lock guards against sends after the hub
// closed the channel.
func (c *Client) enqueue(messageType int, payload []byte) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return errClientClosed
	}
	select {
	case c.send <- WriteData{Type: messageType, Payload: payload}:
		return nil
	case <-c.ctx.Done():
		return errClientClosed
	}
}

func mustJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(CreateErrorMessage(ErrorCodeInternal, "Failed to encode message", err.Error()))
	}
	return b
}

func (c *Client) touch() {
	c.mutex.Lock()
	c.lastActive = time.Now()
	c.mutex.Unlock()
}

func (c *Client) idleSince(now time.Time) time.Duration {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return now.Sub(c.lastActive)
}

// shutdown closes the conversation and stops further sends. Safe to call
// more than once.
func (c *Client) shutdown() {
	c.cancel()
	c.mutex.Lock()
	c.closed = true
	driver := c.driver
	c.driver = nil
	c.mutex.Unlock()
	if driver != nil {
		driver.Close()
	}
}
