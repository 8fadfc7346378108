package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type loginResponse struct {
	Token   string `json:"token"`
	Patient struct {
		Name string `json:"name"`
	} `json:"patient"`
}

type serverMessage struct {
	Type    string `json:"type"`
	State   string `json:"state"`
	Message *struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Handoff *struct {
		CombinedSymptomText string `json:"combined_symptom_text"`
	} `json:"handoff"`
	Kind       string `json:"kind"`
	Code       string `json:"error_code"`
	CanProceed bool   `json:"can_proceed"`
}

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	email := flag.String("email", "test@example.com", "login email")
	password := flag.String("password", "password", "login password")
	healthType := flag.String("type", "physical", "health type: physical or mental")
	language := flag.String("lang", "en", "conversation language")
	flag.Parse()

	// Step 1: Get authentication token
	reqBody, _ := json.Marshal(map[string]string{"email": *email, "password": *password})
	resp, err := http.Post(*server+"/api/v1/auth/login", "application/json", bytes.NewBuffer(reqBody))
	if err != nil {
		log.Fatalf("Failed to log in: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Fatalf("Login failed with status: %d", resp.StatusCode)
	}

	var login loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&login); err != nil {
		log.Fatalf("Failed to decode login response: %v", err)
	}
	fmt.Printf("Logged in as %s\n", login.Patient.Name)

	// Step 2: Connect to WebSocket with token
	base, err := url.Parse(*server)
	if err != nil {
		log.Fatalf("Invalid server URL: %v", err)
	}
	wsURL := url.URL{Scheme: "ws", Host: base.Host, Path: "/ws"}
	if base.Scheme == "https" {
		wsURL.Scheme = "wss"
	}
	q := wsURL.Query()
	q.Set("token", login.Token)
	wsURL.RawQuery = q.Encode()

	conn, wsResp, err := websocket.DefaultDialer.Dial(wsURL.String(), nil)
	if err != nil {
		if wsResp != nil {
			log.Fatalf("WebSocket connection failed with status %d: %v", wsResp.StatusCode, err)
		}
		log.Fatalf("WebSocket connection failed: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go readLoop(conn, done)

	send(conn, map[string]string{"type": "session_start", "health_type": *healthType, "language": *language})
	fmt.Println("Type your answers. Commands: /proceed, /speak on|off, /quit")

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "/quit":
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case line == "/proceed":
			send(conn, map[string]string{"type": "proceed"})
		case strings.HasPrefix(line, "/speak "):
			send(conn, map[string]interface{}{"type": "auto_speak", "enabled": strings.TrimPrefix(line, "/speak ") == "on"})
		default:
			send(conn, map[string]string{"type": "user_message", "text": line})
		}

		select {
		case <-done:
			return
		default:
		}
	}
}

func send(conn *websocket.Conn, v interface{}) {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	if err := conn.WriteJSON(v); err != nil {
		log.Fatalf("Failed to send message: %v", err)
	}
}

func readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	audioBytes := 0
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			fmt.Printf("Connection closed: %v\n", err)
			return
		}
		if messageType == websocket.BinaryMessage {
			audioBytes += len(data)
			continue
		}

		var msg serverMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			fmt.Printf("Unreadable message: %s\n", data)
			continue
		}

		switch msg.Type {
		case "message":
			if msg.Message != nil && msg.Message.Role == "ai" {
				fmt.Printf("\nAssistant: %s\n> ", msg.Message.Content)
			}
		case "state":
			if msg.CanProceed {
				fmt.Print("(you can /proceed to results)\n> ")
			}
		case "advisory":
			fmt.Printf("[notice] %s\n", msg.Kind)
		case "handoff":
			fmt.Printf("Symptoms recorded: %q\n", msg.Handoff.CombinedSymptomText)
		case "speaking_end":
			fmt.Printf("[audio] %d bytes\n", audioBytes)
			audioBytes = 0
		case "error":
			fmt.Printf("[error] %s\n", msg.Code)
		}
	}
}
