package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type snapshot struct {
	SessionID  string `json:"session_id"`
	State      string `json:"state"`
	Difficulty struct {
		Rows int `json:"rows"`
		Cols int `json:"cols"`
	} `json:"difficulty"`
}

func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	base := "127.0.0.1:" + port

	conn, _, err := websocket.DefaultDialer.Dial("ws://"+base+"/ws", nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitFor(conn, "ready", 2*time.Second)

	var snap snapshot
	post("http://"+base+"/api/v1/game/new", map[string]any{"difficulty": "beginner"}, &snap)
	log.Printf("session %s (%dx%d)", snap.SessionID, snap.Difficulty.Rows, snap.Difficulty.Cols)

	post("http://"+base+"/api/v1/game/reveal", map[string]any{
		"session_id": snap.SessionID,
		"row":        snap.Difficulty.Rows / 2,
		"col":        snap.Difficulty.Cols / 2,
	}, &snap)
	log.Printf("state after reveal: %s", snap.State)

	// drain whatever the reveal produced
	for {
		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		log.Printf("event: %s", msg)
	}

	log.Println("smoke test finished")
}

func waitFor(conn *websocket.Conn, typ string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Fatalf("waiting for %s: %v", typ, err)
		}
		var obj map[string]any
		_ = json.Unmarshal(msg, &obj)
		if t, ok := obj["type"].(string); ok && t == typ {
			return
		}
	}
	log.Fatalf("no %s message within %s", typ, timeout)
}

func post(url string, body any, out any) {
	b, err := json.Marshal(body)
	if err != nil {
		log.Fatal(err)
	}
	res, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		log.Fatalf("post %s: %v", url, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		log.Fatalf("post %s: %s", url, res.Status)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		log.Fatalf("decode %s: %v", url, err)
	}
	fmt.Fprintf(os.Stderr, "%s -> %s\n", url, res.Status)
}
