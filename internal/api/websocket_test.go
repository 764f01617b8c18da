package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nhooyr.io/websocket"
)

func TestHubStartsAndStops(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop")
	}
}

func TestHubClientCount(t *testing.T) {
	hub := NewHub()
	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients, got %d", hub.ClientCount())
	}
}

func TestHubStreamsTokens(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + srv.URL[4:] // http -> ws
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	req, err := json.Marshal(wsLexRequest{Name: "query.graphql", Source: "{ hero }"})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	writeCtx, writeCancel := context.WithTimeout(ctx, time.Second)
	defer writeCancel()
	if err := conn.Write(writeCtx, websocket.MessageText, req); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var events []wsEvent
	for {
		readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
		_, data, err := conn.Read(readCtx)
		readCancel()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var evt wsEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		events = append(events, evt)
		if evt.Type == "done" || evt.Type == "error" {
			break
		}
	}

	tokenCount := 0
	for _, evt := range events {
		if evt.Type == "token" {
			tokenCount++
		}
		if evt.Type == "error" {
			t.Fatalf("unexpected error event: %+v", evt)
		}
	}
	// LBrace, hero, RBrace, EndOfFile
	if tokenCount != 4 {
		t.Errorf("got %d token events, want 4", tokenCount)
	}
	if events[len(events)-1].Type != "done" {
		t.Errorf("expected the stream to end with a done event, got %s", events[len(events)-1].Type)
	}
}

func TestHubStreamsSyntaxError(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + srv.URL[4:]
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	req, _ := json.Marshal(wsLexRequest{Name: "bad.graphql", Source: "{ ~ }"})
	writeCtx, writeCancel := context.WithTimeout(ctx, time.Second)
	defer writeCancel()
	if err := conn.Write(writeCtx, websocket.MessageText, req); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var saw bool
	for i := 0; i < 10; i++ {
		readCtx, readCancel := context.WithTimeout(ctx, 2*time.Second)
		_, data, err := conn.Read(readCtx)
		readCancel()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		var evt wsEvent
		json.Unmarshal(data, &evt)
		if evt.Type == "error" {
			saw = true
			break
		}
		if evt.Type == "done" {
			break
		}
	}
	if !saw {
		t.Error("expected an error event for an invalid document")
	}
}

func TestHubClientDisconnect(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	defer srv.Close()

	wsURL := "ws" + srv.URL[4:]
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	if hub.ClientCount() != 1 {
		t.Fatalf("expected 1 client, got %d", hub.ClientCount())
	}

	conn.Close(websocket.StatusNormalClosure, "done")

	time.Sleep(100 * time.Millisecond)
	if hub.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after disconnect, got %d", hub.ClientCount())
	}
}
