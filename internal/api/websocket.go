package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"github.com/holla2040/graphql-lexer/internal/lexer"
)

// wsLexRequest is the JSON message a client sends to start a streamed lex.
type wsLexRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// wsEvent is the JSON envelope pushed to a streaming client: one "token"
// event per scanned token, or one "error" event if the scan fails, or a
// final "done" event.
type wsEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket client connections and streams tokens to them as
// documents are lexed. Grounded on server/internal/api/websocket.go's
// register/unregister/broadcast channel design.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]bool

	registerCh   chan *Client
	unregisterCh chan *Client
}

// Client wraps a single WebSocket connection.
type Client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a new WebSocket hub.
func NewHub() *Hub {
	return &Hub{
		clients:      make(map[*Client]bool),
		registerCh:   make(chan *Client, 16),
		unregisterCh: make(chan *Client, 16),
	}
}

// Run processes register/unregister events. Blocks until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case client := <-h.registerCh:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregisterCh:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleWebSocket upgrades the request and streams one JSON event per
// token scanned from the client's submitted document.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("websocket: accept failed: %v", err)
		return
	}

	client := &Client{
		conn: conn,
		send: make(chan []byte, 64),
	}
	h.registerCh <- client

	go h.writePump(r.Context(), client)
	h.readAndLex(r.Context(), client)
}

// readAndLex reads one lex request message, streams a token event per
// scanned token, then a final done/error event.
func (h *Hub) readAndLex(ctx context.Context, c *Client) {
	defer func() { h.unregisterCh <- c }()

	_, data, err := c.conn.Read(ctx)
	if err != nil {
		return
	}

	var req wsLexRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.send(c, "error", map[string]string{"message": "invalid request: " + err.Error()})
		return
	}
	if req.Name == "" {
		req.Name = "GraphQL request"
	}

	lx, err := lexer.New([]byte(req.Source))
	if err != nil {
		h.send(c, "error", map[string]string{"message": err.Error()})
		return
	}

	count := 0
	for {
		more, err := lx.Advance()
		if err != nil {
			h.send(c, "error", map[string]string{"message": err.Error()})
			return
		}
		h.send(c, "token", tokenView{
			Kind:   lx.Kind().String(),
			Start:  lx.Start(),
			End:    lx.End(),
			Line:   lx.Line(),
			Column: lx.Column(),
			Value:  string(lx.Value()),
		})
		count++
		if !more {
			break
		}
	}
	h.send(c, "done", map[string]int{"token_count": count})
}

// send marshals an event and enqueues it on the client's send channel,
// dropping it if the client is too far behind.
func (h *Hub) send(c *Client, eventType string, payload interface{}) {
	data, err := json.Marshal(wsEvent{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("websocket: failed to marshal event: %v", err)
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// writePump relays messages from the client's send channel to the socket.
func (h *Hub) writePump(ctx context.Context, c *Client) {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.conn.Write(writeCtx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
