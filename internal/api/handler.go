// Package api is the HTTP and WebSocket front end for graphql-lexd:
// POST /lex tokenizes a document and returns the token list or a
// SyntaxError as JSON, and GET /ws streams one JSON message per token
// as a large document is scanned.
//
// Grounded on internal/api/handler.go's Handler/writeJSON/RegisterRoutes
// shape and server/internal/api/websocket.go's Hub/Client broadcast
// design.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/holla2040/graphql-lexer/internal/cache"
	"github.com/holla2040/graphql-lexer/internal/lexer"
	"github.com/holla2040/graphql-lexer/internal/store"
)

// lexRequest is the JSON body for POST /lex.
type lexRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// tokenView is the JSON shape of one scanned token in an API response.
type tokenView struct {
	Kind   string `json:"kind"`
	Start  int    `json:"start"`
	End    int    `json:"end"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Value  string `json:"value,omitempty"`
}

// errorView is the JSON shape of a lexer.SyntaxError in an API response.
type errorView struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// lexResponse is the JSON body returned by POST /lex.
type lexResponse struct {
	RequestID string      `json:"request_id"`
	Tokens    []tokenView `json:"tokens,omitempty"`
	Error     *errorView  `json:"error,omitempty"`
}

// Handler holds all dependencies for HTTP and WebSocket request handling.
type Handler struct {
	Store      *store.Store
	Cache      *cache.Cache
	Hub        *Hub
	StrictMode bool
}

// RegisterRoutes adds every graphql-lexd route to mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /lex", h.postLex)
	mux.HandleFunc("GET /ws", h.Hub.HandleWebSocket)
}

// postLex tokenizes a submitted document end to end and returns either
// the full token list or the SyntaxError that stopped the scan.
func (h *Handler) postLex(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()

	var req lexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		req.Name = "GraphQL request"
	}

	body := []byte(req.Source)
	key := cache.Key(req.Name, body)
	if h.Cache != nil {
		if cached, found, err := h.Cache.Get(r.Context(), key); err == nil && found {
			log.Printf("lex %s: cache hit for %s", requestID, req.Name)
			writeJSON(w, http.StatusOK, lexResponse{RequestID: requestID, Tokens: fromCacheRecords(cached)})
			return
		}
	}

	sessionID := requestID
	if h.Store != nil {
		if err := h.Store.CreateSession(sessionID, req.Name, len(body)); err != nil {
			log.Printf("lex %s: create session: %v", requestID, err)
		}
	}

	var opts []lexer.Option
	if h.StrictMode {
		opts = append(opts, lexer.StrictMode())
	}
	lx, err := lexer.New(body, opts...)
	if err != nil {
		h.respondError(w, requestID, sessionID, 1, 1, err.Error())
		return
	}

	var tokens []tokenView
	for {
		more, err := lx.Advance()
		if err != nil {
			line, column := lx.Line(), lx.Column()
			if se, ok := err.(*lexer.SyntaxError); ok {
				line, column = se.Line, se.Column
			}
			h.respondError(w, requestID, sessionID, line, column, err.Error())
			return
		}
		tokens = append(tokens, tokenView{
			Kind:   lx.Kind().String(),
			Start:  lx.Start(),
			End:    lx.End(),
			Line:   lx.Line(),
			Column: lx.Column(),
			Value:  string(lx.Value()),
		})
		if !more {
			break
		}
	}

	if h.Store != nil {
		if err := h.Store.FinishSession(sessionID, len(tokens), "ok"); err != nil {
			log.Printf("lex %s: finish session: %v", requestID, err)
		}
	}
	if h.Cache != nil {
		if err := h.Cache.Put(r.Context(), key, toCacheRecords(tokens)); err != nil {
			log.Printf("lex %s: cache put: %v", requestID, err)
		}
	}

	writeJSON(w, http.StatusOK, lexResponse{RequestID: requestID, Tokens: tokens})
}

func (h *Handler) respondError(w http.ResponseWriter, requestID, sessionID string, line, column int, message string) {
	log.Printf("lex %s: syntax error at %d:%d: %s", requestID, line, column, message)
	if h.Store != nil {
		if err := h.Store.RecordError(sessionID, line, column, message); err != nil {
			log.Printf("lex %s: record error: %v", requestID, err)
		}
		if err := h.Store.FinishSession(sessionID, 0, "error"); err != nil {
			log.Printf("lex %s: finish session: %v", requestID, err)
		}
	}
	writeJSON(w, http.StatusUnprocessableEntity, lexResponse{
		RequestID: requestID,
		Error:     &errorView{Line: line, Column: column, Message: message},
	})
}

func fromCacheRecords(recs []cache.TokenRecord) []tokenView {
	views := make([]tokenView, len(recs))
	for i, r := range recs {
		views[i] = tokenView{Kind: r.Kind, Start: r.Start, End: r.End, Line: r.Line, Column: r.Column, Value: r.Value}
	}
	return views
}

func toCacheRecords(views []tokenView) []cache.TokenRecord {
	recs := make([]cache.TokenRecord, len(views))
	for i, v := range views {
		recs[i] = cache.TokenRecord{Kind: v.Kind, Start: v.Start, End: v.End, Line: v.Line, Column: v.Column, Value: v.Value}
	}
	return recs
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
