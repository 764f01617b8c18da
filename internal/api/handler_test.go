package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/holla2040/graphql-lexer/internal/store"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return &Handler{
		Store: s,
		Hub:   NewHub(),
	}
}

func newTestServer(t *testing.T, h *Handler) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postLex(t *testing.T, srv *httptest.Server, body lexRequest) (int, lexResponse) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/lex", "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST /lex: %v", err)
	}
	defer resp.Body.Close()

	var out lexResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, out
}

func TestPostLexReturnsTokens(t *testing.T) {
	h := newTestHandler(t)
	srv := newTestServer(t, h)

	status, out := postLex(t, srv, lexRequest{Name: "query.graphql", Source: "{ hero }"})
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if out.Error != nil {
		t.Fatalf("unexpected error: %+v", out.Error)
	}
	// LBrace, hero, RBrace, EndOfFile
	if len(out.Tokens) != 4 {
		t.Fatalf("got %d tokens, want 4: %+v", len(out.Tokens), out.Tokens)
	}
	if out.Tokens[1].Kind != "Name" || out.Tokens[1].Value != "hero" {
		t.Errorf("second token = %+v", out.Tokens[1])
	}
	if out.RequestID == "" {
		t.Error("expected a non-empty request ID")
	}
}

func TestPostLexReturnsSyntaxError(t *testing.T) {
	h := newTestHandler(t)
	srv := newTestServer(t, h)

	status, out := postLex(t, srv, lexRequest{Name: "bad.graphql", Source: "{ ~ }"})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", status)
	}
	if out.Error == nil {
		t.Fatal("expected a SyntaxError in the response")
	}
}

func TestPostLexInvalidBody(t *testing.T) {
	h := newTestHandler(t)
	srv := newTestServer(t, h)

	resp, err := http.Post(srv.URL+"/lex", "application/json", bytes.NewReader([]byte("not json")))
	if err != nil {
		t.Fatalf("POST /lex: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestPostLexPersistsSession(t *testing.T) {
	h := newTestHandler(t)
	srv := newTestServer(t, h)

	_, out := postLex(t, srv, lexRequest{Name: "query.graphql", Source: "{ hero }"})

	sess, err := h.Store.GetSession(out.RequestID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if sess == nil {
		t.Fatal("expected the session to be persisted")
	}
	if sess.Status != "ok" || sess.SourceName != "query.graphql" {
		t.Errorf("got %+v", sess)
	}
}
