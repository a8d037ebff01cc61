package chat_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/chat"
	"github.com/flemzord/ollagate/internal/session"
)

// fakeClient is a scripted backend for orchestrator tests.
type fakeClient struct {
	chunks  []backend.Chunk
	callErr error

	mu      sync.Mutex
	lastReq backend.ChatRequest
}

func (f *fakeClient) Chat(_ context.Context, req backend.ChatRequest) (<-chan backend.Chunk, error) {
	f.mu.Lock()
	f.lastReq = req
	f.mu.Unlock()

	if f.callErr != nil {
		return nil, f.callErr
	}
	ch := make(chan backend.Chunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (f *fakeClient) ListModels(context.Context) ([]backend.Model, error) { return nil, nil }
func (f *fakeClient) Ping(context.Context) error                          { return nil }

func (f *fakeClient) request() backend.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq
}

// fakeRecorder captures metric calls for assertion.
type fakeRecorder struct {
	mu       sync.Mutex
	requests []string // "model/status"
	tokens   int
	errors   []string // "model/reason"
}

func (r *fakeRecorder) RecordRequest(model, status string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, model+"/"+status)
}

func (r *fakeRecorder) RecordTokens(_ string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tokens += n
}

func (r *fakeRecorder) RecordError(model, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, model+"/"+reason)
}

func (r *fakeRecorder) SetBackendUp(bool) {}

func replyChunks(parts ...string) []backend.Chunk {
	var chunks []backend.Chunk
	for _, p := range parts {
		chunks = append(chunks, backend.Chunk{Content: p})
	}
	return append(chunks, backend.Chunk{Done: true})
}

func TestHandleChat_Success(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	client := &fakeClient{chunks: replyChunks("Hel", "lo")}
	rec := &fakeRecorder{}

	o := chat.NewOrchestrator(store, client, rec, "phi4-mini:latest", nil)

	resp, err := o.HandleChat(context.Background(), chat.Request{
		Message:   "say hello",
		SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}

	if resp.Reply != "Hello" {
		t.Errorf("Reply = %q, want Hello", resp.Reply)
	}
	if resp.Model != "phi4-mini:latest" {
		t.Errorf("Model = %q, want default", resp.Model)
	}
	if resp.Tokens != 2 {
		t.Errorf("Tokens = %d, want 2", resp.Tokens)
	}
	if resp.Metrics == nil {
		t.Error("Metrics = nil, want derived metrics")
	}

	// User then assistant, in that order.
	history := store.Get("s1")
	if len(history) != 2 {
		t.Fatalf("history length = %d, want 2", len(history))
	}
	if history[0].Role != session.RoleUser || history[0].Content != "say hello" {
		t.Errorf("history[0] = %+v, want user message", history[0])
	}
	if history[1].Role != session.RoleAssistant || history[1].Content != "Hello" {
		t.Errorf("history[1] = %+v, want assistant reply", history[1])
	}

	if len(rec.requests) != 1 || rec.requests[0] != "phi4-mini:latest/200" {
		t.Errorf("requests = %v, want one 200", rec.requests)
	}
	if rec.tokens != 2 {
		t.Errorf("tokens recorded = %d, want 2", rec.tokens)
	}
	if len(rec.errors) != 0 {
		t.Errorf("errors = %v, want none", rec.errors)
	}
}

func TestHandleChat_ModelOverride(t *testing.T) {
	t.Parallel()

	client := &fakeClient{chunks: replyChunks("ok")}
	o := chat.NewOrchestrator(session.NewInMemoryStore(), client, &fakeRecorder{}, "default-model", nil)

	resp, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", Model: "llama3:8b"})
	if err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}
	if resp.Model != "llama3:8b" {
		t.Errorf("Model = %q, want llama3:8b", resp.Model)
	}
	if client.request().Model != "llama3:8b" {
		t.Errorf("backend model = %q, want llama3:8b", client.request().Model)
	}
}

func TestHandleChat_GeneratesSessionID(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	o := chat.NewOrchestrator(store, &fakeClient{chunks: replyChunks("ok")}, &fakeRecorder{}, "m", nil)

	if _, err := o.HandleChat(context.Background(), chat.Request{Message: "hi"}); err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}

	if store.Len() != 1 {
		t.Errorf("sessions = %d, want 1 (history stored under a generated id)", store.Len())
	}
}

func TestHandleChat_Options(t *testing.T) {
	t.Parallel()

	client := &fakeClient{chunks: replyChunks("ok")}
	o := chat.NewOrchestrator(session.NewInMemoryStore(), client, &fakeRecorder{}, "m", nil)

	// No options on the request: documented defaults apply.
	if _, err := o.HandleChat(context.Background(), chat.Request{Message: "hi"}); err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}
	if got := client.request().Options; got != backend.DefaultOptions() {
		t.Errorf("options = %+v, want defaults", got)
	}

	// Custom options pass through verbatim.
	custom := backend.Options{Temperature: 0.2, TopP: 0.5, TopK: 10, NumPredict: 64, RepeatPenalty: 1.0}
	if _, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", Options: &custom}); err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}
	if got := client.request().Options; got != custom {
		t.Errorf("options = %+v, want %+v", got, custom)
	}
}

func TestHandleChat_PromptUsesHistoryWindow(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	for i := 0; i < 6; i++ {
		store.Append("s1", session.Message{Role: session.RoleUser, Content: strings.Repeat("x", 10)})
	}

	client := &fakeClient{chunks: replyChunks("ok")}
	o := chat.NewOrchestrator(store, client, &fakeRecorder{}, "m", nil)

	if _, err := o.HandleChat(context.Background(), chat.Request{Message: "new", SessionID: "s1"}); err != nil {
		t.Fatalf("HandleChat: unexpected error: %v", err)
	}

	// 4 history messages + the new one.
	if got := len(client.request().Messages); got != 5 {
		t.Errorf("prompt messages = %d, want 5", got)
	}
}

func TestHandleChat_StatusError(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	store.Append("s1", session.Message{Role: session.RoleUser, Content: "earlier"})

	client := &fakeClient{callErr: &backend.StatusError{Code: http.StatusNotFound}}
	rec := &fakeRecorder{}
	o := chat.NewOrchestrator(store, client, rec, "m", nil)

	_, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", SessionID: "s1"})
	if err == nil {
		t.Fatal("HandleChat: expected error, got nil")
	}
	if se, ok := backend.AsStatusError(err); !ok || se.Code != http.StatusNotFound {
		t.Errorf("error = %v, want StatusError 404", err)
	}

	// No session mutation on failure.
	if got := store.Get("s1"); len(got) != 1 {
		t.Errorf("history length = %d, want 1 (unchanged)", len(got))
	}
	if len(rec.errors) != 1 || rec.errors[0] != "m/status_404" {
		t.Errorf("errors = %v, want one status_404", rec.errors)
	}
	if len(rec.requests) != 1 || rec.requests[0] != "m/404" {
		t.Errorf("requests = %v, want one 404", rec.requests)
	}
}

func TestHandleChat_ConnectionError(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	client := &fakeClient{callErr: backend.ErrUnreachable}
	rec := &fakeRecorder{}
	o := chat.NewOrchestrator(store, client, rec, "m", nil)

	_, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", SessionID: "s1"})
	if !errors.Is(err, backend.ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}

	if store.Len() != 0 {
		t.Error("session created despite failure")
	}
	if len(rec.errors) != 1 || rec.errors[0] != "m/connection_error" {
		t.Errorf("errors = %v, want one connection_error", rec.errors)
	}
	if len(rec.requests) != 1 || rec.requests[0] != "m/connection_error" {
		t.Errorf("requests = %v, want one connection_error", rec.requests)
	}
}

func TestHandleChat_MidStreamError(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	client := &fakeClient{chunks: []backend.Chunk{
		{Content: "par"},
		{Err: backend.ErrUnreachable},
	}}
	rec := &fakeRecorder{}
	o := chat.NewOrchestrator(store, client, rec, "m", nil)

	_, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", SessionID: "s1"})
	if !errors.Is(err, backend.ErrUnreachable) {
		t.Errorf("error = %v, want ErrUnreachable", err)
	}

	// No partial reply committed.
	if store.Len() != 0 {
		t.Error("partial reply committed to session on mid-stream failure")
	}
	if rec.tokens != 0 {
		t.Errorf("tokens recorded = %d, want 0", rec.tokens)
	}
}

func TestHandleChat_Timeout(t *testing.T) {
	t.Parallel()

	store := session.NewInMemoryStore()
	client := &fakeClient{callErr: context.DeadlineExceeded}
	rec := &fakeRecorder{}
	o := chat.NewOrchestrator(store, client, rec, "m", nil)

	_, err := o.HandleChat(context.Background(), chat.Request{Message: "hi", SessionID: "s1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}

	// A deadline expiry is a backend failure, not a caller abort.
	if len(rec.requests) != 1 || rec.requests[0] != "m/connection_error" {
		t.Errorf("requests = %v, want one connection_error on timeout", rec.requests)
	}
	if len(rec.errors) != 1 || rec.errors[0] != "m/connection_error" {
		t.Errorf("errors = %v, want one connection_error on timeout", rec.errors)
	}
	if store.Len() != 0 {
		t.Error("session mutated on timeout")
	}
}

func TestHandleChat_Cancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := session.NewInMemoryStore()
	client := &fakeClient{callErr: context.Canceled}
	rec := &fakeRecorder{}
	o := chat.NewOrchestrator(store, client, rec, "m", nil)

	_, err := o.HandleChat(ctx, chat.Request{Message: "hi", SessionID: "s1"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}

	if store.Len() != 0 {
		t.Error("session mutated on cancellation")
	}
	// One request outcome, no backend error counter.
	if len(rec.requests) != 1 || rec.requests[0] != "m/cancelled" {
		t.Errorf("requests = %v, want one cancelled", rec.requests)
	}
	if len(rec.errors) != 0 {
		t.Errorf("errors = %v, want none on cancellation", rec.errors)
	}
}
