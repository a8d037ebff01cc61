package gateway

import (
	"context"
	"testing"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/chat"
	"github.com/flemzord/ollagate/internal/config"
	"github.com/flemzord/ollagate/internal/metrics"
	"github.com/flemzord/ollagate/internal/session"
)

// fakeBackend is a scripted backend.Client for handler tests.
type fakeBackend struct {
	chunks  []backend.Chunk
	chatErr error

	models    []backend.Model
	modelsErr error

	pingErr error
}

func (f *fakeBackend) Chat(_ context.Context, _ backend.ChatRequest) (<-chan backend.Chunk, error) {
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	ch := make(chan backend.Chunk, len(f.chunks))
	for _, c := range f.chunks {
		ch <- c
	}
	close(ch)
	return ch, nil
}

func (f *fakeBackend) ListModels(context.Context) ([]backend.Model, error) {
	return f.models, f.modelsErr
}

func (f *fakeBackend) Ping(context.Context) error { return f.pingErr }

// newTestGateway builds a gateway with fresh collaborators around the
// given backend.
func newTestGateway(t *testing.T, client backend.Client) *Gateway {
	t.Helper()

	cfg := config.Default()
	store := session.NewInMemoryStore()
	recorder := metrics.NewPromRecorder()
	orchestrator := chat.NewOrchestrator(store, client, recorder, cfg.Backend.DefaultModel, nil)

	return New(cfg, client, store, orchestrator, recorder, nil)
}
