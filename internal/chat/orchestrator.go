package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/flemzord/ollagate/internal/backend"
	"github.com/flemzord/ollagate/internal/metrics"
	"github.com/flemzord/ollagate/internal/prompt"
	"github.com/flemzord/ollagate/internal/session"
)

// Request is one inbound chat exchange.
type Request struct {
	Message   string
	Model     string // empty = default model
	SessionID string // empty = newly generated
	Options   *backend.Options
}

// Response is the outcome of a successful exchange.
type Response struct {
	Reply      string   `json:"reply"`
	Model      string   `json:"model"`
	LatencySec float64  `json:"latency_sec"`
	Tokens     int      `json:"tokens"`
	Metrics    *Metrics `json:"metrics,omitempty"`
}

// Orchestrator composes prompt building, backend streaming, response
// aggregation, and session updates for each chat request.
type Orchestrator struct {
	store        session.Store
	client       backend.Client
	recorder     metrics.Recorder
	logger       *slog.Logger
	tracer       trace.Tracer
	defaultModel string
	clock        func() time.Time
}

// NewOrchestrator wires the orchestrator's collaborators. A nil clock
// means time.Now.
func NewOrchestrator(store session.Store, client backend.Client, recorder metrics.Recorder, defaultModel string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		store:        store,
		client:       client,
		recorder:     recorder,
		logger:       logger,
		tracer:       otel.Tracer("ollagate/chat"),
		defaultModel: defaultModel,
		clock:        time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (o *Orchestrator) WithClock(clock func() time.Time) *Orchestrator {
	o.clock = clock
	return o
}

// HandleChat runs one exchange: build prompt from session history,
// stream the completion, fold the reply into the session, and record
// metrics. The session is mutated only on success; metrics are
// recorded exactly once on every outcome.
func (o *Orchestrator) HandleChat(ctx context.Context, req Request) (*Response, error) {
	model := req.Model
	if model == "" {
		model = o.defaultModel
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ctx, span := o.tracer.Start(ctx, "chat.exchange", trace.WithAttributes(
		attribute.String("chat.model", model),
		attribute.String("chat.session_id", sessionID),
	))
	defer span.End()

	opts := backend.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	history := o.store.Get(sessionID)
	messages := prompt.Messages(history, req.Message)

	agg := NewAggregator(o.clock)

	ch, err := o.client.Chat(ctx, backend.ChatRequest{
		Model:    model,
		Messages: messages,
		Options:  opts,
	})
	if err != nil {
		return nil, o.fail(span, model, err, agg.Finalize().Duration)
	}

	if err := agg.Consume(ctx, ch); err != nil {
		return nil, o.fail(span, model, err, agg.Finalize().Duration)
	}

	res := agg.Finalize()

	o.recorder.RecordRequest(model, "200", res.Duration)
	o.recorder.RecordTokens(model, res.Tokens)

	o.store.Append(sessionID, session.Message{Role: session.RoleUser, Content: req.Message})
	o.store.Append(sessionID, session.Message{Role: session.RoleAssistant, Content: res.Reply})

	span.SetAttributes(attribute.Int("chat.tokens", res.Tokens))
	o.logger.Info("chat completed",
		"model", model,
		"session", sessionID,
		"tokens", res.Tokens,
		"latency", res.Duration.Round(10*time.Millisecond),
	)

	return &Response{
		Reply:      res.Reply,
		Model:      model,
		LatencySec: res.Duration.Seconds(),
		Tokens:     res.Tokens,
		Metrics:    res.Metrics,
	}, nil
}

// fail records error metrics for a failed exchange and wraps the error.
// Caller cancellation is counted as its own outcome, not a backend error;
// a deadline expiry is a backend failure and takes the connection_error
// path like any other transport fault.
func (o *Orchestrator) fail(span trace.Span, model string, err error, elapsed time.Duration) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	switch {
	case errors.Is(err, context.Canceled):
		o.recorder.RecordRequest(model, "cancelled", elapsed)
	default:
		reason := "connection_error"
		if se, ok := backend.AsStatusError(err); ok {
			reason = "status_" + strconv.Itoa(se.Code)
			o.recorder.RecordRequest(model, strconv.Itoa(se.Code), elapsed)
		} else {
			o.recorder.RecordRequest(model, "connection_error", elapsed)
		}
		o.recorder.RecordError(model, reason)
	}

	o.logger.Error("chat failed", "model", model, "error", err)
	return fmt.Errorf("chat: %w", err)
}
