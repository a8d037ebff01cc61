// Package chat contains the request orchestration core: streaming
// response aggregation with timing milestones, and the per-request
// pipeline that folds completed replies into session history.
package chat

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/flemzord/ollagate/internal/backend"
)

// Metrics are per-request generation measurements. Derived at stream
// end, never persisted.
type Metrics struct {
	TPS        float64 `json:"tps"`
	TTFTMillis int64   `json:"ttft_ms"`
	ProcessMs  int64   `json:"process_ms"`
	GenerateMs int64   `json:"generate_ms"`
}

// aggregator state machine phases.
type aggState int

const (
	awaitingFirstToken aggState = iota
	streaming
	aggDone
)

// Aggregator consumes a stream of generation chunks, accumulates the
// reply text, and timestamps the milestones needed for TTFT and
// generation-rate metrics. Not safe for concurrent use; one per request.
type Aggregator struct {
	clock func() time.Time

	start        time.Time
	firstTokenAt time.Time
	lastTokenAt  time.Time
	tokens       int
	reply        strings.Builder
	state        aggState
}

// NewAggregator creates an aggregator with the request start stamped
// now. A nil clock means time.Now.
func NewAggregator(clock func() time.Time) *Aggregator {
	if clock == nil {
		clock = time.Now
	}
	return &Aggregator{
		clock: clock,
		start: clock(),
		state: awaitingFirstToken,
	}
}

// Consume processes chunks in arrival order until the done flag, a
// stream error, or cancellation. Chunks after done are never read.
func (a *Aggregator) Consume(ctx context.Context, ch <-chan backend.Chunk) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chunk, ok := <-ch:
			if !ok {
				// Stream ended without an explicit done flag; treat
				// what arrived as the complete reply.
				a.state = aggDone
				return nil
			}
			if chunk.Err != nil {
				return chunk.Err
			}

			if chunk.Content != "" {
				now := a.clock()
				if a.state == awaitingFirstToken {
					a.firstTokenAt = now
					a.state = streaming
				}
				a.lastTokenAt = now
				a.tokens++
				a.reply.WriteString(chunk.Content)
			}

			if chunk.Done {
				a.state = aggDone
				return nil
			}
		}
	}
}

// Result is the assembled outcome of a consumed stream.
type Result struct {
	Reply    string
	Tokens   int
	Duration time.Duration
	Metrics  *Metrics // nil when no token was observed
}

// Finalize derives the result and performance metrics. When no token
// was ever observed the reply is empty and Metrics is nil.
func (a *Aggregator) Finalize() Result {
	total := a.clock().Sub(a.start)

	res := Result{
		Reply:    a.reply.String(),
		Tokens:   a.tokens,
		Duration: total,
	}

	if a.tokens == 0 {
		return res
	}

	ttft := a.firstTokenAt.Sub(a.start).Milliseconds()
	generate := a.lastTokenAt.Sub(a.firstTokenAt).Milliseconds()
	process := total.Milliseconds() - generate
	if process < 0 {
		process = 0
	}

	var tps float64
	if generate > 0 {
		tps = math.Round(float64(a.tokens)/(float64(generate)/1000)*10) / 10
	}

	res.Metrics = &Metrics{
		TPS:        tps,
		TTFTMillis: ttft,
		ProcessMs:  process,
		GenerateMs: generate,
	}
	return res
}
