// Package backend provides the client for the inference server that
// generates chat completions, consumed via a streaming chunked protocol.
package backend

import (
	"context"

	"github.com/flemzord/ollagate/internal/session"
)

// Client is the interface for communicating with the inference server.
// The concrete implementation is OllamaClient; tests substitute fakes.
type Client interface {
	// Chat sends a streaming chat request and returns a channel of
	// parsed chunks. Initial connection errors and non-2xx statuses are
	// returned directly. Mid-stream errors are delivered via Chunk.Err.
	Chat(ctx context.Context, req ChatRequest) (<-chan Chunk, error)

	// ListModels returns the models the server has available.
	ListModels(ctx context.Context) ([]Model, error)

	// Ping probes the server for reachability.
	Ping(ctx context.Context) error
}

// ChatRequest is the input to a streaming chat call.
type ChatRequest struct {
	Model    string
	Messages []session.Message
	Options  Options
}

// Chunk is one piece of a streaming chat response.
type Chunk struct {
	Content string
	Done    bool
	Err     error
}

// Model describes one entry from the server's model listing.
type Model struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
}

// Options are generation parameters passed through verbatim to the server.
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	NumPredict    int     `json:"num_predict"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

// DefaultOptions returns the documented generation defaults, applied
// when a request carries no options of its own.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.7,
		TopP:          0.9,
		TopK:          40,
		NumPredict:    512,
		RepeatPenalty: 1.1,
	}
}
