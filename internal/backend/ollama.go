package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ollama wire types for JSON serialization.

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Options  Options         `json:"options"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaTagsResponse struct {
	Models []Model `json:"models"`
}

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// OllamaClient talks to an Ollama-compatible inference server.
type OllamaClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Compile-time interface check.
var _ Client = (*OllamaClient)(nil)

// NewOllamaClient creates a client for the given base URL. The
// header timeout bounds connection and response initiation; the full
// streaming exchange is bounded by the caller's context.
func NewOllamaClient(baseURL string, headerTimeout time.Duration, logger *slog.Logger) *OllamaClient {
	if logger == nil {
		logger = slog.Default()
	}
	// A global client timeout would kill long-running generation
	// streams; bound header arrival instead and let the per-request
	// context handle the rest.
	return &OllamaClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: &http.Transport{
				ResponseHeaderTimeout: headerTimeout,
			},
		},
		logger: logger,
	}
}

// Chat sends a streaming request to /api/chat and returns a channel of
// parsed chunks. The response body is closed on every exit path.
func (c *OllamaClient) Chat(ctx context.Context, req ChatRequest) (<-chan Chunk, error) {
	messages := make([]ollamaMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = ollamaMessage{Role: string(m.Role), Content: m.Content}
	}

	payload, err := json.Marshal(ollamaChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   true,
		Options:  req.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("backend: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		_ = resp.Body.Close()
		c.logger.Error("backend returned error status",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return c.parseStream(ctx, resp.Body), nil
}

// ListModels fetches the server's model listing from /api/tags.
func (c *OllamaClient) ListModels(ctx context.Context) ([]Model, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("backend: decode tags: %w", err)
	}

	models := make([]Model, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			models = append(models, m)
		}
	}
	return models, nil
}

// Ping probes /api/tags for reachability. A non-200 answer is a
// StatusError; a transport failure wraps ErrUnreachable.
func (c *OllamaClient) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBodySize))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
