package backend

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// scannerBufferSize is the max token size for the NDJSON line scanner.
// A single chat chunk can carry a large content fragment; the default
// bufio.Scanner limit is ~64 KiB which is too small.
const scannerBufferSize = 1 * 1024 * 1024 // 1 MB

// ollamaStreamChunk is one NDJSON line of a streaming /api/chat response.
type ollamaStreamChunk struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}

// sendChunk sends a Chunk on ch, respecting context cancellation.
// Returns false if the context was cancelled (caller should return).
func sendChunk(ctx context.Context, ch chan<- Chunk, chunk Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}

// parseStream reads NDJSON lines from the response body and emits
// parsed Chunks on the returned channel. The channel is closed when
// the stream ends, either by the done flag, an error, or cancellation.
// The body is closed on every exit path.
func (c *OllamaClient) parseStream(ctx context.Context, body io.ReadCloser) <-chan Chunk {
	ch := make(chan Chunk, 16)

	go func() {
		defer close(ch)
		defer body.Close()

		scanner := bufio.NewScanner(body)
		scanner.Buffer(make([]byte, 0, scannerBufferSize), scannerBufferSize)
		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				sendChunk(ctx, ch, Chunk{Err: err})
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var chunk ollamaStreamChunk
			if err := json.Unmarshal([]byte(line), &chunk); err != nil {
				// Best-effort parsing: skip malformed lines rather
				// than aborting the whole stream.
				c.logger.Debug("skipping malformed stream line", "error", err)
				continue
			}

			if !sendChunk(ctx, ch, Chunk{Content: chunk.Message.Content, Done: chunk.Done}) {
				return
			}

			// Stop consuming once the server signals completion,
			// regardless of any remaining stream content.
			if chunk.Done {
				return
			}
		}

		// Scanner error (connection drop, etc.)
		if err := scanner.Err(); err != nil {
			if ctx.Err() != nil {
				sendChunk(ctx, ch, Chunk{Err: ctx.Err()})
			} else {
				sendChunk(ctx, ch, Chunk{Err: fmt.Errorf("%w: stream read error: %w", ErrUnreachable, err)})
			}
		}
	}()

	return ch
}
