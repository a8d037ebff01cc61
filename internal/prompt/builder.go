// Package prompt builds backend input from session history and a new
// user message, bounding the prompt with a fixed context window and
// per-message truncation.
package prompt

import (
	"strings"
	"unicode/utf8"

	"github.com/flemzord/ollagate/internal/session"
)

const (
	// ContextWindow is the number of trailing history messages included
	// in a prompt. Independent of the session storage cap.
	ContextWindow = 4

	// MaxContentLen is the character budget for a single history message
	// before truncation.
	MaxContentLen = 200

	ellipsis = "..."
)

// truncate cuts content to the first MaxContentLen characters, marking
// the cut with an ellipsis. Content at or under the budget is untouched.
// The cut counts characters, not bytes, so multi-byte runes are never
// split mid-sequence.
func truncate(content string) string {
	if utf8.RuneCountInString(content) <= MaxContentLen {
		return content
	}
	runes := []rune(content)
	return string(runes[:MaxContentLen]) + ellipsis
}

// recent returns the trailing ContextWindow messages of history.
func recent(history []session.Message) []session.Message {
	if len(history) <= ContextWindow {
		return history
	}
	return history[len(history)-ContextWindow:]
}

// Messages builds a structured message list for chat-style backends:
// the last ContextWindow history messages (truncated) followed by the
// new user message.
func Messages(history []session.Message, userMessage string) []session.Message {
	window := recent(history)

	msgs := make([]session.Message, 0, len(window)+1)
	for _, m := range window {
		msgs = append(msgs, session.Message{
			Role:    m.Role,
			Content: truncate(m.Content),
		})
	}
	msgs = append(msgs, session.Message{
		Role:    session.RoleUser,
		Content: userMessage,
	})
	return msgs
}

// Flat renders the same context window as alternating "Human:" and
// "Assistant:" lines with a trailing "Assistant:" cue, for backends
// that take a single text prompt. Empty history degenerates to the
// new message verbatim.
func Flat(history []session.Message, userMessage string) string {
	if len(history) == 0 {
		return userMessage
	}

	var parts []string
	for _, m := range recent(history) {
		switch m.Role {
		case session.RoleUser:
			parts = append(parts, "Human: "+m.Content)
		case session.RoleAssistant:
			parts = append(parts, "Assistant: "+truncate(m.Content))
		}
	}

	parts = append(parts, "Human: "+userMessage)
	parts = append(parts, "Assistant:")

	return strings.Join(parts, "\n")
}
