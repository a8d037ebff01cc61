// Package session provides bounded per-session conversation history
// storage with an in-memory implementation.
package session

// Role identifies the sender of a message in a conversation.
type Role string

// Role constants for conversation messages.
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry in a conversation. Immutable once created.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// MaxMessages is the number of messages retained per session. Older
// messages are evicted front-first when the cap is exceeded.
const MaxMessages = 20

// Store manages per-session conversation history.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the stored messages for a session in chronological
	// order. Unknown session ids yield an empty result, not an error.
	Get(sessionID string) []Message

	// Append adds a message to the session's history, creating the
	// session on first use and trimming to the last MaxMessages.
	Append(sessionID string, msg Message)

	// Clear removes a session and reports whether it existed.
	Clear(sessionID string) bool

	// Len returns the number of active sessions.
	Len() int
}
