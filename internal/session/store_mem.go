package session

import "sync"

// InMemoryStore is a thread-safe, in-memory implementation of Store.
// The mutex covers the append-then-trim sequence, so the MaxMessages
// cap holds after every mutation even under concurrent appends.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]Message
}

// NewInMemoryStore creates a new empty session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string][]Message),
	}
}

// Compile-time interface check.
var _ Store = (*InMemoryStore)(nil)

// Get returns the stored messages for a session in chronological order.
func (s *InMemoryStore) Get(sessionID string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}

	result := make([]Message, len(msgs))
	copy(result, msgs)
	return result
}

// Append adds a message to the session's history and trims to the
// last MaxMessages by dropping from the front.
func (s *InMemoryStore) Append(sessionID string, msg Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.sessions[sessionID], msg)
	if len(msgs) > MaxMessages {
		trimmed := make([]Message, MaxMessages)
		copy(trimmed, msgs[len(msgs)-MaxMessages:])
		msgs = trimmed
	}
	s.sessions[sessionID] = msgs
}

// Clear removes a session and reports whether it existed.
func (s *InMemoryStore) Clear(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	return ok
}

// Len returns the number of active sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
