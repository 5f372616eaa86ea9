package domain

import "sync"

// Message roles in a conversation transcript.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// DefaultHistoryLimit is the number of messages kept per conversation.
const DefaultHistoryLimit = 10

// Message is one turn in a conversation transcript.
type Message struct {
	Role    string
	Content string
}

// History keeps a bounded transcript per conversation key. When a
// conversation exceeds the limit, the oldest messages are discarded.
type History struct {
	mu            sync.Mutex
	limit         int
	conversations map[string][]Message
}

// NewHistory creates a History keeping at most limit messages per
// conversation. Non-positive limits fall back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{
		limit:         limit,
		conversations: make(map[string][]Message),
	}
}

// Append adds a message to the conversation, discarding the oldest messages
// beyond the limit.
func (h *History) Append(key, role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	messages := append(h.conversations[key], Message{Role: role, Content: content})
	if len(messages) > h.limit {
		messages = messages[len(messages)-h.limit:]
	}
	h.conversations[key] = messages
}

// Messages returns a copy of the conversation transcript.
func (h *History) Messages(key string) []Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	messages := h.conversations[key]
	out := make([]Message, len(messages))
	copy(out, messages)
	return out
}

// Clear removes the conversation transcript.
func (h *History) Clear(key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conversations, key)
}
