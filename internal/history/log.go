// Package history holds the in-memory message log of a chat session.
package history

import (
	"sync"
	"time"

	"github.com/diogo/offsum/internal/models"
)

// Log is an ordered, append-only sequence of messages.
// Insertion order is display order. The log lives as long as its session.
type Log struct {
	mu        sync.RWMutex
	messages  []models.Message
	updatedAt time.Time
}

// NewLog creates an empty log
func NewLog() *Log {
	return &Log{
		messages:  []models.Message{},
		updatedAt: time.Now(),
	}
}

// Append adds a message to the end of the log. Text is stored verbatim.
func (l *Log) Append(role models.Role, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, models.Message{Role: role, Content: text})
	l.updatedAt = time.Now()
}

// Seed appends a batch of messages in order
func (l *Log) Seed(messages ...models.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.messages = append(l.messages, messages...)
	l.updatedAt = time.Now()
}

// Clear empties the log unconditionally
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Replace rather than truncate so earlier snapshots stay intact
	l.messages = []models.Message{}
	l.updatedAt = time.Now()
}

// Messages returns a snapshot of the log
func (l *Log) Messages() []models.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}

// IsEmpty reports whether the welcome screen should be shown
func (l *Log) IsEmpty() bool {
	return l.Len() == 0
}

// Last returns the most recent message with the given role
func (l *Log) Last(role models.Role) (models.Message, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i := len(l.messages) - 1; i >= 0; i-- {
		if l.messages[i].Role == role {
			return l.messages[i], true
		}
	}
	return models.Message{}, false
}

// UpdatedAt returns the time of the last mutation
func (l *Log) UpdatedAt() time.Time {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.updatedAt
}
