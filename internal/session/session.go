// Package session ties a message log to a reply responder and tracks
// the independent sessions served by the web surface.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/diogo/offsum/internal/history"
	"github.com/diogo/offsum/internal/models"
	"github.com/diogo/offsum/internal/reply"
)

// ErrCleared is returned by Complete when the log was cleared after Begin
var ErrCleared = errors.New("session cleared before the reply")

// Turn is the pair of messages appended by one submission
type Turn struct {
	User      models.Message `json:"user"`
	Assistant models.Message `json:"assistant"`
}

// Session is one user's transient chat state
type Session struct {
	ID string

	log       *history.Log
	responder reply.Responder
	delay     time.Duration

	// mu also orders Clear against the reply append
	mu         sync.Mutex
	style      models.Style
	lastActive time.Time
	gen        uint64 // bumped by Clear
}

// Pending is a user message that has been appended and awaits its reply
type Pending struct {
	Text string
	gen  uint64
}

// Option configures a Session
type Option func(*Session)

// WithStyle sets the initial summary style
func WithStyle(style models.Style) Option {
	return func(s *Session) {
		s.style = style
	}
}

// WithResponder sets the reply responder
func WithResponder(r reply.Responder) Option {
	return func(s *Session) {
		s.responder = r
	}
}

// WithThinkingDelay sets the cosmetic pause before the reply is appended
func WithThinkingDelay(d time.Duration) Option {
	return func(s *Session) {
		s.delay = d
	}
}

// WithSeed appends messages to the fresh log
func WithSeed(messages ...models.Message) Option {
	return func(s *Session) {
		s.log.Seed(messages...)
	}
}

// New creates a session with an empty log
func New(id string, opts ...Option) *Session {
	s := &Session{
		ID:         id,
		log:        history.NewLog(),
		responder:  reply.Summarizer{},
		style:      models.DefaultStyle,
		lastActive: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit runs one turn. Empty or whitespace-only text is a no-op and
// returns ok=false. If ctx is cancelled during the thinking delay only the
// user message stays in the log.
func (s *Session) Submit(ctx context.Context, text string) (Turn, bool, error) {
	p, ok := s.Begin(text)
	if !ok {
		return Turn{}, false, nil
	}

	turn, err := s.Complete(ctx, p)
	return turn, true, err
}

// Begin appends the user message. It reports false, leaving the log
// unchanged, when text is empty or whitespace-only.
func (s *Session) Begin(text string) (Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return Pending{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = time.Now()
	s.log.Append(models.RoleUser, text)
	return Pending{Text: text, gen: s.gen}, true
}

// Complete waits out the thinking delay and appends the reply to p.
// Nothing is appended if ctx is done or the log was cleared since Begin.
func (s *Session) Complete(ctx context.Context, p Pending) (Turn, error) {
	turn := Turn{User: models.Message{Role: models.RoleUser, Content: p.Text}}

	if err := s.think(ctx); err != nil {
		return turn, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return turn, err
	}
	if p.gen != s.gen {
		return turn, ErrCleared
	}

	answer := s.responder.Reply(p.Text, s.style)
	s.log.Append(models.RoleAssistant, answer)
	turn.Assistant = models.Message{Role: models.RoleAssistant, Content: answer}

	return turn, nil
}

// Respond computes the reply for text without touching the log
func (s *Session) Respond(text string) string {
	return s.responder.Reply(text, s.Style())
}

func (s *Session) think(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Clear empties the message log. Replies still pending are dropped.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	s.lastActive = time.Now()
	s.log.Clear()
}

// Messages returns a snapshot of the log
func (s *Session) Messages() []models.Message {
	return s.log.Messages()
}

// Log exposes the underlying message log
func (s *Session) Log() *history.Log {
	return s.log
}

// Style returns the selected summary style
func (s *Session) Style() models.Style {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.style
}

// SetStyle selects a summary style
func (s *Session) SetStyle(style models.Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.style = style
	s.lastActive = time.Now()
}

// ThinkingDelay returns the configured pause before replies
func (s *Session) ThinkingDelay() time.Duration {
	return s.delay
}

// LastActive returns when the session was last used
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}
