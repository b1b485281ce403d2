package explorer

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Session tracks the single current request. Starting a request cancels the
// previous one, and results carrying an older ticket must be discarded.
type Session struct {
	mu      sync.Mutex
	current uuid.UUID
	cancel  context.CancelFunc
}

// Begin cancels the in-flight request, if any, and returns the context and
// ticket of a new one.
func (s *Session) Begin(parent context.Context) (context.Context, uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	s.current = uuid.New()
	s.cancel = cancel
	return ctx, s.current
}

// IsCurrent reports whether ticket belongs to the latest request.
func (s *Session) IsCurrent(ticket uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ticket != uuid.Nil && ticket == s.current
}

// End releases the request's context if ticket is still current.
func (s *Session) End(ticket uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket != s.current || s.cancel == nil {
		return
	}
	s.cancel()
	s.cancel = nil
}

// Close cancels the in-flight request and invalidates every ticket.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.current = uuid.Nil
}
