// Package memory implements the SessionStore port in process memory.
// Nothing survives a restart; it backs tests and the --ephemeral flag.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
)

var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps conversations in a map guarded by a mutex.
type SessionStore struct {
	mu       sync.RWMutex
	convs    map[string]domain.Conversation
	savedAt  map[string]time.Time
	sequence int64
}

// NewSessionStore creates an empty in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		convs:   make(map[string]domain.Conversation),
		savedAt: make(map[string]time.Time),
	}
}

// List returns conversation headers, most recently saved first.
func (s *SessionStore) List(_ context.Context) ([]domain.ConversationHeader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		header domain.ConversationHeader
		at     time.Time
	}
	entries := make([]entry, 0, len(s.convs))
	for id, conv := range s.convs {
		entries = append(entries, entry{header: conv.Header(), at: s.savedAt[id]})
	}

	// Insertion-sort by save time, newest first. Stores stay small.
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].at.After(entries[j-1].at); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}

	headers := make([]domain.ConversationHeader, 0, len(entries))
	for _, e := range entries {
		headers = append(headers, e.header)
	}
	return headers, nil
}

// Get retrieves a full conversation by ID.
func (s *SessionStore) Get(_ context.Context, id string) (*domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.convs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	clone := conv
	clone.Messages = append([]domain.Message(nil), conv.Messages...)
	return &clone, nil
}

// Save stores or replaces a conversation.
func (s *SessionStore) Save(_ context.Context, conversation *domain.Conversation) error {
	if conversation == nil || conversation.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *conversation
	clone.Messages = append([]domain.Message(nil), conversation.Messages...)
	s.convs[conversation.ID] = clone

	// A monotonic sequence breaks save-time ties within one clock tick.
	s.sequence++
	s.savedAt[conversation.ID] = time.Now().Add(time.Duration(s.sequence))
	return nil
}

// Delete removes a conversation by ID.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.convs, id)
	delete(s.savedAt, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *SessionStore) Close() error {
	return nil
}
