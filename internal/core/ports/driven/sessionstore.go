package driven

import (
	"context"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// SessionStore persists conversations. Failures degrade gracefully: a
// broken store yields an empty list or a skipped save, never a blocked
// chat flow.
//
// Implementations may include:
//   - SQLite (default)
//   - In-memory (tests)
type SessionStore interface {
	// List returns conversation headers, most recently saved first.
	List(ctx context.Context) ([]domain.ConversationHeader, error)

	// Get retrieves a full conversation by ID.
	// Returns domain.ErrNotFound when it does not exist.
	Get(ctx context.Context, id string) (*domain.Conversation, error)

	// Save stores or replaces a conversation.
	Save(ctx context.Context, conversation *domain.Conversation) error

	// Delete removes a conversation by ID.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
