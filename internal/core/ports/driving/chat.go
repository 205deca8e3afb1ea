package driving

import (
	"context"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// TurnEvents carries the UI's observers for an in-flight turn. Either
// field may be nil. Callbacks fire on the turn's driving goroutine after
// the state update they describe has been applied.
type TurnEvents struct {
	// OnStep fires after a reasoning step was appended to the placeholder.
	OnStep func(step domain.AgentStep)

	// OnSources fires after a batch was merged into the live source set,
	// with the merged set.
	OnSources func(sources []domain.SourceChunk)
}

// ChatService is the turn state machine for a single chat session.
//
// Exactly one turn may stream at a time. Submit rejects (without touching
// state) on blank input, on a missing credential, and while a turn is in
// flight; the latter two map to domain.ErrMissingCredential and
// domain.ErrTurnInFlight so callers can redirect or drop accordingly.
type ChatService interface {
	// Submit runs one full turn: appends the user message and a thinking
	// placeholder, streams the agent, then finalizes the placeholder in
	// place. On agent failure the placeholder becomes a user-facing error
	// message, the conversation is not persisted, and the classified
	// error is returned alongside the updated conversation.
	Submit(ctx context.Context, input string, events TurnEvents) (*domain.Conversation, error)

	// Active returns a snapshot of the active conversation, nil when a
	// fresh chat has no messages yet.
	Active() *domain.Conversation

	// CurrentSources returns the live source panel contents: the
	// incremental working set while streaming, or the selected
	// conversation's most recent sources otherwise.
	CurrentSources() []domain.SourceChunk

	// Streaming reports whether a turn is in flight.
	Streaming() bool

	// Conversations returns the session's conversation index,
	// most recent first.
	Conversations() []domain.ConversationHeader

	// LoadIndex refreshes the conversation index from the store.
	LoadIndex(ctx context.Context) error

	// Load replaces the active conversation with a persisted one and
	// re-derives the source panel from its newest sourced model message.
	Load(ctx context.Context, id string) error

	// NewChat clears the active conversation and the source panel.
	NewChat()
}
