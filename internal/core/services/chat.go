package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
	"github.com/shukabase/shuka-cli/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// ChatService is the turn state machine for one chat session.
//
// All state transitions are read-modify-write under a single mutex, applied
// against the latest state rather than a captured copy, so step and source
// callbacks firing in quick succession cannot lose updates. Exactly one
// turn streams at a time, enforced by a guard flag: a second submission is
// dropped, not queued.
type ChatService struct {
	mu sync.Mutex

	agent    driven.AgentService
	sessions driven.SessionStore
	settings driving.SettingsService

	// active is nil for a fresh chat with no messages yet.
	active *domain.Conversation

	// sources is the live panel set: first-appearance ordered, no
	// duplicates, exposed to the UI while streaming.
	sources []domain.SourceChunk

	// gathered is the turn's raw working set including repeated IDs;
	// collapsed only at finalization.
	gathered []domain.SourceChunk

	// streaming guards against concurrent turns.
	streaming bool

	// index is the session's conversation index, most recent first.
	index []domain.ConversationHeader
}

// NewChatService creates a new chat service.
func NewChatService(
	agent driven.AgentService,
	sessions driven.SessionStore,
	settings driving.SettingsService,
) *ChatService {
	return &ChatService{
		agent:    agent,
		sessions: sessions,
		settings: settings,
	}
}

// Submit runs one full turn. See driving.ChatService for the contract.
func (s *ChatService) Submit(ctx context.Context, input string, events driving.TurnEvents) (*domain.Conversation, error) {
	if domain.IsBlank(input) {
		return nil, domain.ErrEmptyInput
	}

	cfg, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	history, err := s.openTurn(input, cfg)
	if err != nil {
		return nil, err
	}

	finalText, runErr := s.agent.Run(ctx, input, history, cfg,
		func(step domain.AgentStep) {
			s.applyStep(step)
			if events.OnStep != nil {
				events.OnStep(step)
			}
		},
		func(chunks []domain.SourceChunk) {
			merged := s.applySources(chunks)
			if events.OnSources != nil {
				events.OnSources(merged)
			}
		},
	)

	if runErr != nil {
		classified := domain.ClassifyAgentError(runErr)
		return s.failTurn(classified, cfg.Language), classified
	}
	return s.finalizeTurn(ctx, finalText), nil
}

// openTurn appends the user message and the thinking placeholder, flips the
// streaming guard, and returns the windowed history for the agent request.
func (s *ChatService) openTurn(input string, cfg domain.AppSettings) ([]domain.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.streaming {
		return nil, domain.ErrTurnInFlight
	}
	if !cfg.HasCredential() {
		return nil, domain.ErrMissingCredential
	}

	now := time.Now()
	if s.active == nil {
		s.active = &domain.Conversation{
			ID:        uuid.New().String(),
			Title:     domain.DeriveTitle(input),
			CreatedAt: now,
		}
	}
	s.active.Messages = append(s.active.Messages,
		domain.Message{Role: domain.RoleUser, Text: input, Timestamp: now},
		domain.Message{Role: domain.RoleModel, IsThinking: true, Timestamp: now},
	)

	s.streaming = true
	s.sources = nil
	s.gathered = nil

	return s.active.HistoryWindow(), nil
}

// applyStep appends a reasoning step to the thinking placeholder.
func (s *ChatService) applyStep(step domain.AgentStep) {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.placeholder()
	if last == nil {
		return
	}
	last.AgentSteps = append(last.AgentSteps, step)
}

// applySources records an arrived batch in the raw working set and merges
// it into the live panel, returning a copy of the merged set.
func (s *ChatService) applySources(chunks []domain.SourceChunk) []domain.SourceChunk {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gathered = append(s.gathered, chunks...)
	s.sources = domain.MergeSourceChunks(s.sources, chunks)
	return append([]domain.SourceChunk(nil), s.sources...)
}

// finalizeTurn replaces the placeholder with the completed message,
// persists the conversation, and refreshes the index entry. Persistence
// failures are logged and swallowed; they never block the chat flow.
func (s *ChatService) finalizeTurn(ctx context.Context, finalText string) *domain.Conversation {
	s.mu.Lock()

	last := s.placeholder()
	if last != nil {
		*last = domain.Message{
			Role:       domain.RoleModel,
			Text:       finalText,
			AgentSteps: last.AgentSteps,
			Sources:    domain.DedupeSourceChunks(s.gathered),
			Timestamp:  time.Now(),
		}
	}
	s.streaming = false
	s.gathered = nil

	snapshot := cloneConversation(s.active)
	s.index = domain.PrependHeader(s.index, s.active.Header())
	s.mu.Unlock()

	if err := s.sessions.Save(ctx, snapshot); err != nil {
		logger.Warn("saving conversation %s: %v", snapshot.ID, err)
	}
	return snapshot
}

// failTurn replaces the placeholder with a user-facing error message.
// The conversation is deliberately not persisted on this path; the error
// message is visible only for the current session.
func (s *ChatService) failTurn(classified error, lang domain.Language) *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	last := s.placeholder()
	if last != nil {
		*last = domain.Message{
			Role:      domain.RoleModel,
			Text:      domain.UserFacingAgentError(classified, lang),
			Timestamp: time.Now(),
		}
	}
	s.streaming = false
	s.gathered = nil

	return cloneConversation(s.active)
}

// placeholder returns the trailing thinking message, nil when absent.
// Caller must hold the mutex.
func (s *ChatService) placeholder() *domain.Message {
	if s.active == nil || len(s.active.Messages) == 0 {
		return nil
	}
	last := &s.active.Messages[len(s.active.Messages)-1]
	if !last.IsThinking {
		return nil
	}
	return last
}

// Active returns a snapshot of the active conversation.
func (s *ChatService) Active() *domain.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneConversation(s.active)
}

// CurrentSources returns a copy of the live source panel.
func (s *ChatService) CurrentSources() []domain.SourceChunk {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SourceChunk(nil), s.sources...)
}

// Streaming reports whether a turn is in flight.
func (s *ChatService) Streaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaming
}

// Conversations returns the session's conversation index.
func (s *ChatService) Conversations() []domain.ConversationHeader {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ConversationHeader(nil), s.index...)
}

// LoadIndex refreshes the conversation index from the store. A failing
// store degrades to an empty index.
func (s *ChatService) LoadIndex(ctx context.Context) error {
	headers, err := s.sessions.List(ctx)
	if err != nil {
		logger.Warn("listing conversations: %v", err)
		headers = nil
	}

	s.mu.Lock()
	s.index = headers
	s.mu.Unlock()
	return nil
}

// Load replaces the active conversation wholesale with a persisted one and
// re-derives the source panel from its most recent sourced model message.
// This is a pure state replacement, not a streaming transition.
func (s *ChatService) Load(ctx context.Context, id string) error {
	conv, err := s.sessions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading conversation %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = conv
	s.sources = conv.LastModelSources()
	return nil
}

// NewChat clears the active conversation and the source panel.
func (s *ChatService) NewChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = nil
	s.sources = nil
}

// cloneConversation deep-copies the message slice so snapshots handed to
// the UI are isolated from later in-place finalization.
func cloneConversation(c *domain.Conversation) *domain.Conversation {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Messages = append([]domain.Message(nil), c.Messages...)
	return &cp
}
