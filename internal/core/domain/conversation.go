package domain

import (
	"strings"
	"time"
)

// Role identifies which side of the conversation produced a message.
type Role string

// Message roles.
const (
	// RoleUser is the person asking questions.
	RoleUser Role = "user"

	// RoleModel is the assistant.
	RoleModel Role = "model"
)

// StepType classifies one unit of visible agent reasoning.
type StepType string

// Agent step types.
const (
	// StepThought is internal reasoning shown to the user.
	StepThought StepType = "thought"

	// StepAction is a tool or retrieval invocation.
	StepAction StepType = "action"

	// StepObservation is the result of an action.
	StepObservation StepType = "observation"
)

// AgentStep is one unit of visible agent reasoning. Steps are append-only
// within a turn and display order equals arrival order.
type AgentStep struct {
	Type    StepType `json:"type"`
	Content string   `json:"content"`
}

// Message is one conversational turn-half.
type Message struct {
	// Role is user or model.
	Role Role `json:"role"`

	// Text is the message body. Empty while a model turn is streaming.
	Text string `json:"text"`

	// IsThinking is true only while a model message has not yet received
	// its final text. At most one message in a conversation carries it,
	// and it is always the last message.
	IsThinking bool `json:"isThinking,omitempty"`

	// AgentSteps is the ordered reasoning trace. Empty for user messages.
	AgentSteps []AgentStep `json:"agentSteps,omitempty"`

	// Sources is the deduplicated source set, attached only to finalized
	// model messages.
	Sources []SourceChunk `json:"sources,omitempty"`

	// Timestamp is the creation instant.
	Timestamp time.Time `json:"timestamp"`
}

// titleLimit caps a conversation title derived from the first user input.
const titleLimit = 50

// Conversation is an ordered, append-only sequence of messages, except for
// the final in-place replacement of the trailing thinking placeholder.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	Messages  []Message `json:"messages"`
}

// ConversationHeader is the index entry for a persisted conversation.
type ConversationHeader struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// Header returns the index entry for this conversation.
func (c *Conversation) Header() ConversationHeader {
	return ConversationHeader{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt}
}

// DeriveTitle truncates the first user input into a conversation title.
func DeriveTitle(firstInput string) string {
	runes := []rune(firstInput)
	if len(runes) <= titleLimit {
		return firstInput
	}
	return string(runes[:titleLimit])
}

// LastModelSources scans messages newest-first and returns the sources of
// the most recent model message that carries a non-empty source list. It
// returns nil when no such message exists; callers clear the panel then.
func (c *Conversation) LastModelSources() []SourceChunk {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		m := c.Messages[i]
		if m.Role == RoleModel && len(m.Sources) > 0 {
			return m.Sources
		}
	}
	return nil
}

// historyWindow is the number of recent messages included in agent context.
const historyWindow = 50

// HistoryWindow returns the most recent 50 non-placeholder messages, the
// context slice sent to the agent.
func (c *Conversation) HistoryWindow() []Message {
	window := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.IsThinking {
			continue
		}
		window = append(window, m)
	}
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}
	return window
}

// PrependHeader updates a conversation index for a freshly persisted
// conversation: any prior entry with the same ID is removed, then the
// header is prepended. Recency is by prepend, not by timestamp sort.
func PrependHeader(index []ConversationHeader, header ConversationHeader) []ConversationHeader {
	updated := make([]ConversationHeader, 0, len(index)+1)
	updated = append(updated, header)
	for _, h := range index {
		if h.ID != header.ID {
			updated = append(updated, h)
		}
	}
	return updated
}

// IsBlank reports whether a submitted input is empty or whitespace-only.
func IsBlank(input string) bool {
	return strings.TrimSpace(input) == ""
}
