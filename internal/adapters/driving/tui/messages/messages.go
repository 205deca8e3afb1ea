// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the conversation view.
	ViewChat ViewType = iota
	// ViewHistory is the saved conversations list.
	ViewHistory
	// ViewSources is the source panel for the current answer.
	ViewSources
	// ViewReader is the full-chapter document reader.
	ViewReader
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewHistory:
		return "history"
	case ViewSources:
		return "sources"
	case ViewReader:
		return "reader"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// StepAppended carries one agent reasoning step of the in-flight turn.
type StepAppended struct {
	Step domain.AgentStep
}

// SourcesUpdated carries the merged live source set of the in-flight turn.
type SourcesUpdated struct {
	Sources []domain.SourceChunk
}

// TurnFinished signals the in-flight turn completed, successfully or not.
// Conversation is the post-turn state and may carry a user-facing error
// message as its last entry.
type TurnFinished struct {
	Conversation *domain.Conversation
	Err          error
}

// TurnEventsClosed signals the turn event stream has drained.
type TurnEventsClosed struct{}

// IndexLoaded carries the conversation index from the session store.
type IndexLoaded struct {
	Headers []domain.ConversationHeader
	Err     error
}

// ConversationOpened signals a persisted conversation became active.
type ConversationOpened struct {
	ID  string
	Err error
}

// ChunkSelected signals a source chunk was chosen for reading.
type ChunkSelected struct {
	Chunk domain.SourceChunk
}

// DocumentLoaded carries a fetched corpus document. Seq identifies the
// request; responses with a stale Seq are dropped.
type DocumentLoaded struct {
	Seq  int
	View *domain.DocumentView
	Err  error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Settings domain.AppSettings
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
