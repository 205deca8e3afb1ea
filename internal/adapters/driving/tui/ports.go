// Package tui provides the interactive terminal user interface for shuka.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat runs conversation turns and manages the session.
	Chat driving.ChatService

	// Reader loads corpus documents for full-chapter reading.
	Reader driving.ReaderService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Reader == nil {
		return ErrMissingReaderService
	}
	if p.Settings == nil {
		return ErrMissingSettingsService
	}
	return nil
}
