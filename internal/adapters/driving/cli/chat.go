package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/shukabase/shuka-cli/internal/adapters/driving/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive chat UI",
	Long: `Launch the interactive terminal user interface.

Ask questions, watch the assistant's reasoning stream in, inspect the
retrieved sources, and open cited chapters in the built-in reader.

Controls:
  Enter     - Send question / open selection
  Tab       - Cycle panels
  Ctrl+N    - New chat
  Ctrl+H    - Conversation history
  Ctrl+S    - Settings
  Esc       - Back / Cancel
  Ctrl+C    - Quit`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery keeps the stack trace visible after the alt screen
	// is torn down.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if chatService == nil || readerService == nil || settingsService == nil {
		return errors.New("services not configured")
	}

	ports := &tui.Ports{
		Chat:     chatService,
		Reader:   readerService,
		Settings: settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
