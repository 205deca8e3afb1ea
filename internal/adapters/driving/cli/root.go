// Package cli wires the cobra command tree. Services are injected by the
// composition root through the Set functions before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
	"github.com/shukabase/shuka-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Injected services, shared by all commands.
var (
	chatService     driving.ChatService
	readerService   driving.ReaderService
	settingsService driving.SettingsService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "shuka",
	Short: "Chat with the Vedabase from your terminal",
	Long: `Shuka is a terminal assistant for the Bhaktivedanta Vedabase.

Ask questions in English or Russian; answers are grounded in retrieved
passages from the corpus and carry inline citations you can open as
full chapters.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	// Running bare `shuka` opens the chat TUI.
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// SetChatService injects the chat service.
func SetChatService(svc driving.ChatService) {
	chatService = svc
}

// SetReaderService injects the reader service.
func SetReaderService(svc driving.ReaderService) {
	readerService = svc
}

// SetSettingsService injects the settings service.
func SetSettingsService(svc driving.SettingsService) {
	settingsService = svc
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
