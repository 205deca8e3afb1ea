package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the API key, model, corpus language, and the
retrieval backend endpoint.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Interactively update settings",
	Long: `Prompts for each setting in turn. Press Enter to keep the current
value. The API key prompt does not echo.`,
	RunE: runSettingsSet,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Agent]")
	if settings.APIKey != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(settings.APIKey))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
	cmd.Printf("  Model: %s\n", settings.Model)
	cmd.Printf("  Backend URL: %s\n", settings.BackendURL)
	cmd.Println()

	cmd.Println("[Reader]")
	cmd.Printf("  Language: %s\n", settings.Language)
	if settings.BooksRoot != "" {
		cmd.Printf("  Books root: %s\n", settings.BooksRoot)
	} else if settings.BooksBaseURL != "" {
		cmd.Printf("  Books base URL: %s\n", settings.BooksBaseURL)
	} else {
		cmd.Printf("  Books source: (not set)\n")
	}
	cmd.Println()

	if !settings.HasCredential() {
		cmd.Println("No API key configured. Run 'shuka settings set' to add one.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Print("API key (hidden, Enter to keep current): ")
	if key := readPassword(); key != "" {
		settings.APIKey = key
	} else {
		// Save treats an empty key as "keep the stored credential".
		settings.APIKey = ""
	}
	cmd.Println()

	cmd.Printf("Model [%s]: ", settings.Model)
	if v := readLine(reader); v != "" {
		settings.Model = v
	}

	cmd.Printf("Language (en/ru) [%s]: ", settings.Language)
	if v := readLine(reader); v != "" {
		settings.Language = domain.Language(v)
	}

	cmd.Printf("Backend URL [%s]: ", settings.BackendURL)
	if v := readLine(reader); v != "" {
		settings.BackendURL = v
	}

	if err := settingsService.Save(settings); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return fmt.Errorf("invalid value: %w", err)
		}
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Settings saved.")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
