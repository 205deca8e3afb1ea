// Command shuka is the Vedabase terminal assistant.
//
// It wires the driven adapters (config store, session store, retrieval
// agent, document store) into the core services and hands them to the
// CLI layer.
package main

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/shukabase/shuka-cli/internal/adapters/driven/agent/gemini"
	"github.com/shukabase/shuka-cli/internal/adapters/driven/config/file"
	"github.com/shukabase/shuka-cli/internal/adapters/driven/docstore/httpfs"
	"github.com/shukabase/shuka-cli/internal/adapters/driven/docstore/localdir"
	"github.com/shukabase/shuka-cli/internal/adapters/driven/storage/sqlite"
	"github.com/shukabase/shuka-cli/internal/adapters/driving/cli"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/core/services"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shuka: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	configDir := filepath.Join(home, ".shuka")

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	sessionStore, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer sessionStore.Close()

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	agent := gemini.New(gemini.Config{})
	chatService := services.NewChatService(agent, sessionStore, settingsService)
	readerService := services.NewReaderService(documentStore(settings.BooksRoot, settings.BooksBaseURL, settings.BackendURL))

	cli.SetVersion(version)
	cli.SetChatService(chatService)
	cli.SetReaderService(readerService)
	cli.SetSettingsService(settingsService)

	return cli.Execute()
}

// documentStore picks where corpus documents are read from: a local books
// tree when configured, otherwise HTTP against the books base URL, falling
// back to the retrieval backend's origin.
func documentStore(booksRoot, booksBaseURL, backendURL string) driven.DocumentStore {
	if booksRoot != "" {
		return localdir.NewStore(booksRoot)
	}
	if booksBaseURL == "" {
		booksBaseURL = originOf(backendURL)
	}
	return httpfs.NewStore(booksBaseURL)
}

// originOf reduces a URL to its scheme://host origin.
func originOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return rawURL
	}
	return u.Scheme + "://" + u.Host
}
