package services

import (
	"fmt"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyAPIKey       = "agent.api_key"
	keyModel        = "agent.model"
	keyBackendURL   = "agent.backend_url"
	keyLanguage     = "reader.language"
	keyBooksBaseURL = "reader.books_base_url"
	keyBooksRoot    = "reader.books_root"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings with defaults applied.
func (s *SettingsService) Get() (domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := domain.AppSettings{
		APIKey:       s.configStore.GetString(keyAPIKey),
		Model:        s.getString(keyModel, defaults.Model),
		Language:     s.getLanguage(defaults.Language),
		BackendURL:   s.getString(keyBackendURL, defaults.BackendURL),
		BooksBaseURL: s.configStore.GetString(keyBooksBaseURL),
		BooksRoot:    s.configStore.GetString(keyBooksRoot),
	}
	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings domain.AppSettings) error {
	if !settings.Language.IsValid() {
		return fmt.Errorf("%w: language %q", domain.ErrInvalidInput, settings.Language)
	}

	pairs := []struct {
		key   string
		value string
	}{
		{keyModel, settings.Model},
		{keyBackendURL, settings.BackendURL},
		{keyLanguage, settings.Language.String()},
		{keyBooksBaseURL, settings.BooksBaseURL},
		{keyBooksRoot, settings.BooksRoot},
	}
	for _, p := range pairs {
		if err := s.configStore.Set(p.key, p.value); err != nil {
			return fmt.Errorf("save %s: %w", p.key, err)
		}
	}

	// The key is written only when present so an accidental empty save
	// does not wipe a working credential.
	if settings.APIKey != "" {
		if err := s.configStore.Set(keyAPIKey, settings.APIKey); err != nil {
			return fmt.Errorf("save api key: %w", err)
		}
	}
	return nil
}

// getString reads a key, falling back to a default when unset.
func (s *SettingsService) getString(key, fallback string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return fallback
}

// getLanguage reads the corpus language, falling back when unset or invalid.
func (s *SettingsService) getLanguage(fallback domain.Language) domain.Language {
	lang := domain.Language(s.configStore.GetString(keyLanguage))
	if !lang.IsValid() {
		return fallback
	}
	return lang
}
