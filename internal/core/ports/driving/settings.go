package driving

import "github.com/shukabase/shuka-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, defaults applied.
	Get() (domain.AppSettings, error)

	// Save persists application settings.
	Save(settings domain.AppSettings) error
}
