package cli

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
)

// stubSettingsService serves fixed settings.
type stubSettingsService struct {
	settings domain.AppSettings
	getErr   error
	saved    []domain.AppSettings
}

func (s *stubSettingsService) Get() (domain.AppSettings, error) {
	return s.settings, s.getErr
}

func (s *stubSettingsService) Save(settings domain.AppSettings) error {
	s.saved = append(s.saved, settings)
	return nil
}

func withSettingsService(t *testing.T, svc driving.SettingsService) {
	t.Helper()
	old := settingsService
	settingsService = svc
	t.Cleanup(func() { settingsService = old })
}

func TestSettingsCmd_Use(t *testing.T) {
	assert.Equal(t, "settings", settingsCmd.Use)
}

func TestSettingsShowCmd_DisplaysSettings(t *testing.T) {
	svc := &stubSettingsService{settings: domain.AppSettings{
		APIKey:     "AIzaSyExampleExampleKey",
		Model:      "gemini-2.5-flash-lite",
		Language:   domain.LanguageRU,
		BackendURL: "http://localhost:5000/api/search",
		BooksRoot:  "/srv/corpus",
	}}
	withSettingsService(t, svc)

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "gemini-2.5-flash-lite")
	assert.Contains(t, out, "Language: ru")
	assert.Contains(t, out, "Books root: /srv/corpus")
	// The key is masked, never printed whole.
	assert.NotContains(t, out, "AIzaSyExampleExampleKey")
	assert.Contains(t, out, "AIza...eKey")
}

func TestSettingsShowCmd_NoCredentialHint(t *testing.T) {
	withSettingsService(t, &stubSettingsService{settings: domain.DefaultAppSettings()})

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "shuka settings set")
}

func TestSettingsShowCmd_ServiceNotConfigured(t *testing.T) {
	withSettingsService(t, nil)

	_, err := execute(t, "settings", "show")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "****", maskAPIKey("12345678"))
	assert.Equal(t, "AIza...wxyz", maskAPIKey("AIzaSomeLongKeywxyz"))
}

func TestReadLine_Trims(t *testing.T) {
	reader := bufio.NewReader(bytes.NewBufferString("  value  \n"))

	assert.Equal(t, "value", readLine(reader))
}
