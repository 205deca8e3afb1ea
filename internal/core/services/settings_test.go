package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// fakeConfigStore is an in-memory ConfigStore.
type fakeConfigStore struct {
	data   map[string]any
	setErr error
}

func newFakeConfigStore() *fakeConfigStore {
	return &fakeConfigStore{data: make(map[string]any)}
}

func (f *fakeConfigStore) Get(key string) (any, bool) {
	v, ok := f.data[key]
	return v, ok
}

func (f *fakeConfigStore) GetString(key string) string {
	if v, ok := f.data[key].(string); ok {
		return v
	}
	return ""
}

func (f *fakeConfigStore) GetBool(key string) bool {
	if v, ok := f.data[key].(bool); ok {
		return v
	}
	return false
}

func (f *fakeConfigStore) Set(key string, value any) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	return nil
}

func (f *fakeConfigStore) Load() error { return nil }
func (f *fakeConfigStore) Path() string {
	return "/tmp/config.toml"
}

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Empty(t, settings.APIKey)
	assert.Equal(t, "gemini-2.5-flash-lite", settings.Model)
	assert.Equal(t, domain.LanguageEN, settings.Language)
	assert.Equal(t, "http://localhost:5000/api/search", settings.BackendURL)
}

func TestSettingsService_Get_StoredValues(t *testing.T) {
	store := newFakeConfigStore()
	store.data["agent.api_key"] = "secret"
	store.data["agent.model"] = "gemini-2.5-pro"
	store.data["reader.language"] = "ru"
	store.data["reader.books_root"] = "/srv/corpus"

	svc := NewSettingsService(store)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, "secret", settings.APIKey)
	assert.Equal(t, "gemini-2.5-pro", settings.Model)
	assert.Equal(t, domain.LanguageRU, settings.Language)
	assert.Equal(t, "/srv/corpus", settings.BooksRoot)
}

func TestSettingsService_Get_InvalidLanguageFallsBack(t *testing.T) {
	store := newFakeConfigStore()
	store.data["reader.language"] = "de"

	svc := NewSettingsService(store)

	settings, err := svc.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.LanguageEN, settings.Language)
}

func TestSettingsService_Save(t *testing.T) {
	store := newFakeConfigStore()
	svc := NewSettingsService(store)

	settings := domain.AppSettings{
		APIKey:     "new-key",
		Model:      "gemini-2.5-pro",
		Language:   domain.LanguageRU,
		BackendURL: "http://localhost:5000/api/search",
	}
	require.NoError(t, svc.Save(settings))

	assert.Equal(t, "new-key", store.data["agent.api_key"])
	assert.Equal(t, "gemini-2.5-pro", store.data["agent.model"])
	assert.Equal(t, "ru", store.data["reader.language"])
}

func TestSettingsService_Save_EmptyKeyKeepsCredential(t *testing.T) {
	store := newFakeConfigStore()
	store.data["agent.api_key"] = "existing"
	svc := NewSettingsService(store)

	settings := domain.DefaultAppSettings()
	require.NoError(t, svc.Save(settings))

	assert.Equal(t, "existing", store.data["agent.api_key"])
}

func TestSettingsService_Save_InvalidLanguage(t *testing.T) {
	svc := NewSettingsService(newFakeConfigStore())

	settings := domain.DefaultAppSettings()
	settings.Language = "de"

	err := svc.Save(settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsService_Save_StoreFailure(t *testing.T) {
	store := newFakeConfigStore()
	store.setErr = errors.New("read-only filesystem")
	svc := NewSettingsService(store)

	err := svc.Save(domain.DefaultAppSettings())

	assert.Error(t, err)
}
