package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguage_IsValid(t *testing.T) {
	assert.True(t, LanguageEN.IsValid())
	assert.True(t, LanguageRU.IsValid())
	assert.False(t, Language("de").IsValid())
	assert.False(t, Language("").IsValid())
}

func TestLanguage_Other(t *testing.T) {
	assert.Equal(t, LanguageRU, LanguageEN.Other())
	assert.Equal(t, LanguageEN, LanguageRU.Other())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, "gemini-2.5-flash-lite", s.Model)
	assert.Equal(t, LanguageEN, s.Language)
	assert.Equal(t, "http://localhost:5000/api/search", s.BackendURL)
	assert.Empty(t, s.APIKey)
}

func TestAppSettings_HasCredential(t *testing.T) {
	s := DefaultAppSettings()
	assert.False(t, s.HasCredential())

	s.APIKey = "key"
	assert.True(t, s.HasCredential())
}
