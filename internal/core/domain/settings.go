package domain

// Language selects which half of the bilingual corpus paths and messages use.
type Language string

// Supported corpus languages.
const (
	// LanguageEN is the English corpus under /books/en/.
	LanguageEN Language = "en"

	// LanguageRU is the Russian corpus under /books/ru/.
	LanguageRU Language = "ru"
)

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	return l == LanguageEN || l == LanguageRU
}

// Other returns the opposite corpus language, used for document fallback.
func (l Language) Other() Language {
	if l == LanguageRU {
		return LanguageEN
	}
	return LanguageRU
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// AppSettings is the explicit configuration object passed into core
// operations. Core functions read configuration from this value only,
// never from ambient state.
type AppSettings struct {
	// APIKey authenticates against the model provider. Empty means
	// chat submission is rejected until the user configures one.
	APIKey string

	// Model is the model identifier sent to the provider.
	Model string

	// Language selects the corpus half and user-facing message language.
	Language Language

	// BackendURL is the retrieval backend search endpoint.
	BackendURL string

	// BooksBaseURL is where /books/<lang>/... document paths are served from.
	// May be an http(s) origin or empty when a local books root is used.
	BooksBaseURL string

	// BooksRoot is a local directory containing the books tree. When set,
	// documents are read from disk instead of BooksBaseURL.
	BooksRoot string
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Model:      "gemini-2.5-flash-lite",
		Language:   LanguageEN,
		BackendURL: "http://localhost:5000/api/search",
	}
}

// HasCredential returns true if an API key is configured.
func (s AppSettings) HasCredential() bool {
	return s.APIKey != ""
}
