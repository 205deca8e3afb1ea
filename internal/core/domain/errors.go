package domain

import (
	"errors"
	"strings"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyInput indicates a submitted question was empty or whitespace.
	// Handled locally: no turn starts and no message is recorded.
	ErrEmptyInput = errors.New("empty input")

	// ErrMissingCredential indicates no API key is configured.
	// The caller should redirect the user to settings instead of
	// surfacing this as a chat message.
	ErrMissingCredential = errors.New("credential not configured")

	// ErrTurnInFlight indicates a turn is already streaming.
	// A second submission is silently dropped, never queued.
	ErrTurnInFlight = errors.New("turn already in flight")

	// ErrBookNotFound indicates no book folder could be resolved for a title.
	ErrBookNotFound = errors.New("book folder not found")

	// ErrQuotaExceeded indicates the agent provider rejected the request
	// because of rate or quota limits.
	ErrQuotaExceeded = errors.New("quota exceeded")

	// ErrAgentFailure indicates any other agent rejection. The turn is
	// terminated; prior finalized messages are untouched.
	ErrAgentFailure = errors.New("agent failure")

	// ErrDocumentLoad indicates both the primary and the language-fallback
	// document fetch failed.
	ErrDocumentLoad = errors.New("document load failed")
)

// quotaMarkers are provider-specific substrings that identify a rate or
// quota rejection inside an otherwise opaque agent error message.
var quotaMarkers = []string{"429", "RESOURCE_EXHAUSTED", "quota"}

// ClassifyAgentError maps a raw agent rejection onto the domain taxonomy.
// Quota-style rejections become ErrQuotaExceeded; everything else becomes
// ErrAgentFailure. The original error stays in the chain for diagnostics.
func ClassifyAgentError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, marker := range quotaMarkers {
		if strings.Contains(msg, marker) {
			return &classifiedError{kind: ErrQuotaExceeded, cause: err}
		}
	}
	return &classifiedError{kind: ErrAgentFailure, cause: err}
}

// User-facing error texts. The full localization table is a UI concern;
// only the strings the turn state machine embeds in messages live here.
var (
	quotaText = map[Language]string{
		LanguageEN: "Quota exceeded. The request limit for this model has been reached — wait a while or pick a different model in settings.",
		LanguageRU: "Превышена квота. Лимит запросов для этой модели исчерпан — подождите или выберите другую модель в настройках.",
	}
	errorLabel = map[Language]string{
		LanguageEN: "Error",
		LanguageRU: "Ошибка",
	}
)

// UserFacingAgentError renders a classified agent failure as the message
// text shown in the conversation. Quota rejections get a dedicated localized
// text; anything else gets a marked generic message embedding the raw error
// for diagnostics.
func UserFacingAgentError(err error, lang Language) string {
	if !lang.IsValid() {
		lang = LanguageEN
	}
	if errors.Is(err, ErrQuotaExceeded) {
		return quotaText[lang]
	}
	raw := err.Error()
	if cause := errors.Unwrap(err); cause != nil {
		raw = cause.Error()
	}
	return "❌ **" + errorLabel[lang] + "**: " + raw
}

// classifiedError pairs a taxonomy sentinel with the raw cause.
type classifiedError struct {
	kind  error
	cause error
}

func (e *classifiedError) Error() string {
	return e.kind.Error() + ": " + e.cause.Error()
}

func (e *classifiedError) Is(target error) bool {
	return target == e.kind
}

func (e *classifiedError) Unwrap() error {
	return e.cause
}
