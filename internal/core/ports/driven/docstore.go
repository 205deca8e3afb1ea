package driven

import "context"

// FetchResult is the outcome of one document fetch, mirroring an
// HTTP-style response: a not-OK result is not an error, it drives the
// caller's language fallback.
type FetchResult struct {
	// OK is true when the document was served successfully.
	OK bool

	// Status is the underlying status code, 0 when not applicable.
	Status int

	// Body is the raw document payload, valid only when OK.
	Body string
}

// DocumentStore serves the corpus document tree. Paths are corpus paths
// of the form /books/<lang>/<book>/... produced by the path resolver.
//
// Implementations may include:
//   - HTTP origin serving the books tree
//   - Local directory containing the books tree
type DocumentStore interface {
	// Fetch retrieves the document at the given corpus path. A missing
	// document returns OK=false, not an error; errors are reserved for
	// transport failures.
	Fetch(ctx context.Context, path string) (FetchResult, error)
}
