package driving

import (
	"context"

	"github.com/shukabase/shuka-cli/internal/core/domain"
)

// ReaderService loads full-chapter reading views for retrieved chunks.
// Failures here are isolated side effects: they never touch chat state.
type ReaderService interface {
	// OpenChunk resolves a chunk's book/chapter/verse coordinates to a
	// corpus path and loads it. Returns domain.ErrBookNotFound when the
	// title resolves to no folder, domain.ErrDocumentLoad when both the
	// primary and language-fallback fetch fail.
	OpenChunk(ctx context.Context, chunk domain.SourceChunk, settings domain.AppSettings) (*domain.DocumentView, error)

	// OpenPath loads a corpus path directly, with language fallback.
	// title may be empty; the document's first <h1> supplies it then.
	OpenPath(ctx context.Context, path, title string, settings domain.AppSettings) (*domain.DocumentView, error)

	// FollowLink resolves a relative href against the current document's
	// directory and loads the target.
	FollowLink(ctx context.Context, currentPath, href string, settings domain.AppSettings) (*domain.DocumentView, error)
}
