package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shukabase/shuka-cli/internal/core/domain"
	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/core/ports/driving"
	"github.com/shukabase/shuka-cli/internal/logger"
)

// Ensure ReaderService implements the interface.
var _ driving.ReaderService = (*ReaderService)(nil)

// ReaderService loads full-chapter reading views from the document store.
type ReaderService struct {
	docs driven.DocumentStore
}

// NewReaderService creates a new reader service.
func NewReaderService(docs driven.DocumentStore) *ReaderService {
	return &ReaderService{docs: docs}
}

// OpenChunk resolves the chunk's coordinates to a corpus path and loads it.
func (s *ReaderService) OpenChunk(ctx context.Context, chunk domain.SourceChunk, settings domain.AppSettings) (*domain.DocumentView, error) {
	path, err := domain.ChapterPath(settings.Language, chunk.BookTitle, chunk.Chapter, chunk.Verse)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", chunk.BookTitle, err)
	}

	title := chunk.BookTitle
	if ref := chunk.DisplayRef(); ref != "" {
		title += " - " + ref
	}
	return s.OpenPath(ctx, path, title, settings)
}

// OpenPath fetches a corpus path, retrying once with the opposite corpus
// language when the primary fetch fails. The returned view records the
// path that actually served the content.
func (s *ReaderService) OpenPath(ctx context.Context, path, title string, settings domain.AppSettings) (*domain.DocumentView, error) {
	logger.Debug("loading document %s", path)

	result, err := s.docs.Fetch(ctx, path)
	if err != nil || !result.OK {
		fallback := swapLanguage(path)
		if fallback == "" {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentLoad, path)
		}
		logger.Debug("primary path failed, trying fallback %s", fallback)

		fbResult, fbErr := s.docs.Fetch(ctx, fallback)
		if fbErr != nil || !fbResult.OK {
			return nil, fmt.Errorf("%w: %s", domain.ErrDocumentLoad, path)
		}
		result = fbResult
		path = fallback
	}

	view := domain.ExtractDocument(path, result.Body, title)
	return &view, nil
}

// FollowLink resolves a relative href against the current document's
// directory and loads the target.
func (s *ReaderService) FollowLink(ctx context.Context, currentPath, href string, settings domain.AppSettings) (*domain.DocumentView, error) {
	next := domain.ResolveRelativeLink(currentPath, href)
	return s.OpenPath(ctx, next, "", settings)
}

// swapLanguage derives the bilingual fallback path by exchanging the
// language segment. Returns "" when the path carries no language segment.
func swapLanguage(path string) string {
	switch {
	case strings.Contains(path, "/books/en/"):
		return strings.Replace(path, "/books/en/", "/books/ru/", 1)
	case strings.Contains(path, "/books/ru/"):
		return strings.Replace(path, "/books/ru/", "/books/en/", 1)
	default:
		return ""
	}
}
