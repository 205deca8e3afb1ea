// Package localdir implements the DocumentStore port against a local
// directory containing the books tree, for offline use of a downloaded
// corpus.
package localdir

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*Store)(nil)

// Store serves corpus documents from a directory on disk. Corpus paths like
// /books/en/bg/2/13/index.html resolve relative to the root, which is the
// directory containing the top-level books/ folder.
type Store struct {
	root string
}

// NewStore creates a local document store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: dir}
}

// Fetch reads the document at the given corpus path. A missing file reports
// OK=false with a 404 status so the language fallback still applies.
func (s *Store) Fetch(_ context.Context, path string) (driven.FetchResult, error) {
	rel := strings.TrimPrefix(path, "/")
	rel = filepath.FromSlash(rel)

	full := filepath.Join(s.root, rel)

	// Corpus paths must stay inside the root.
	cleanRoot := filepath.Clean(s.root)
	if !strings.HasPrefix(filepath.Clean(full), cleanRoot+string(filepath.Separator)) {
		return driven.FetchResult{OK: false, Status: http.StatusNotFound}, nil
	}

	body, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return driven.FetchResult{OK: false, Status: http.StatusNotFound}, nil
		}
		return driven.FetchResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	return driven.FetchResult{
		OK:     true,
		Status: http.StatusOK,
		Body:   string(body),
	}, nil
}
