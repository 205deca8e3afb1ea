// Package httpfs implements the DocumentStore port against an HTTP origin
// serving the books tree, e.g. the dev server hosting /books/en/... pages.
package httpfs

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shukabase/shuka-cli/internal/core/ports/driven"
	"github.com/shukabase/shuka-cli/internal/logger"
)

var _ driven.DocumentStore = (*Store)(nil)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// Store fetches corpus documents over HTTP.
type Store struct {
	client  *http.Client
	baseURL string
}

// NewStore creates an HTTP document store rooted at baseURL.
func NewStore(baseURL string) *Store {
	return &Store{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Fetch retrieves the document at the given corpus path. Non-2xx statuses
// come back as OK=false; only transport failures are errors.
func (s *Store) Fetch(ctx context.Context, path string) (driven.FetchResult, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := s.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return driven.FetchResult{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return driven.FetchResult{}, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return driven.FetchResult{}, fmt.Errorf("read %s: %w", path, err)
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		logger.Debug("document %s returned status %d", path, resp.StatusCode)
	}

	return driven.FetchResult{
		OK:     ok,
		Status: resp.StatusCode,
		Body:   string(body),
	}, nil
}
