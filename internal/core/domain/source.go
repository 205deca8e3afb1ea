package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Locator is a chapter, verse, or page coordinate. Retrieval metadata is
// loosely typed: the same field arrives as an integer ("2"), a dotted
// composite ("2.13"), or a folder-style path ("Uddhava-Gita/5"). It
// unmarshals from either a JSON string or a JSON number.
type Locator string

// IsZero returns true when the locator is absent or blank.
func (l Locator) IsZero() bool {
	return strings.TrimSpace(string(l)) == ""
}

// String returns the string representation.
func (l Locator) String() string {
	return string(l)
}

// UnmarshalJSON accepts strings, numbers, and null.
func (l *Locator) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Locator(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	if n == float64(int64(n)) {
		*l = Locator(strconv.FormatInt(int64(n), 10))
	} else {
		*l = Locator(strconv.FormatFloat(n, 'f', -1, 64))
	}
	return nil
}

// SourceChunk is one retrieved passage. Content is immutable once created;
// chunks with the same ID are interchangeable, so last-write-wins merging
// is safe.
type SourceChunk struct {
	// ID is stable and unique within a turn's source set. It doubles as
	// the citation marker payload, and for some corpora it is itself a
	// file path fragment.
	ID string `json:"id"`

	// BookTitle is the canonical or alias book title.
	BookTitle string `json:"bookTitle"`

	// Chapter locates the passage within the book. Optional.
	Chapter Locator `json:"chapter,omitempty"`

	// Verse locates the passage within the chapter. Optional.
	Verse Locator `json:"verse,omitempty"`

	// PageNumber is a fallback locator when chapter/verse is unavailable.
	PageNumber Locator `json:"pageNumber,omitempty"`

	// Content is the excerpted text.
	Content string `json:"content"`

	// Score is the relevance value in [0,1].
	Score float64 `json:"score"`
}

// DisplayRef returns a short human-readable reference for the chunk,
// e.g. "Chapter 2, Verse 13" or "Page 41".
func (c SourceChunk) DisplayRef() string {
	switch {
	case !c.Chapter.IsZero() && !c.Verse.IsZero():
		return "Chapter " + c.Chapter.String() + ", Verse " + c.Verse.String()
	case !c.Chapter.IsZero():
		return "Chapter " + c.Chapter.String()
	case !c.PageNumber.IsZero():
		return "Page " + c.PageNumber.String()
	default:
		return ""
	}
}

// MergeSourceChunks appends newly arrived chunks to the live working set,
// preserving order of first appearance. A chunk whose ID is already present
// keeps its original position and is not duplicated.
func MergeSourceChunks(existing, arrived []SourceChunk) []SourceChunk {
	seen := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		seen[c.ID] = struct{}{}
	}
	merged := existing
	for _, c := range arrived {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		merged = append(merged, c)
	}
	return merged
}

// DedupeSourceChunks collapses a gathered sequence (which may contain
// repeated IDs) into the finalized source set: each ID appears exactly once,
// ordered by first appearance, with the last value winning per ID.
func DedupeSourceChunks(gathered []SourceChunk) []SourceChunk {
	if len(gathered) == 0 {
		return nil
	}
	order := make([]string, 0, len(gathered))
	latest := make(map[string]SourceChunk, len(gathered))
	for _, c := range gathered {
		if _, ok := latest[c.ID]; !ok {
			order = append(order, c.ID)
		}
		latest[c.ID] = c
	}
	deduped := make([]SourceChunk, 0, len(order))
	for _, id := range order {
		deduped = append(deduped, latest[id])
	}
	return deduped
}
