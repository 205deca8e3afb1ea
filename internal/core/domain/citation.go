package domain

import (
	"regexp"
	"strings"
)

// SegmentKind distinguishes the two kinds of parsed answer segments.
type SegmentKind int

const (
	// SegmentText is a verbatim run of answer text (markdown allowed).
	SegmentText SegmentKind = iota

	// SegmentCitation is a citation reference carrying a source ID.
	SegmentCitation
)

// Segment is one run of parsed answer content. For SegmentText, Text holds
// the verbatim run; for SegmentCitation, CitationID holds the marker payload.
type Segment struct {
	Kind       SegmentKind
	Text       string
	CitationID string
}

// citationMarker matches well-formed inline markers of the exact form
// [[<id>]]. Non-greedy so adjacent markers split correctly.
var citationMarker = regexp.MustCompile(`\[\[(.*?)\]\]`)

// ParseCitations splits answer text into an ordered sequence of text runs
// and citation references. All surrounding text is preserved verbatim;
// partial or malformed markers stay inside text runs. Text with no markers
// comes back as a single text segment equal to the input.
func ParseCitations(text string) []Segment {
	matches := citationMarker.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return []Segment{{Kind: SegmentText, Text: text}}
	}

	segments := make([]Segment, 0, 2*len(matches)+1)
	pos := 0
	for _, m := range matches {
		if m[0] > pos {
			segments = append(segments, Segment{Kind: SegmentText, Text: text[pos:m[0]]})
		}
		segments = append(segments, Segment{Kind: SegmentCitation, CitationID: text[m[2]:m[3]]})
		pos = m[1]
	}
	if pos < len(text) {
		segments = append(segments, Segment{Kind: SegmentText, Text: text[pos:]})
	}
	return segments
}

// ResolveCitation looks up a cited source by ID. Exact match wins; if none,
// both the lookup ID and every candidate ID are retried with backslashes
// normalized to slashes, accommodating sources whose ID is itself a file
// path. Returns ErrNotFound when no candidate matches.
func ResolveCitation(id string, sources []SourceChunk) (SourceChunk, error) {
	for _, c := range sources {
		if c.ID == id {
			return c, nil
		}
	}
	normalized := strings.ReplaceAll(id, `\`, "/")
	for _, c := range sources {
		if strings.ReplaceAll(c.ID, `\`, "/") == normalized {
			return c, nil
		}
	}
	return SourceChunk{}, ErrNotFound
}
