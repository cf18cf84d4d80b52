// Package faq provides lightweight search over a fixed FAQ document.
//
// The document text is extracted once at startup (PDF or plain text),
// segmented into question/answer units, and held immutably in memory for the
// process lifetime. Search is a keyword-overlap heuristic, not a ranked
// search engine: no inverted index, no relevance model beyond word overlap.
package faq

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoMatch indicates that no FAQ segment scored above the match threshold.
var ErrNoMatch = errors.New("no matching FAQ entry")

// Segment is one question/answer unit extracted from the FAQ document.
type Segment struct {
	Question string
	Answer   string
}

// Index holds the ordered FAQ segments. Immutable after construction and
// safe for concurrent use.
type Index struct {
	segments []Segment
}

// Load extracts text from the document at path and builds an Index.
//
// Files ending in .pdf go through PDF text extraction; anything else is read
// as plain text. Extraction or parse failures are returned to the caller and
// should be treated as startup-fatal.
func Load(path string) (*Index, error) {
	text, err := ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("load FAQ document: %w", err)
	}

	ix := NewIndex(text)
	if ix.Len() == 0 {
		return nil, fmt.Errorf("load FAQ document %s: no question/answer segments found", path)
	}
	return ix, nil
}

// NewIndex parses raw document text into question/answer segments.
//
// The parser recognizes two layouts, which may be mixed:
//
//	Q: How do I reset my password?
//	A: Open Settings and choose "Reset password".
//
// and bare question lines ending in "?" followed by answer lines:
//
//	How do I reset my password?
//	Open Settings and choose "Reset password".
//
// Lines before the first question are ignored. A question with no answer
// text is dropped.
func NewIndex(text string) *Index {
	var segments []Segment
	var current *Segment

	flush := func() {
		if current != nil && current.Answer != "" {
			segments = append(segments, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if q, ok := questionLine(line); ok {
			flush()
			current = &Segment{Question: q}
			continue
		}

		if current == nil {
			continue // preamble before the first question
		}

		answer := strings.TrimSpace(strings.TrimPrefix(line, "A:"))
		if current.Answer != "" {
			current.Answer += " "
		}
		current.Answer += answer
	}
	flush()

	return &Index{segments: segments}
}

// questionLine reports whether line starts a new segment, returning the
// cleaned question text.
func questionLine(line string) (string, bool) {
	if strings.HasPrefix(line, "Q:") {
		return strings.TrimSpace(strings.TrimPrefix(line, "Q:")), true
	}
	if strings.HasSuffix(line, "?") && !strings.HasPrefix(line, "A:") {
		return line, true
	}
	return "", false
}

// Search returns the answer segment best matching the free-text query.
//
// Scoring is case-insensitive keyword overlap: the query is split into
// words, and each segment scores one point per distinct query word found in
// its question or answer text. The highest score wins; ties break in favor
// of the earlier segment. A score of zero returns ErrNoMatch.
func (ix *Index) Search(query string) (Segment, error) {
	queryWords := tokenize(query)
	if len(queryWords) == 0 {
		return Segment{}, fmt.Errorf("%w: empty query", ErrNoMatch)
	}

	best := -1
	bestScore := 0
	for i, seg := range ix.segments {
		text := strings.ToLower(seg.Question + " " + seg.Answer)
		score := 0
		for word := range queryWords {
			if strings.Contains(text, word) {
				score++
			}
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	if best < 0 {
		return Segment{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	return ix.segments[best], nil
}

// Segments returns the parsed segments in document order.
func (ix *Index) Segments() []Segment {
	return ix.segments
}

// Len returns the number of segments in the index.
func (ix *Index) Len() int {
	return len(ix.segments)
}

// stopwords are common words too generic to contribute to a match score.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "how": {}, "what": {}, "when": {},
	"where": {}, "why": {}, "can": {}, "you": {}, "your": {}, "are": {},
	"does": {}, "with": {}, "that": {}, "this": {},
}

// tokenize lowercases the query and returns its distinct significant words.
func tokenize(query string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(query)) {
		w = strings.Trim(w, ".,;:!?\"'()")
		if len(w) < 3 {
			continue
		}
		if _, skip := stopwords[w]; skip {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}
