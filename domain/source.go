package domain

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

// StdinName is the document name used for text read from standard input
const StdinName = "<stdin>"

// SourceDocument is the immutable input of a single analysis.
// It is built once per analysis and never mutated afterwards.
type SourceDocument struct {
	// Name identifies the document in reports (file path or "<stdin>")
	Name string

	// Text is the raw source text
	Text string

	// LineCount is the number of "\n"-separated lines; empty text has one line
	LineCount int

	// Digest is the xxhash64 of Text in hex
	Digest string

	// lineStarts holds the byte offset of every line start
	lineStarts []int
}

// NewSourceDocument decodes payload as UTF-8 text.
// A payload that is not valid UTF-8 yields an InvalidInputError.
func NewSourceDocument(name string, payload []byte) (*SourceDocument, error) {
	if !utf8.Valid(payload) {
		return nil, NewInvalidInputError("payload is not valid UTF-8 text: "+name, nil)
	}
	return NewSourceDocumentFromString(name, string(payload)), nil
}

// NewSourceDocumentFromString wraps already-decoded text
func NewSourceDocumentFromString(name, text string) *SourceDocument {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &SourceDocument{
		Name:       name,
		Text:       text,
		LineCount:  len(starts),
		Digest:     strconv.FormatUint(xxhash.Sum64String(text), 16),
		lineStarts: starts,
	}
}

// LineAt returns the 1-based line containing the byte offset
func (d *SourceDocument) LineAt(offset int) int {
	if offset <= 0 {
		return 1
	}
	if offset > len(d.Text) {
		offset = len(d.Text)
	}
	if d.lineStarts == nil {
		return strings.Count(d.Text[:offset], "\n") + 1
	}
	// number of line starts at or before offset
	return sort.SearchInts(d.lineStarts, offset+1)
}

// IsEmpty reports whether the document has no text at all
func (d *SourceDocument) IsEmpty() bool {
	return len(d.Text) == 0
}
