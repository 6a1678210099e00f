// Package complete turns fuzzy matches over a word source into ready to insert
// completions for the word typed before a cursor.
package complete

import (
	"errors"
	"fmt"
	"iter"
	"unicode/utf8"

	"github.com/bastiangx/fuzzword/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// ErrSourceFailed wraps any error returned by a WordSource.
var ErrSourceFailed = errors.New("word source failed")

// Completion is one ranked result.
type Completion struct {
	// Text replaces the query when the completion is accepted.
	Text string
	// DeleteLength is how many runes before the cursor Text replaces.
	DeleteLength int
	Meta         string
	Display      []fuzzy.Span
	Occurrence   fuzzy.Occurrence
}

// Options tunes a Completer.
type Options struct {
	// SortResults ranks matches best first. When false, matches keep the
	// order of the word source.
	SortResults bool
	// Boundary decides what CompleteText treats as the query.
	Boundary Boundary
}

// DefaultOptions returns ranked results with narrow word boundaries.
func DefaultOptions() Options {
	return Options{
		SortResults: true,
		Boundary:    BoundaryNarrow,
	}
}

// Completer matches queries against a word source. It holds no per-request
// state, so one Completer can serve any number of requests.
type Completer struct {
	source WordSource
	meta   MetaFunc
	opts   Options
}

// New creates a Completer. meta may be nil.
func New(source WordSource, meta MetaFunc, opts Options) *Completer {
	if source == nil {
		source = StaticWords()
	}
	if meta == nil {
		meta = func(string) string { return "" }
	}
	return &Completer{
		source: source,
		meta:   meta,
		opts:   opts,
	}
}

// Options returns the options the Completer was created with.
func (c *Completer) Options() Options {
	return c.opts
}

// Complete matches query against the current words. Matching and ranking
// happen before Complete returns; display spans are built only for the
// completions the caller actually pulls from the sequence.
func (c *Completer) Complete(query string) (iter.Seq[Completion], error) {
	words, err := c.source()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceFailed, err)
	}

	occs := fuzzy.Match(query, words)
	if c.opts.SortResults {
		fuzzy.Rank(occs)
	}
	log.Debugf("query %q matched %d of %d words", query, len(occs), len(words))

	deleteLength := utf8.RuneCountInString(query)
	return func(yield func(Completion) bool) {
		for _, occ := range occs {
			completion := Completion{
				Text:         occ.Word,
				DeleteLength: deleteLength,
				Meta:         c.meta(occ.Word),
				Display:      fuzzy.Annotate(occ, query),
				Occurrence:   occ,
			}
			if !yield(completion) {
				return
			}
		}
	}, nil
}

// CompleteText extracts the query ending at cursor (in runes) using the
// configured boundary, then completes it.
func (c *Completer) CompleteText(text string, cursor int) (iter.Seq[Completion], error) {
	return c.Complete(QueryBeforeCursor(text, cursor, c.opts.Boundary))
}

// Collect drains seq into a slice, stopping after limit items when limit > 0.
func Collect(seq iter.Seq[Completion], limit int) []Completion {
	var out []Completion
	if seq == nil {
		return out
	}
	for completion := range seq {
		out = append(out, completion)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
