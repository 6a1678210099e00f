/*
Package fuzzy finds, ranks and annotates in-order subsequence matches of a typed
fragment inside candidate words.

A query matches a word when every query rune appears in the word, in order, not
necessarily next to each other. "oar" matches "leopard" (le[o]p[a][r]d) and
"dinosaur" (din[o]s[a]u[r]) but not "gorilla".

For every matching word the best Occurrence is kept: the span that starts
earliest and, among spans with that start, the shortest one. Results rank by the
same two keys:

	occs := fuzzy.Match("oar", words)
	fuzzy.Rank(occs)
	for _, occ := range occs {
		spans := fuzzy.Annotate(occ, "oar")
		...
	}

Matching is case-insensitive. Offsets and lengths count runes, not bytes.
*/
package fuzzy

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Occurrence is the best placement of a query inside one word.
type Occurrence struct {
	Word string
	// Start is the rune offset where the matched span begins.
	Start int
	// Length is the span length in runes. Zero only for an empty query.
	Length int
}

// End returns the rune offset just past the matched span.
func (o Occurrence) End() int {
	return o.Start + o.Length
}

// FindBestOccurrence returns the earliest, then shortest, span of word that
// holds the runes of query in order. The second result is false when query is
// not a subsequence of word.
func FindBestOccurrence(query, word string) (Occurrence, bool) {
	if query == "" {
		return Occurrence{Word: word}, true
	}
	if utf8.RuneCountInString(query) > utf8.RuneCountInString(word) {
		return Occurrence{}, false
	}

	// MatchFold lowers runes with unicode.ToLower like foldRune, so where it
	// applies its answer is the match decision and the scan only places the span.
	if foldable(query) && foldable(word) && !fuzzy.MatchFold(query, word) {
		return Occurrence{}, false
	}

	q := foldRunes(query)
	w := foldRunes(word)

	for start := 0; start+len(q) <= len(w); start++ {
		if w[start] != q[0] {
			continue
		}
		end, ok := scanForward(q, w, start)
		if !ok {
			// a later start sees a suffix of this window, so it cannot succeed either
			break
		}
		return Occurrence{Word: word, Start: start, Length: end - start}, true
	}
	return Occurrence{}, false
}

// foldable reports whether MatchFold reads s rune for rune. Its fold
// transformer miscounts the bytes of invalid UTF-8 and of U+FFFD itself.
func foldable(s string) bool {
	return utf8.ValidString(s) && !strings.ContainsRune(s, utf8.RuneError)
}

// scanForward takes the first position for each query rune moving right from
// start, which gives the shortest span beginning at start. It returns the
// offset just past the last consumed rune.
func scanForward(q, w []rune, start int) (int, bool) {
	qi := 0
	for wi := start; wi < len(w); wi++ {
		if w[wi] == q[qi] {
			qi++
			if qi == len(q) {
				return wi + 1, true
			}
		}
	}
	return 0, false
}

// Match runs FindBestOccurrence over words and keeps the matches in input order.
func Match(query string, words []string) []Occurrence {
	occs := make([]Occurrence, 0, len(words))
	for _, word := range words {
		if occ, ok := FindBestOccurrence(query, word); ok {
			occs = append(occs, occ)
		}
	}
	return occs
}

func foldRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = foldRune(r)
	}
	return runes
}

func foldRune(r rune) rune {
	// ASCII fast path
	if r < utf8.RuneSelf {
		if 'A' <= r && r <= 'Z' {
			r += 'a' - 'A'
		}
		return r
	}
	return unicode.ToLower(r)
}

// equalFold reports whether a and b are the same rune ignoring case.
func equalFold(a, b rune) bool {
	if a == b {
		return true
	}
	return foldRune(a) == foldRune(b)
}
