package fuzzy

// Category labels a piece of display text.
type Category string

const (
	// CategoryNone marks text shown verbatim, with no highlighting at all.
	CategoryNone Category = ""
	// CategoryOutside is text before or after the matched span.
	CategoryOutside Category = "fuzzymatch.outside"
	// CategoryInside is a filler rune inside the matched span.
	CategoryInside Category = "fuzzymatch.inside"
	// CategoryMatched is a rune inside the span that consumed a query rune.
	CategoryMatched Category = "fuzzymatch.inside.character"
)

// Span is one labelled piece of a display label.
type Span struct {
	Category Category
	Text     string
}

// Annotate splits occ.Word into display spans. An occurrence of length zero
// yields the whole word as a single CategoryNone span. Otherwise the text
// before and after the match is CategoryOutside (omitted when empty) and each
// rune of the match gets its own span. Joining all span texts gives the word
// back.
func Annotate(occ Occurrence, query string) []Span {
	if occ.Length == 0 {
		return []Span{{Category: CategoryNone, Text: occ.Word}}
	}

	word := []rune(occ.Word)
	spans := make([]Span, 0, occ.Length+2)

	if occ.Start > 0 {
		spans = append(spans, Span{Category: CategoryOutside, Text: string(word[:occ.Start])})
	}

	pending := []rune(query)
	for _, r := range word[occ.Start:occ.End()] {
		category := CategoryInside
		if len(pending) > 0 && equalFold(r, pending[0]) {
			category = CategoryMatched
			pending = pending[1:]
		}
		spans = append(spans, Span{Category: category, Text: string(r)})
	}

	if occ.End() < len(word) {
		spans = append(spans, Span{Category: CategoryOutside, Text: string(word[occ.End():])})
	}
	return spans
}

// Text joins the span texts back into a single string.
func Text(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
