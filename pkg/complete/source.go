package complete

// WordSource produces the candidate words for one request. It is called
// exactly once per request and its result is fully materialized before
// matching starts.
type WordSource func() ([]string, error)

// StaticWords wraps a fixed list as a WordSource. The list is copied, so later
// changes to words are not seen.
func StaticWords(words ...string) WordSource {
	snapshot := append([]string(nil), words...)
	return func() ([]string, error) {
		return snapshot, nil
	}
}

// MetaFunc resolves the display metadata of a word. Unknown words resolve to "".
type MetaFunc func(word string) string

// MetaMap looks metadata up in m.
func MetaMap(m map[string]string) MetaFunc {
	return func(word string) string {
		return m[word]
	}
}
