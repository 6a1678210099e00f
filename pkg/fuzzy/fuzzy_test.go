package fuzzy

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindBestOccurrence(t *testing.T) {
	testCases := []struct {
		query       string
		word        string
		start       int
		length      int
		found       bool
		description string
	}{
		{"oar", "leopard", 2, 4, true, "non-contiguous match"},
		{"oar", "dinosaur", 3, 5, true, "wider span"},
		{"oar", "gorilla", 0, 0, false, "missing r after a"},
		{"oar", "cat", 0, 0, false, "query longer than word"},
		{"", "abc", 0, 0, true, "empty query matches everything"},
		{"", "", 0, 0, true, "empty query and empty word"},
		{"aa", "aab", 0, 2, true, "repeated runes use distinct positions"},
		{"aa", "abc", 0, 0, false, "repeated rune cannot be reused"},
		{"y", "xx", 0, 0, false, "absent rune"},
		{"OAR", "LeOpArD", 2, 4, true, "case insensitive"},
		{"ab", "axxbab", 0, 4, true, "earliest start beats shorter later span"},
		{"ab", "xaxbab", 1, 3, true, "shortest span at the earliest start"},
		{"abc", "abc", 0, 3, true, "exact match"},
		{"c", "abc", 2, 1, true, "single rune at the end"},
		{"éa", "cafÉat", 3, 2, true, "non-ascii fold"},
		{"ü", "über", 0, 1, true, "multibyte rune offsets count runes"},
		{"\uFFFD", "x\xff", 1, 1, true, "invalid utf-8 reads as the replacement rune"},
		{"x\xff", "ax\xffb", 1, 2, true, "invalid utf-8 in query and word"},
		{"\uFFFD", "a\uFFFDb", 1, 1, true, "literal replacement rune"},
		{"\uFFFDb", "a\uFFFDxb", 1, 3, true, "literal replacement rune before other runes"},
		{"a", "leopard", 4, 1, true, "span begins on a query rune"},
		{"ss", "mississippi", 2, 2, true, "earliest start that holds the query"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			occ, found := FindBestOccurrence(tc.query, tc.word)
			if found != tc.found {
				t.Fatalf("query %q in %q: expected found=%v, got %v", tc.query, tc.word, tc.found, found)
			}
			if !found {
				return
			}
			want := Occurrence{Word: tc.word, Start: tc.start, Length: tc.length}
			if diff := cmp.Diff(want, occ); diff != "" {
				t.Errorf("query %q in %q (-want +got):\n%s", tc.query, tc.word, diff)
			}
		})
	}
}

// bruteForceBest tries every span that begins on the first query rune and
// returns the shortest span of the earliest start that holds the query.
func bruteForceBest(query, word string) (Occurrence, bool) {
	q := foldRunes(query)
	w := foldRunes(word)
	for start := 0; start < len(w); start++ {
		if w[start] != q[0] {
			continue
		}
		for end := start + 1; end <= len(w); end++ {
			if isSubsequence(q, w[start:end]) {
				return Occurrence{Word: word, Start: start, Length: end - start}, true
			}
		}
	}
	return Occurrence{}, false
}

func isSubsequence(q, w []rune) bool {
	qi := 0
	for _, r := range w {
		if qi < len(q) && r == q[qi] {
			qi++
		}
	}
	return qi == len(q)
}

func TestFindBestOccurrenceMatchesBruteForce(t *testing.T) {
	words := []string{
		"leopard", "gorilla", "dinosaur", "cat", "bee", "abracadabra",
		"mississippi", "banana", "aaaa", "xyzzy", "Alphabet", "bookkeeper",
		"Ärger", "straße", "x\xffy", "a\uFFFDb",
	}
	queries := []string{
		"a", "ab", "aa", "aaa", "abr", "ss", "sip", "ppi", "na", "ana", "bk", "eep", "zy", "AB", "pe",
		"är", "SSE", "ß", "\uFFFD", "\uFFFDy",
	}

	for _, word := range words {
		for _, query := range queries {
			got, gotOK := FindBestOccurrence(query, word)
			want, wantOK := bruteForceBest(query, word)
			if gotOK != wantOK {
				t.Errorf("query %q in %q: expected found=%v, got %v", query, word, wantOK, gotOK)
				continue
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("query %q in %q (-want +got):\n%s", query, word, diff)
			}
		}
	}
}

func TestFoldable(t *testing.T) {
	for s, want := range map[string]bool{
		"leopard":  true,
		"Ärger":    true,
		"":         true,
		"x\xff":    false,
		"a\uFFFDb": false,
	} {
		if got := foldable(s); got != want {
			t.Errorf("foldable(%q): expected %v, got %v", s, want, got)
		}
	}
}

func TestMatchAndRank(t *testing.T) {
	words := []string{"leopard", "gorilla", "dinosaur", "cat", "bee"}

	occs := Match("oar", words)
	Rank(occs)

	want := []Occurrence{
		{Word: "leopard", Start: 2, Length: 4},
		{Word: "dinosaur", Start: 3, Length: 5},
	}
	if diff := cmp.Diff(want, occs); diff != "" {
		t.Errorf("ranked matches (-want +got):\n%s", diff)
	}
}

func TestMatchEmptyInputs(t *testing.T) {
	if occs := Match("abc", nil); len(occs) != 0 {
		t.Errorf("expected no matches for empty word list, got %v", occs)
	}

	occs := Match("", []string{"b", "a"})
	want := []Occurrence{{Word: "b"}, {Word: "a"}}
	if diff := cmp.Diff(want, occs); diff != "" {
		t.Errorf("empty query (-want +got):\n%s", diff)
	}
}

func TestRankIsStable(t *testing.T) {
	occs := []Occurrence{
		{Word: "zeta", Start: 1, Length: 2},
		{Word: "alpha", Start: 0, Length: 3},
		{Word: "gamma", Start: 1, Length: 2},
		{Word: "beta", Start: 0, Length: 3},
		{Word: "delta", Start: 0, Length: 1},
	}
	Rank(occs)

	var got []string
	for _, o := range occs {
		got = append(got, o.Word)
	}
	want := []string{"delta", "alpha", "beta", "zeta", "gamma"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rank order (-want +got):\n%s", diff)
	}
}

func TestAnnotate(t *testing.T) {
	testCases := []struct {
		query       string
		word        string
		expected    []Span
		description string
	}{
		{
			query: "",
			word:  "abc",
			expected: []Span{
				{CategoryNone, "abc"},
			},
			description: "empty query passes the word through",
		},
		{
			query: "oar",
			word:  "leopard",
			expected: []Span{
				{CategoryOutside, "le"},
				{CategoryMatched, "o"},
				{CategoryInside, "p"},
				{CategoryMatched, "a"},
				{CategoryMatched, "r"},
				{CategoryOutside, "d"},
			},
			description: "prefix, filler and suffix",
		},
		{
			query: "aa",
			word:  "aab",
			expected: []Span{
				{CategoryMatched, "a"},
				{CategoryMatched, "a"},
				{CategoryOutside, "b"},
			},
			description: "match at start omits empty prefix",
		},
		{
			query: "AB",
			word:  "xaB",
			expected: []Span{
				{CategoryOutside, "x"},
				{CategoryMatched, "a"},
				{CategoryMatched, "B"},
			},
			description: "case insensitive tagging and no suffix",
		},
		{
			query: "ü",
			word:  "grün",
			expected: []Span{
				{CategoryOutside, "gr"},
				{CategoryMatched, "ü"},
				{CategoryOutside, "n"},
			},
			description: "multibyte runes",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			occ, ok := FindBestOccurrence(tc.query, tc.word)
			if !ok {
				t.Fatalf("query %q did not match %q", tc.query, tc.word)
			}
			spans := Annotate(occ, tc.query)
			if diff := cmp.Diff(tc.expected, spans); diff != "" {
				t.Errorf("spans (-want +got):\n%s", diff)
			}
			if got := Text(spans); got != tc.word {
				t.Errorf("joined spans: expected %q, got %q", tc.word, got)
			}
		})
	}
}

// joining spans must always give back the original word
func TestAnnotateRoundTrip(t *testing.T) {
	words := []string{"mississippi", "abracadabra", "Straße", "naïve", "x"}
	queries := []string{"", "s", "ss", "sip", "a", "aba", "ra", "ße", "ai", "x"}

	for _, word := range words {
		for _, query := range queries {
			occ, ok := FindBestOccurrence(query, word)
			if !ok {
				continue
			}
			if got := Text(Annotate(occ, query)); got != word {
				t.Errorf("query %q on %q: joined spans gave %q", query, word, got)
			}
		}
	}
}

func TestAnnotateTagsEveryQueryRune(t *testing.T) {
	occ, ok := FindBestOccurrence("sip", "mississippi")
	if !ok {
		t.Fatal("expected a match")
	}
	matched := 0
	for _, s := range Annotate(occ, "sip") {
		if s.Category == CategoryMatched {
			matched++
		}
	}
	if matched != 3 {
		t.Errorf("expected 3 matched runes, got %d", matched)
	}
}

// 1000 words, mixed queries
func BenchmarkMatch(b *testing.B) {
	words := make([]string, 1000)
	for i := range words {
		words[i] = fmt.Sprintf("word%dsuffix", i)
	}
	queries := []string{"w1s", "ord9", "wx", "sfx", "d99"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		occs := Match(queries[i%len(queries)], words)
		Rank(occs)
	}
}
