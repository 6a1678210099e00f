// Package dictionary stores the candidate words served for completion and
// loads them from text or binary chunk files.
package dictionary

import (
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Vocabulary is a thread-safe word list with optional metadata per word.
// Words keep the order they were added in unless the vocabulary is
// alphabetical.
type Vocabulary struct {
	mu           sync.RWMutex
	trie         *patricia.Trie
	order        []string
	alphabetical bool
}

// NewVocabulary creates an empty vocabulary. When alphabetical is true Words
// returns the words sorted instead of in insertion order.
func NewVocabulary(alphabetical bool) *Vocabulary {
	return &Vocabulary{
		trie:         patricia.NewTrie(),
		alphabetical: alphabetical,
	}
}

// Add inserts word with its metadata. Adding a word that already exists only
// replaces its metadata and returns false. Empty words are ignored.
func (v *Vocabulary) Add(word, meta string) bool {
	if word == "" {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.trie.Insert(patricia.Prefix(word), meta) {
		v.trie.Set(patricia.Prefix(word), meta)
		return false
	}
	v.order = append(v.order, word)
	return true
}

// Remove deletes word and reports whether it was present.
func (v *Vocabulary) Remove(word string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.trie.Delete(patricia.Prefix(word)) {
		return false
	}
	for i, w := range v.order {
		if w == word {
			v.order = append(v.order[:i], v.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether word is in the vocabulary.
func (v *Vocabulary) Contains(word string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.trie.Match(patricia.Prefix(word))
}

// Meta returns the metadata stored for word, or "" when there is none.
func (v *Vocabulary) Meta(word string) string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	item := v.trie.Get(patricia.Prefix(word))
	if item == nil {
		return ""
	}
	meta, ok := item.(string)
	if !ok {
		log.Errorf("Unknown item type: %T for word %s", item, word)
		return ""
	}
	return meta
}

// Words returns a snapshot of the current words. Its signature matches
// complete.WordSource so a vocabulary can feed a completer directly.
func (v *Vocabulary) Words() ([]string, error) {
	v.mu.RLock()
	words := make([]string, len(v.order))
	copy(words, v.order)
	v.mu.RUnlock()

	if v.alphabetical {
		sort.Strings(words)
	}
	return words, nil
}

// WithPrefix returns the sorted words that start with prefix.
func (v *Vocabulary) WithPrefix(prefix string) []string {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var words []string
	err := v.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		words = append(words, string(p))
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting trie subtree: %v", err)
		return nil
	}
	sort.Strings(words)
	return words
}

// Len returns the number of words.
func (v *Vocabulary) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}

// Stats returns basic counters about the vocabulary.
func (v *Vocabulary) Stats() map[string]int {
	v.mu.RLock()
	defer v.mu.RUnlock()

	withMeta := 0
	_ = v.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		if meta, ok := item.(string); ok && meta != "" {
			withMeta++
		}
		return nil
	})
	return map[string]int{
		"totalWords":    len(v.order),
		"wordsWithMeta": withMeta,
	}
}
