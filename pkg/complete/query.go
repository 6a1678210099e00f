package complete

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Boundary selects which runes make up the word typed before the cursor.
type Boundary int

const (
	// BoundaryNarrow accepts letters, digits and underscore.
	BoundaryNarrow Boundary = iota
	// BoundaryBroad accepts any non-whitespace rune.
	BoundaryBroad
)

// ErrUnknownBoundary is returned by ParseBoundary for unsupported names.
var ErrUnknownBoundary = errors.New("unknown word boundary")

func (b Boundary) String() string {
	switch b {
	case BoundaryNarrow:
		return "narrow"
	case BoundaryBroad:
		return "broad"
	default:
		return fmt.Sprintf("Boundary(%d)", int(b))
	}
}

// ParseBoundary accepts "narrow" or "broad" (case-insensitive). An empty name
// means narrow.
func ParseBoundary(name string) (Boundary, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "narrow", "word":
		return BoundaryNarrow, nil
	case "broad", "bigword":
		return BoundaryBroad, nil
	default:
		return BoundaryNarrow, fmt.Errorf("%w: %q", ErrUnknownBoundary, name)
	}
}

func (b Boundary) accepts(r rune) bool {
	if b == BoundaryBroad {
		return !unicode.IsSpace(r)
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// QueryBeforeCursor returns the run of word runes that ends right before the
// cursor. cursor counts runes and is clamped to the text. The result is empty
// when the rune before the cursor is not a word rune.
func QueryBeforeCursor(text string, cursor int, b Boundary) string {
	runes := []rune(text)
	if cursor > len(runes) {
		cursor = len(runes)
	}
	if cursor <= 0 {
		return ""
	}

	start := cursor
	for start > 0 && b.accepts(runes[start-1]) {
		start--
	}
	return string(runes[start:cursor])
}
