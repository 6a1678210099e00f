/*
Package server implements msgpack IPC for fuzzy word completion.

Clients write msgpack encoded requests to stdin and read one msgpack response per
request from stdout. On start the server writes a single {"status": "ready"} map.

# IPC

Every request carries an ID and an action. An empty action means "complete".

A completion request either names the query directly:

	{"id": "req_001", "q": "oar", "l": 10}

or sends the edited text and the cursor (in runes), and the server extracts the
word before the cursor using the configured word boundaries:

	{"id": "req_002", "x": "the dinosa", "cur": 10}

Without "cur" the cursor sits at the end of the text. The response lists the
matches best first:

	{"id": "req_001", "s": [{"w": "leopard", "r": 1, "d": 3, "sp": [...]}, ...], "c": 2, "t": 45}

"d" is how many runes before the cursor the word replaces, "m" carries the word's
metadata when it has any, and "sp" is the display label as category/text pairs.
"t" is the time spent in microseconds.

# Vocabulary and config

	{"id": "v1", "action": "add", "words": [{"w": "okapi", "m": "animal"}]}
	{"id": "v2", "action": "remove", "words": [{"w": "okapi"}]}
	{"id": "v3", "action": "info"}
	{"id": "c1", "action": "config", "sort": false, "max_limit": 20}
	{"id": "h1", "action": "health"}

Added words are visible to the very next completion request. Config changes are
saved to the active config file when there is one.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionAdd      = "add"
	ActionRemove   = "remove"
	ActionInfo     = "info"
	ActionConfig   = "config"
	ActionHealth   = "health"
)

// Request is the envelope of every client message.
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`

	// completion
	Query  *string `msgpack:"q,omitempty"`
	Text   string  `msgpack:"x,omitempty"`
	Cursor *int    `msgpack:"cur,omitempty"`
	Limit  int     `msgpack:"l,omitempty"`

	// vocabulary
	Words []WordEntry `msgpack:"words,omitempty"`

	// config
	Sort     *bool `msgpack:"sort,omitempty"`
	MaxLimit *int  `msgpack:"max_limit,omitempty"`
}

// WordEntry is a word with optional metadata.
type WordEntry struct {
	Word string `msgpack:"w"`
	Meta string `msgpack:"m,omitempty"`
}

// DisplaySpan is one labelled piece of a suggestion's display label.
type DisplaySpan struct {
	Category string `msgpack:"c"`
	Text     string `msgpack:"t"`
}

// CompletionSuggestion - one ranked match
type CompletionSuggestion struct {
	Word   string        `msgpack:"w"`
	Rank   uint16        `msgpack:"r"`
	Delete int           `msgpack:"d"`
	Meta   string        `msgpack:"m,omitempty"`
	Spans  []DisplaySpan `msgpack:"sp"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Query       string                 `msgpack:"q"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// VocabularyResponse answers add, remove and info requests.
type VocabularyResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	Changed    int    `msgpack:"changed"`
	TotalWords int    `msgpack:"total_words"`
}

// ConfigResponse - config operation response
type ConfigResponse struct {
	ID             string `msgpack:"id"`
	Status         string `msgpack:"status"`
	SortResults    bool   `msgpack:"sort_results"`
	WordBoundaries string `msgpack:"word_boundaries"`
	MaxLimit       int    `msgpack:"max_limit"`
	MinQuery       int    `msgpack:"min_query"`
	MaxQuery       int    `msgpack:"max_query"`
}

// StatusResponse is sent on start and for health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// CompletionError holds basic error information for any failed request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
