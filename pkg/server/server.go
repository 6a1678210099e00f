package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/fuzzword/internal/logger"
	"github.com/bastiangx/fuzzword/internal/utils"
	"github.com/bastiangx/fuzzword/pkg/complete"
	"github.com/bastiangx/fuzzword/pkg/config"
	"github.com/bastiangx/fuzzword/pkg/dictionary"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// reloadEvery is how many requests pass between config file reloads.
const reloadEvery = 100

// Server answers completion requests for a vocabulary over msgpack IPC
type Server struct {
	vocab        *dictionary.Vocabulary
	completer    *complete.Completer
	config       *config.Config
	configPath   string
	overrides    config.Overrides
	decoder      *msgpack.Decoder
	writer       *bufio.Writer
	encoder      *msgpack.Encoder
	logger       *log.Logger
	requestCount int
}

// NewServer creates a server using stdin/stdout for IPC. configPath may be
// empty, in which case config changes stay in memory.
func NewServer(vocab *dictionary.Vocabulary, cfg *config.Config, configPath string) (*Server, error) {
	return NewServerWithIO(vocab, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w.
func NewServerWithIO(vocab *dictionary.Vocabulary, cfg *config.Config, configPath string, r io.Reader, w io.Writer) (*Server, error) {
	if vocab == nil {
		return nil, errors.New("server needs a vocabulary")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	writer := bufio.NewWriter(w)
	s := &Server{
		vocab:      vocab,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(r),
		writer:     writer,
		encoder:    msgpack.NewEncoder(writer),
		logger:     logger.New("server"),
	}
	if err := s.rebuildCompleter(); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuildCompleter applies the current [match] config.
func (s *Server) rebuildCompleter() error {
	opts, err := s.config.CompleterOptions()
	if err != nil {
		return fmt.Errorf("invalid match config: %w", err)
	}
	s.completer = complete.New(s.vocab.Words, s.vocab.Meta, opts)
	return nil
}

// Start signals readiness and serves requests until the input is closed.
func (s *Server) Start() error {
	s.logger.Debug("Starting server", "words", s.vocab.Len())

	if err := s.send(StatusResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Client closed input", "requests", s.requestCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return err
		}

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			s.logger.Errorf("Unmarshaling request: %v", err)
			if err := s.send(CompletionError{Error: "invalid msgpack request", Code: 400}); err != nil {
				return err
			}
			continue
		}

		if err := s.send(s.HandleRequest(req)); err != nil {
			return err
		}
	}
}

// HandleRequest processes one request and returns the response to send.
func (s *Server) HandleRequest(req Request) any {
	s.requestCount++
	if s.requestCount%reloadEvery == 0 {
		s.reloadConfig()
	}

	switch req.Action {
	case "", ActionComplete:
		return s.handleComplete(req)
	case ActionAdd:
		return s.handleAdd(req)
	case ActionRemove:
		return s.handleRemove(req)
	case ActionInfo:
		return VocabularyResponse{ID: req.ID, Status: "ok", TotalWords: s.vocab.Len()}
	case ActionConfig:
		return s.handleConfig(req)
	case ActionHealth:
		return StatusResponse{ID: req.ID, Status: "ok"}
	default:
		return s.errorResponse(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) any {
	query := s.requestQuery(req)
	queryLen := utf8.RuneCountInString(query)

	if queryLen < s.config.Server.MinQuery {
		s.logger.Debug("Query too short", "id", req.ID, "query", query)
		return s.errorResponse(req.ID, fmt.Sprintf("Query must be at least %d characters", s.config.Server.MinQuery), 400)
	}
	if queryLen > s.config.Server.MaxQuery {
		s.logger.Debug("Query too long", "id", req.ID, "length", queryLen)
		return s.errorResponse(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxQuery), 400)
	}

	limit := req.Limit
	if limit < 1 || limit > s.config.Server.MaxLimit {
		limit = s.config.Server.MaxLimit
	}

	start := time.Now()
	seq, err := s.completer.Complete(query)
	if err != nil {
		s.logger.Errorf("Completing %q: %v", query, err)
		return s.errorResponse(req.ID, "Internal server error", 500)
	}
	completions := complete.Collect(seq, limit)
	elapsed := time.Since(start)

	ranks := utils.CreateRankList(len(completions))
	suggestions := make([]CompletionSuggestion, len(completions))
	for i, c := range completions {
		spans := make([]DisplaySpan, len(c.Display))
		for j, span := range c.Display {
			spans[j] = DisplaySpan{Category: string(span.Category), Text: span.Text}
		}
		suggestions[i] = CompletionSuggestion{
			Word:   c.Text,
			Rank:   ranks[i],
			Delete: c.DeleteLength,
			Meta:   c.Meta,
			Spans:  spans,
		}
	}

	s.logger.Debugf("Took [ %v ] for query '%s' (%d results)", elapsed, query, len(suggestions))
	return CompletionResponse{
		ID:          req.ID,
		Query:       query,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

// requestQuery returns the explicit query, or extracts it from text and cursor.
func (s *Server) requestQuery(req Request) string {
	if req.Query != nil {
		return *req.Query
	}
	cursor := utf8.RuneCountInString(req.Text)
	if req.Cursor != nil {
		cursor = *req.Cursor
	}
	return complete.QueryBeforeCursor(req.Text, cursor, s.completer.Options().Boundary)
}

func (s *Server) handleAdd(req Request) any {
	if len(req.Words) == 0 {
		return s.errorResponse(req.ID, "Missing 'words' parameter", 400)
	}
	added := 0
	for _, entry := range req.Words {
		if s.vocab.Add(entry.Word, entry.Meta) {
			added++
		}
	}
	s.logger.Debug("Added words", "added", added, "total", s.vocab.Len())
	return VocabularyResponse{ID: req.ID, Status: "ok", Changed: added, TotalWords: s.vocab.Len()}
}

func (s *Server) handleRemove(req Request) any {
	if len(req.Words) == 0 {
		return s.errorResponse(req.ID, "Missing 'words' parameter", 400)
	}
	removed := 0
	for _, entry := range req.Words {
		if s.vocab.Remove(entry.Word) {
			removed++
		}
	}
	s.logger.Debug("Removed words", "removed", removed, "total", s.vocab.Len())
	return VocabularyResponse{ID: req.ID, Status: "ok", Changed: removed, TotalWords: s.vocab.Len()}
}

func (s *Server) handleConfig(req Request) any {
	if req.MaxLimit != nil && *req.MaxLimit < 1 {
		return s.errorResponse(req.ID, "max_limit must be at least 1", 400)
	}

	next := *s.config
	if s.configPath != "" {
		// save on top of the file, not of the flag overrides
		saved, err := config.LoadConfig(s.configPath)
		if err == nil {
			err = saved.Update(s.configPath, req.MaxLimit, nil, nil, req.Sort)
		}
		if err != nil {
			s.logger.Errorf("Saving config to %s: %v", s.configPath, err)
			return s.errorResponse(req.ID, "Failed to save config", 500)
		}
		next = *saved
	} else {
		if req.MaxLimit != nil {
			next.Server.MaxLimit = *req.MaxLimit
		}
		if req.Sort != nil {
			next.Match.SortResults = *req.Sort
		}
	}

	overrides := s.overrides
	if req.Sort != nil {
		// the client asked for an order explicitly
		overrides.SortResults = nil
	}
	overrides.Apply(&next)

	if err := s.applyConfig(&next); err != nil {
		return s.errorResponse(req.ID, err.Error(), 500)
	}
	s.overrides = overrides
	return s.configResponse(req.ID)
}

func (s *Server) configResponse(id string) ConfigResponse {
	return ConfigResponse{
		ID:             id,
		Status:         "ok",
		SortResults:    s.config.Match.SortResults,
		WordBoundaries: s.config.Match.WordBoundaries,
		MaxLimit:       s.config.Server.MaxLimit,
		MinQuery:       s.config.Server.MinQuery,
		MaxQuery:       s.config.Server.MaxQuery,
	}
}

// SetOverrides keeps command line values in force across config reloads.
func (s *Server) SetOverrides(o config.Overrides) {
	s.overrides = o
}

// reloadConfig picks up edits made to the config file while running.
func (s *Server) reloadConfig() {
	if s.configPath == "" {
		return
	}
	cfg, err := config.LoadConfig(s.configPath)
	if err != nil {
		s.logger.Warnf("Failed to reload config: %v", err)
		return
	}
	s.overrides.Apply(cfg)
	if err := s.applyConfig(cfg); err != nil {
		s.logger.Warnf("Ignoring config at %s: %v", s.configPath, err)
		return
	}
	s.logger.Debugf("Reloaded config from %s", s.configPath)
}

// applyConfig switches to cfg, or leaves the current config in place when cfg
// is invalid.
func (s *Server) applyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	previous := s.config
	s.config = cfg
	if err := s.rebuildCompleter(); err != nil {
		s.config = previous
		return err
	}
	return nil
}

func (s *Server) errorResponse(id, message string, code int) CompletionError {
	return CompletionError{ID: id, Error: message, Code: code}
}

// send encodes one response and flushes it to the client.
func (s *Server) send(response any) error {
	if err := s.encoder.Encode(response); err != nil {
		s.logger.Errorf("Marshaling response: %v", err)
		return err
	}
	return s.writer.Flush()
}
