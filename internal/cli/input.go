// Package cli handles cmd line input and suggestions for DBG and testing the matcher
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/fuzzword/internal/utils"
	"github.com/bastiangx/fuzzword/pkg/complete"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines from stdin and prints the completions for the word
// at the end of each line, as if the cursor sat right after it.
type InputHandler struct {
	completer    *complete.Completer
	renderer     *Renderer
	suggestLimit int
	requestCount int
	in           io.Reader
	out          io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer *complete.Completer, limit int, noColor bool) *InputHandler {
	return &InputHandler{
		completer:    completer,
		renderer:     NewRenderer(noColor),
		suggestLimit: limit,
		in:           os.Stdin,
		out:          os.Stdout,
	}
}

// Start begins the interface loop. It returns nil once stdin is closed.
func (h *InputHandler) Start() error {
	log.Print("FuzzWord CLI [BETA]")
	log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")
	reader := bufio.NewReader(h.in)

	for {
		log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			h.handleInput(line)
		}
		if err == io.EOF {
			return nil
		}
	}
}

// handleInput completes the word before the end of line and prints the results.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	start := time.Now()
	seq, err := h.completer.CompleteText(line, utf8.RuneCountInString(line))
	if err != nil {
		log.Errorf("Completion failed: %v", err)
		return
	}
	completions := complete.Collect(seq, h.suggestLimit)
	elapsed := time.Since(start)

	query := complete.QueryBeforeCursor(line, utf8.RuneCountInString(line), h.completer.Options().Boundary)
	log.Debugf("Took [ %v ] for query '%s' (request #%d)", elapsed, query, h.requestCount)

	if len(completions) == 0 {
		log.Warnf("No suggestions found for query: '%s'", query)
		return
	}

	log.Printf("Found %s suggestions for query '%s':", utils.FormatWithCommas(len(completions)), query)
	for i, c := range completions {
		label := h.renderer.Render(c.Display)
		if c.Meta != "" {
			fmt.Fprintf(h.out, "%2d. %s  (%s)\n", i+1, label, c.Meta)
		} else {
			fmt.Fprintf(h.out, "%2d. %s\n", i+1, label)
		}
	}
}
