package dictionary

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// maxChunkWords is a sanity bound on the header of a chunk file.
const maxChunkWords = 1000000

// ErrInvalidChunk is returned for binary chunk files with a bad header.
var ErrInvalidChunk = errors.New("invalid chunk file")

// FileFormat identifies how a dictionary file is encoded.
type FileFormat int

const (
	FormatUnknown FileFormat = iota
	FormatText               // one word per line, optional tab separated metadata
	FormatChunk              // binary chunk: count header, then len/word/rank entries
)

func (f FileFormat) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatChunk:
		return "chunk"
	default:
		return "unknown"
	}
}

// DetectFileFormat guesses the format of a file from its extension.
func DetectFileFormat(filename string) FileFormat {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".bin":
		return FormatChunk
	case ".txt", ".words", ".dict", "":
		return FormatText
	default:
		return FormatUnknown
	}
}

// LoadText reads words from r into v, one per line. A tab separates a word
// from its metadata. Blank lines and lines starting with '#' are skipped.
func LoadText(r io.Reader, v *Vocabulary) (int, error) {
	scanner := bufio.NewScanner(r)
	added := 0
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		word, meta, _ := strings.Cut(line, "\t")
		word = strings.TrimSpace(word)
		if v.Add(word, strings.TrimSpace(meta)) {
			added++
		}
	}
	if err := scanner.Err(); err != nil {
		return added, fmt.Errorf("failed to read word list: %w", err)
	}
	return added, nil
}

// LoadChunk reads one binary chunk from r into v. Words are added in file
// order, which is rank order for generated chunks.
func LoadChunk(r io.Reader, v *Vocabulary) (int, error) {
	reader := bufio.NewReader(r)

	var totalEntries int32
	if err := binary.Read(reader, binary.LittleEndian, &totalEntries); err != nil {
		return 0, fmt.Errorf("failed to read chunk header: %w", err)
	}
	if totalEntries < 0 || totalEntries > maxChunkWords {
		return 0, fmt.Errorf("%w: word count %d", ErrInvalidChunk, totalEntries)
	}

	added := 0
	for count := 0; count < int(totalEntries); count++ {
		var wordLen uint16
		if err := binary.Read(reader, binary.LittleEndian, &wordLen); err != nil {
			if err == io.EOF {
				log.Warnf("Chunk ended after %d of %d words", count, totalEntries)
				break
			}
			return added, fmt.Errorf("failed to read word length: %w", err)
		}

		wordBytes := make([]byte, wordLen)
		if _, err := io.ReadFull(reader, wordBytes); err != nil {
			return added, fmt.Errorf("failed to read word: %w", err)
		}

		var rank uint16
		if err := binary.Read(reader, binary.LittleEndian, &rank); err != nil {
			return added, fmt.Errorf("failed to read rank: %w", err)
		}

		if v.Add(string(wordBytes), "") {
			added++
		}
	}
	return added, nil
}

// WriteChunk encodes words as a binary chunk, ranking them by position.
func WriteChunk(w io.Writer, words []string) error {
	writer := bufio.NewWriter(w)
	if err := binary.Write(writer, binary.LittleEndian, int32(len(words))); err != nil {
		return fmt.Errorf("failed to write chunk header: %w", err)
	}
	for i, word := range words {
		if len(word) > 0xFFFF {
			return fmt.Errorf("word %q is too long for a chunk", word[:32])
		}
		if err := binary.Write(writer, binary.LittleEndian, uint16(len(word))); err != nil {
			return fmt.Errorf("failed to write word length: %w", err)
		}
		if _, err := writer.WriteString(word); err != nil {
			return fmt.Errorf("failed to write word %s: %w", word, err)
		}
		rank := uint16(min(i+1, 0xFFFF))
		if err := binary.Write(writer, binary.LittleEndian, rank); err != nil {
			return fmt.Errorf("failed to write rank for word %s: %w", word, err)
		}
	}
	return writer.Flush()
}

// ChunkFiles lists the dict_NNNN.bin files in dir ordered by chunk id.
func ChunkFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "dict_*.bin"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan for chunk files: %w", err)
	}

	type chunk struct {
		id   int
		path string
	}
	var chunks []chunk
	for _, file := range files {
		idStr := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(file), "dict_"), ".bin")
		id, err := strconv.Atoi(idStr)
		if err != nil {
			log.Debugf("Skipping chunk file with bad id: %s", file)
			continue
		}
		chunks = append(chunks, chunk{id: id, path: file})
	}
	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].id < chunks[j].id
	})

	paths := make([]string, len(chunks))
	for i, c := range chunks {
		paths[i] = c.path
	}
	return paths, nil
}

// LoadDir loads every chunk file in dir, lowest id first.
func LoadDir(dir string, v *Vocabulary) (int, error) {
	paths, err := ChunkFiles(dir)
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no chunk files found in %s", dir)
	}

	total := 0
	for _, path := range paths {
		n, err := LoadFile(path, v)
		if err != nil {
			return total, err
		}
		total += n
	}
	log.Debugf("Loaded %d words from %d chunks in %s", total, len(paths), dir)
	return total, nil
}

// LoadFile loads a single text or chunk file.
func LoadFile(path string, v *Vocabulary) (int, error) {
	format := DetectFileFormat(path)
	if format == FormatUnknown {
		return 0, fmt.Errorf("unable to detect format for file %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var n int
	switch format {
	case FormatChunk:
		n, err = LoadChunk(file, v)
	default:
		n, err = LoadText(file, v)
	}
	if err != nil {
		return n, fmt.Errorf("%s: %w", path, err)
	}
	log.Debugf("Loaded %d words from %s (%s)", n, path, format)
	return n, nil
}

// LoadPath loads a directory of chunks or a single file.
func LoadPath(path string, v *Vocabulary) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadDir(path, v)
	}
	return LoadFile(path, v)
}
