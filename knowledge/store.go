package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pdf "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"github.com/camaral/assistant/textutil"
)

// Document is a knowledge file parsed into a title and its body paragraphs.
// Immutable once returned from Load.
type Document struct {
	File       string
	Title      string
	Paragraphs []string
}

// Store enumerates and parses the knowledge directory. Safe for concurrent
// use; every entity it returns is immutable.
type Store struct {
	dir    string
	logger zerolog.Logger

	mu     sync.Mutex
	cached []Document
	// valid is only ever set while a watcher runs; without one, Load always
	// re-reads the directory.
	valid bool
	// gen counts invalidations so a parse that raced with a file event is
	// never cached.
	gen         uint64
	watchActive bool
}

func NewStore(dir string, logger zerolog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the knowledge directory root.
func (s *Store) Dir() string {
	return s.dir
}

// Load parses every knowledge document in the store directory. Without a
// running watcher it re-reads the directory on each call.
func (s *Store) Load(ctx context.Context) ([]Document, error) {
	s.mu.Lock()
	if s.valid {
		docs := s.cached
		s.mu.Unlock()
		return docs, nil
	}
	gen := s.gen
	s.mu.Unlock()

	docs, err := s.readAll(ctx)
	if err != nil {
		return nil, err
	}

	s.cacheIfCurrent(docs, gen)
	return docs, nil
}

// cacheIfCurrent stores a finished parse unless the watcher invalidated the
// store while the parse was running; caching such a parse would serve stale
// documents until the next file event.
func (s *Store) cacheIfCurrent(docs []Document, gen uint64) {
	s.mu.Lock()
	if s.watchActive && s.gen == gen {
		s.cached = docs
		s.valid = true
	}
	s.mu.Unlock()
}

// LoadFile parses a single document by file name within the store directory.
func (s *Store) LoadFile(ctx context.Context, name string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	doc, err := s.parseFile(name)
	if err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (s *Store) readAll(ctx context.Context) ([]Document, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}

	docs := make([]Document, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || DetectFormat(entry.Name()) == FormatUnknown {
			continue
		}

		doc, err := s.parseFile(entry.Name())
		if err != nil {
			// A single broken file never breaks retrieval over the rest.
			s.logger.Warn().Str("file", entry.Name()).Err(err).Msg("skip knowledge document")
			continue
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

func (s *Store) parseFile(name string) (Document, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Document{}, fmt.Errorf("read document: %w", err)
	}

	content := string(data)
	if DetectFormat(name) == FormatPDF {
		content, err = pdfText(data)
		if err != nil {
			return Document{}, fmt.Errorf("extract pdf text: %w", err)
		}
	}

	title := ExtractTitle(content, name)
	body := stripHeadingLines(content)

	return Document{
		File:       name,
		Title:      title,
		Paragraphs: textutil.SplitParagraphs(body),
	}, nil
}

// ExtractTitle returns the first level-1 heading, falling back to the file
// name with separators replaced by spaces.
func ExtractTitle(content, filename string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			if title := strings.TrimSpace(strings.TrimPrefix(trimmed, "# ")); title != "" {
				return title
			}
		}
	}

	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	base = strings.ReplaceAll(base, "_", " ")
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}

func stripHeadingLines(content string) string {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read pdf text: %w", err)
	}

	buf := &bytes.Buffer{}
	if _, err := io.Copy(buf, plain); err != nil {
		return "", fmt.Errorf("copy pdf text: %w", err)
	}

	return buf.String(), nil
}
