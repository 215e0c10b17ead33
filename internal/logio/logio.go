// Package logio reads and writes AEF documents in their on-disk form:
// one JSON object per line, UTF-8, each line independently parseable.
// Reading runs structural validation per line and keeps rejected lines
// out of the entry list, so downstream semantic validation only ever
// sees well-shaped entries.
package logio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/warmautomation/aef/internal/entry"
	"github.com/warmautomation/aef/internal/schema"
)

// maxLineBytes bounds a single log line. Tool results can carry large
// payloads that exceed the default scanner buffer.
const maxLineBytes = 10 * 1024 * 1024

// RejectedLine records a line that failed structural validation, with the
// 1-based line number and the shape issues found.
type RejectedLine struct {
	Line   int            `json:"line"`
	Issues []schema.Issue `json:"issues"`
}

// Document is a fully materialized AEF log: the structurally valid
// entries in document order, plus the lines that were excluded.
type Document struct {
	Entries  []entry.Entry  `json:"entries"`
	Rejected []RejectedLine `json:"rejected,omitempty"`
	Lines    int            `json:"lines"`
}

// Read parses newline-delimited records from r. Blank lines are skipped.
// Only I/O and scanner failures return an error; malformed records land
// in Rejected.
func Read(r io.Reader) (*Document, error) {
	doc := &Document{Entries: []entry.Entry{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		doc.Lines++

		res := schema.ValidateShape(line)
		if !res.Valid() {
			doc.Rejected = append(doc.Rejected, RejectedLine{Line: lineNum, Issues: res.Issues})
			continue
		}
		doc.Entries = append(doc.Entries, *res.Entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return doc, nil
}

// ReadFile reads an AEF log from disk.
func ReadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Writer emits entries one compact JSON object per line.
type Writer struct {
	bw *bufio.Writer
}

// NewWriter wraps w for line-delimited output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{bw: bufio.NewWriter(w)}
}

// Write appends one entry as a single JSON line.
func (w *Writer) Write(e entry.Entry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry %q: %w", e.ID, err)
	}
	if _, err := w.bw.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write entry %q: %w", e.ID, err)
	}
	return nil
}

// Flush flushes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// WriteFile writes a complete entry list to path, replacing any existing
// file.
func WriteFile(path string, entries []entry.Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	defer f.Close()

	w := NewWriter(f)
	for _, e := range entries {
		if err := w.Write(e); err != nil {
			return err
		}
	}
	return w.Flush()
}
