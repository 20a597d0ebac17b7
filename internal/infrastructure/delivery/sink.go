// Package delivery hands finished export documents to their destination.
// The API and the export CLI write to a directory on disk; the CLI's
// --stdout mode collects the document in memory and prints it.
package delivery

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Document is a serialized report ready for delivery.
type Document struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Receipt describes a delivered document.
type Receipt struct {
	Location string
	Size     int
	Checksum string // hex BLAKE2b-256 of the content
}

// Checksum returns the hex BLAKE2b-256 digest of content.
func Checksum(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("delivery: invalid file name %q", name)
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// FILE SINK
// ══════════════════════════════════════════════════════════════════════════════

// FileSink writes documents into Dir. Writes are atomic: content goes to a
// temporary file that is renamed into place, so a failed delivery never
// leaves a partial file behind.
type FileSink struct {
	Dir string
}

// NewFileSink creates a sink writing into dir.
func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Deliver writes doc to Dir/doc.FileName, replacing any existing file.
func (s *FileSink) Deliver(ctx context.Context, doc Document) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if err := validName(doc.FileName); err != nil {
		return Receipt{}, err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return Receipt{}, fmt.Errorf("delivery: create directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, "."+doc.FileName+"-*.tmp")
	if err != nil {
		return Receipt{}, fmt.Errorf("delivery: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) (Receipt, error) {
		tmp.Close()
		os.Remove(tmpName)
		return Receipt{}, cause
	}

	if _, err := tmp.Write(doc.Content); err != nil {
		return cleanup(fmt.Errorf("delivery: write: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(fmt.Errorf("delivery: sync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Receipt{}, fmt.Errorf("delivery: close: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return Receipt{}, fmt.Errorf("delivery: chmod: %w", err)
	}

	target := filepath.Join(s.Dir, doc.FileName)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return Receipt{}, fmt.Errorf("delivery: rename: %w", err)
	}

	return Receipt{Location: target, Size: len(doc.Content), Checksum: Checksum(doc.Content)}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// MEMORY SINK
// ══════════════════════════════════════════════════════════════════════════════

// ErrNotDelivered is returned by MemorySink.Get for unknown names.
var ErrNotDelivered = errors.New("delivery: document not found")

// MemorySink keeps delivered documents in memory, keyed by file name.
type MemorySink struct {
	mu   sync.RWMutex
	docs map[string]Document
	last string
}

// NewMemorySink creates an empty in-memory sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{docs: make(map[string]Document)}
}

// Deliver stores a copy of doc.
func (s *MemorySink) Deliver(ctx context.Context, doc Document) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	if err := validName(doc.FileName); err != nil {
		return Receipt{}, err
	}
	stored := doc
	stored.Content = append([]byte(nil), doc.Content...)

	s.mu.Lock()
	s.docs[doc.FileName] = stored
	s.last = doc.FileName
	s.mu.Unlock()

	return Receipt{Location: "memory://" + doc.FileName, Size: len(doc.Content), Checksum: Checksum(doc.Content)}, nil
}

// Get returns a copy of a delivered document.
func (s *MemorySink) Get(name string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return Document{}, ErrNotDelivered
	}
	doc.Content = append([]byte(nil), doc.Content...)
	return doc, nil
}

// Last returns the most recently delivered document.
func (s *MemorySink) Last() (Document, error) {
	s.mu.RLock()
	name := s.last
	s.mu.RUnlock()
	return s.Get(name)
}

// Len reports how many distinct documents are held.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}
