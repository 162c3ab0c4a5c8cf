// Package pkg provides supporting utilities for covmeld.
package pkg

import (
	"encoding/gob"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Spill buffers items of type T in a gob-encoded temp file so that artifact
// sets larger than memory can be accumulated during the parse phase and
// replayed once during the merge phase.
type Spill[T any] interface {
	Len() uint64
	Path() string
	Append(item T) error
	Range(f func(index uint64, item T) error) error
	Close() error
}

type spillImpl[T any] struct {
	path    string
	file    *os.File
	encoder *gob.Encoder
	mu      sync.Mutex
	length  uint64
}

// Append implements Spill. It is safe for concurrent use.
func (s *spillImpl[T]) Append(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.encoder.Encode(item); err != nil {
		slog.Error("failed to encode record", "path", s.path, "index", s.length, "error", err)
		return fmt.Errorf("failed to encode record: %w", err)
	}

	s.length++

	return nil
}

// Path implements Spill.
func (s *spillImpl[T]) Path() string {
	return s.path
}

// Len implements Spill.
func (s *spillImpl[T]) Len() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.length
}

// Range implements Spill. It replays the items in append order.
func (s *spillImpl[T]) Range(fn func(index uint64, item T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		slog.Error("failed to open spill for range", "path", s.path, "error", err)
		return fmt.Errorf("failed to open spill: %w", err)
	}

	defer func() {
		if err := file.Close(); err != nil {
			slog.Error("failed to close spill", "path", s.path, "error", err)
		}
	}()

	decoder := gob.NewDecoder(file)

	for i := uint64(0); i < s.length; i++ {
		// Decode into a fresh value each iteration: gob merges into
		// pre-existing maps, which would cross-contaminate records.
		var item T
		if err := decoder.Decode(&item); err != nil {
			slog.Error("failed to decode record", "path", s.path, "index", i, "error", err)
			return fmt.Errorf("failed to decode record at index %d: %w", i, err)
		}

		if err := fn(i, item); err != nil {
			return err
		}
	}

	return nil
}

// Close implements Spill. The backing temp file is removed.
func (s *spillImpl[T]) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		if err := s.file.Close(); err != nil {
			slog.Error("failed to close spill", "path", s.path, "error", err)
			return err
		}

		s.file = nil
	}

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// NewSpill creates a Spill backed by a fresh temp file.
func NewSpill[T any]() (Spill[T], error) {
	file, err := os.CreateTemp("", "covmeld-spill-*.gob")
	if err != nil {
		slog.Error("failed to create spill file", "error", err)
		return nil, fmt.Errorf("failed to create spill file: %w", err)
	}

	slog.Debug("created spill", "path", file.Name())

	return &spillImpl[T]{
		path:    file.Name(),
		file:    file,
		encoder: gob.NewEncoder(file),
	}, nil
}
