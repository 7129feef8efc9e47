// Package store persists user preferences as a single JSON document.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

var ErrEmptyKey = errors.New("empty preference key")

// Store is a file-backed key/value document. Keys are dotted paths into
// nested objects, so "shortcuts.toggle_window" lives under "shortcuts".
type Store struct {
	mu     sync.Mutex
	path   string
	data   map[string]any
	loaded bool
	// last document read from or written to disk
	last []byte
}

// New creates a store backed by path. Nothing is read until first access.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// ensureLoaded reads the document on first access. Caller holds s.mu.
func (s *Store) ensureLoaded() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.data = make(map[string]any)

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("Failed to read preferences, using defaults")
		}
		return
	}

	doc, err := decode(raw)
	if err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Corrupt preferences file, using defaults")
		return
	}
	s.data = doc
	s.last = raw
}

func decode(raw []byte) (map[string]any, error) {
	doc := make(map[string]any)
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	if doc == nil {
		doc = make(map[string]any)
	}
	return doc, nil
}

// Get returns the value at key, or false when absent
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	parts := splitKey(key)
	if len(parts) == 0 {
		return nil, false
	}

	var node any = s.data
	for _, p := range parts {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}
		node, ok = m[p]
		if !ok {
			return nil, false
		}
	}
	return copyValue(node), true
}

// Set stores value at key, creating intermediate objects as needed.
// A scalar sitting on the path is replaced by an object.
func (s *Store) Set(key string, value any) error {
	parts := splitKey(key)
	if len(parts) == 0 {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	m := s.data
	for _, p := range parts[:len(parts)-1] {
		child, ok := m[p].(map[string]any)
		if !ok {
			child = make(map[string]any)
			m[p] = child
		}
		m = child
	}
	m[parts[len(parts)-1]] = value
	return nil
}

// All returns a deep copy of the whole document
func (s *Store) All() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	return copyMap(s.data)
}

// Save flushes the document to disk through a temp file and rename
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create preferences dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".prefs-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace preferences file: %w", err)
	}

	s.last = raw
	return nil
}

// Reload re-reads the document from disk. It reports whether the content
// differs from what this store last read or wrote. A corrupt file keeps the
// in-memory document.
func (s *Store) Reload() (bool, error) {
	// Held across the read so a Save cannot land between read and compare
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read preferences: %w", err)
	}

	if s.loaded && bytes.Equal(raw, s.last) {
		return false, nil
	}

	doc, err := decode(raw)
	if err != nil {
		return false, err
	}

	s.loaded = true
	s.data = doc
	s.last = raw
	return true, nil
}

func splitKey(key string) []string {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if p == "" {
			return nil
		}
	}
	return parts
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
