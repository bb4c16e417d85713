package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"human-input/config"
	"human-input/geom"
	"human-input/logger"
)

// cursorKey is the record name inside keyed stores
const cursorKey = "mouse_location"

// CursorStore is the single owner of the persisted cursor position.
// Read returns the last committed point; Write must be durable before it returns.
type CursorStore interface {
	Read() (geom.Point, error)
	Write(p geom.Point) error
}

// Store is a CursorStore that holds resources
type Store interface {
	CursorStore
	io.Closer
}

// Open selects the backend named in cfg
func Open(cfg config.StateConfig, def geom.Point, log logger.Logger) (Store, error) {
	switch cfg.Backend {
	case "json", "":
		return NewJSONStore(cfg.Path, def, log)
	case "sqlite":
		return NewSQLiteStore(cfg.Path, def, log)
	case "memory":
		return NewMemoryStore(def), nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}

// JSONStore keeps the cursor in a small keyed JSON document. Other keys in
// the same file are left untouched.
type JSONStore struct {
	mu      sync.Mutex
	File    string
	Default geom.Point
	log     logger.Logger
	data    map[string]json.RawMessage
	cursor  *geom.Point
}

// NewJSONStore creates a new store backed by a JSON file.
// An absent or corrupt file is not an error; the default position is used.
func NewJSONStore(path string, def geom.Point, log logger.Logger) (*JSONStore, error) {
	if path == "" {
		return nil, errors.New("storage: json store needs a file path")
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &JSONStore{
		File:    path,
		Default: def,
		log:     log,
	}

	data, err := s.load()
	if err != nil {
		return nil, err
	}
	s.data = data

	if raw, ok := s.data[cursorKey]; ok {
		var p geom.Point
		if err := json.Unmarshal(raw, &p); err != nil || !p.Finite() {
			log.Warn("Cursor record is corrupted, resetting to default", "path", path, "error", err)
			delete(s.data, cursorKey)
		} else {
			s.cursor = &p
		}
	}

	return s, nil
}

// Read returns the committed position, persisting the default on first access
func (s *JSONStore) Read() (geom.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cursor != nil {
		return *s.cursor, nil
	}

	s.log.Warn("Cursor state empty, populating with default position", "x", s.Default.X, "y", s.Default.Y)
	if err := s.setLocked(s.Default); err != nil {
		return geom.Point{}, err
	}
	return s.Default, nil
}

// Write commits p and rewrites the file before returning
func (s *JSONStore) Write(p geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(p)
}

// load reads the keyed document. A missing or undecodable file yields an
// empty document; only I/O errors are returned.
func (s *JSONStore) load() (map[string]json.RawMessage, error) {
	data := make(map[string]json.RawMessage)

	content, err := os.ReadFile(s.File)
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.log.Warn("Cursor state file doesn't exist, it will be created", "path", s.File)
	case err != nil:
		return nil, fmt.Errorf("storage: read %s: %w", s.File, err)
	default:
		if err := json.Unmarshal(content, &data); err != nil || data == nil {
			s.log.Warn("Cursor state file is corrupted, resetting data", "path", s.File, "error", err)
			data = make(map[string]json.RawMessage)
		}
	}
	return data, nil
}

// setLocked merges p into the document as it is on disk now, so keys other
// writers added since open survive.
func (s *JSONStore) setLocked(p geom.Point) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	data, err := s.load()
	if err != nil {
		return err
	}
	s.data = data
	s.data[cursorKey] = raw
	if err := s.persist(); err != nil {
		return err
	}
	s.cursor = &p
	return nil
}

func (s *JSONStore) persist() error {
	data, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.File)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}

	// Write-then-rename so a crash never leaves a half-written record
	tmp, err := os.CreateTemp(dir, filepath.Base(s.File)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.File); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("storage: rename into %s: %w", s.File, err)
	}
	return nil
}

// Close is a no-op; every Write is already on disk
func (s *JSONStore) Close() error {
	return nil
}

// MemoryStore keeps the position in process memory only
type MemoryStore struct {
	mu     sync.RWMutex
	cursor geom.Point
}

// NewMemoryStore starts at def
func NewMemoryStore(def geom.Point) *MemoryStore {
	return &MemoryStore{cursor: def}
}

func (s *MemoryStore) Read() (geom.Point, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cursor, nil
}

func (s *MemoryStore) Write(p geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = p
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
