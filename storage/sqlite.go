package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"human-input/geom"
	"human-input/logger"
)

const cursorSchema = `
CREATE TABLE IF NOT EXISTS cursor_state (
	key        TEXT PRIMARY KEY,
	x          REAL NOT NULL,
	y          REAL NOT NULL,
	updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps the cursor as a keyed row in an SQLite database
type SQLiteStore struct {
	mu      sync.Mutex
	db      *sql.DB
	Default geom.Point
	log     logger.Logger
}

// NewSQLiteStore opens (or creates) the database at path with WAL pragmas
func NewSQLiteStore(path string, def geom.Point, log logger.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("storage: sqlite store needs a database path")
	}
	if log == nil {
		log = logger.Nop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: mkdir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage: open: %w", err)
	}
	// One connection: ":memory:" is per-connection and writes stay ordered
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 10000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: %s: %w", p, err)
		}
	}
	if _, err := db.Exec(cursorSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: exec schema: %w", err)
	}

	return &SQLiteStore{db: db, Default: def, log: log}, nil
}

// Read returns the committed position, inserting the default row when absent
// or unusable.
func (s *SQLiteStore) Read() (geom.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p geom.Point
	err := s.db.QueryRow(`SELECT x, y FROM cursor_state WHERE key = ?`, cursorKey).Scan(&p.X, &p.Y)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.log.Warn("Cursor state empty, populating with default position", "x", s.Default.X, "y", s.Default.Y)
	case err != nil:
		// A row we cannot decode is treated like a missing one
		s.log.Warn("Cursor record is corrupted, resetting to default", "error", err)
	case math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0):
		s.log.Warn("Cursor record is corrupted, resetting to default", "x", p.X, "y", p.Y)
	default:
		return p, nil
	}

	if err := s.upsert(s.Default); err != nil {
		return geom.Point{}, err
	}
	return s.Default, nil
}

// Write commits p
func (s *SQLiteStore) Write(p geom.Point) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upsert(p)
}

func (s *SQLiteStore) upsert(p geom.Point) error {
	_, err := s.db.Exec(`
		INSERT INTO cursor_state (key, x, y, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET x = excluded.x, y = excluded.y, updated_at = excluded.updated_at`,
		cursorKey, p.X, p.Y, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("storage: write cursor: %w", err)
	}
	return nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
