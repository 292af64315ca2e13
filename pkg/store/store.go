// Package store caches computed node positions in a local sqlite database
// so reopening the same document does not rerun the layout from scratch.
// Entries are keyed by the document signature; a changed document misses
// the cache and lays out fresh.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yrangana/sigview/pkg/graph"
)

const schema = `
CREATE TABLE IF NOT EXISTS layout_positions (
	sig        TEXT NOT NULL,
	node_id    TEXT NOT NULL,
	x          REAL NOT NULL,
	y          REAL NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (sig, node_id)
);
`

// Store is a layout-position cache backed by sqlite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening layout cache: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing layout cache: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database.
func (s *Store) Close() error { return s.db.Close() }

// SavePositions replaces the cached positions for a signature.
func (s *Store) SavePositions(sig string, positions map[string][2]float64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting cache write: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM layout_positions WHERE sig = ?`, sig); err != nil {
		return fmt.Errorf("clearing cache entry: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO layout_positions (sig, node_id, x, y, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing cache insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	for id, p := range positions {
		if _, err := stmt.Exec(sig, id, p[0], p[1], now); err != nil {
			return fmt.Errorf("writing cache entry for %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadPositions returns the cached positions for a signature. A miss is
// not an error; the map is simply empty.
func (s *Store) LoadPositions(sig string) (map[string][2]float64, error) {
	rows, err := s.db.Query(`SELECT node_id, x, y FROM layout_positions WHERE sig = ?`, sig)
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}
	defer rows.Close()

	out := map[string][2]float64{}
	for rows.Next() {
		var id string
		var x, y float64
		if err := rows.Scan(&id, &x, &y); err != nil {
			return nil, fmt.Errorf("scanning cache row: %w", err)
		}
		out[id] = [2]float64{x, y}
	}
	return out, rows.Err()
}

// SaveLayout caches the model's current positions under its signature.
func (s *Store) SaveLayout(m *graph.Model) error {
	positions := make(map[string][2]float64, m.NodeCount())
	for _, id := range m.Order() {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		positions[id] = [2]float64{attrs.X, attrs.Y}
	}
	return s.SavePositions(m.Signature().String(), positions)
}

// ApplyLayout restores cached positions onto the model. It reports whether
// a usable cache entry was found; nodes missing from the entry keep their
// current positions.
func (s *Store) ApplyLayout(m *graph.Model) (bool, error) {
	positions, err := s.LoadPositions(m.Signature().String())
	if err != nil {
		return false, err
	}
	if len(positions) == 0 {
		return false, nil
	}
	for id, p := range positions {
		attrs, ok := m.NodeAttrs(id)
		if !ok {
			continue
		}
		attrs.X = p[0]
		attrs.Y = p[1]
	}
	return true, nil
}
