//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

var schema = []string{`
	CREATE TABLE IF NOT EXISTS saves (
		id            TEXT PRIMARY KEY,
		key           TEXT NOT NULL,
		data          BLOB NOT NULL,
		created_at_ns INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS saves_key ON saves (key, created_at_ns)`,
}

// A Revision describes one save of a key.
type Revision struct {
	ID          string
	Key         string
	Size        int
	CreatedAtNs int64
}

// SQLite is a Store that keeps every revision in a sqlite database.
// Load returns the most recent one.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path. ":memory:" gives a
// private in-memory database.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// an in-memory database exists per connection
	db.SetMaxOpenConns(1)
	s, err := NewSQLite(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLite uses db, creating the saves table if it is missing.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("create saves table: %w", err)
		}
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO saves (id, key, data, created_at_ns) VALUES (?, ?, ?, ?)`,
		id, key, data, time.Now().UnixNano(),
	)
	if err != nil {
		return "", fmt.Errorf("insert save: %w", err)
	}
	return id, nil
}

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM saves
		WHERE key = ?
		ORDER BY created_at_ns DESC, rowid DESC
		LIMIT 1
	`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("get save: %w", err)
	}
	return data, nil
}

// Revisions lists the saves of key, newest first.
func (s *SQLite) Revisions(ctx context.Context, key string) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, key, length(data), created_at_ns FROM saves
		WHERE key = ?
		ORDER BY created_at_ns DESC, rowid DESC
	`, key)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()

	var revisions []Revision
	for rows.Next() {
		var r Revision
		if err := rows.Scan(&r.ID, &r.Key, &r.Size, &r.CreatedAtNs); err != nil {
			return nil, fmt.Errorf("scan save: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
