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

// Package store keeps saved maps under string keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when nothing was saved under a key.
	ErrNotFound = errors.New("save not found")
	// ErrInvalidKey is returned for keys that cannot name a save slot.
	ErrInvalidKey = errors.New("invalid key")
)

// A Store holds the latest blob saved under each key.
type Store interface {
	// Save stores data under key and returns an id for this revision.
	Save(ctx context.Context, key string, data []byte) (string, error)
	// Load returns the latest data saved under key.
	Load(ctx context.Context, key string) ([]byte, error)
	Close() error
}

// Backend kinds accepted by Open.
const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Open returns the store of the given kind. path is a directory for file
// stores and a database for sqlite stores.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(kind) {
	case KindMemory, "":
		return NewMemory(), nil
	case KindFile:
		return NewFile(path)
	case KindSQLite:
		return OpenSQLite(path)
	}
	return nil, fmt.Errorf("unknown store kind %q", kind)
}

func checkKey(key string) error {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

type entry struct {
	id   string
	data []byte
}

// Memory is a Store that lives as long as the process.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) Save(ctx context.Context, key string, data []byte) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{id: id, data: append([]byte(nil), data...)}
	return id, nil
}

func (m *Memory) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	return append([]byte(nil), e.data...), nil
}

func (m *Memory) Close() error {
	return nil
}
