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

package level

import (
	"encoding/json"
	"fmt"

	"github.com/timburks/fortplan/grid"
)

// An IDSource hands out level numbers. Numbers are never reused.
type IDSource struct {
	last int
}

// NewIDSource returns a source whose first number is 0.
func NewIDSource() *IDSource {
	return &IDSource{last: -1}
}

func (s *IDSource) Next() int {
	s.last++
	return s.last
}

// A Collection is the ordered set of levels that make up a map.
// Levels are addressed by index.
type Collection struct {
	ids    *IDSource
	levels []*Level
}

// NewCollection creates an empty collection numbering levels from ids.
// A nil ids gives the collection a source of its own.
func NewCollection(ids *IDSource) *Collection {
	if ids == nil {
		ids = NewIDSource()
	}
	return &Collection{ids: ids}
}

// AddLevel appends a new empty level and returns it.
func (c *Collection) AddLevel(width, height int) (*Level, error) {
	l, err := NewLevel(c.ids, width, height)
	if err != nil {
		return nil, err
	}
	c.levels = append(c.levels, l)
	return l, nil
}

func (c *Collection) Level(i int) (*Level, error) {
	if i < 0 || i >= len(c.levels) {
		return nil, fmt.Errorf("%w: level %d of %d", grid.ErrOutOfRange, i, len(c.levels))
	}
	return c.levels[i], nil
}

// Index returns the position of l, or -1.
func (c *Collection) Index(l *Level) int {
	for i, candidate := range c.levels {
		if candidate == l {
			return i
		}
	}
	return -1
}

func (c *Collection) Len() int {
	return len(c.levels)
}

func (c *Collection) Levels() []*Level {
	return append([]*Level(nil), c.levels...)
}

// ResizeAll resizes every level. Each level notifies its own size listeners.
func (c *Collection) ResizeAll(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: size %dx%d", grid.ErrOutOfRange, width, height)
	}
	for _, l := range c.levels {
		if err := l.Resize(width, height); err != nil {
			return fmt.Errorf("resize level %d: %w", l.ID(), err)
		}
	}
	return nil
}

// A Snapshot is the raw contents of a collection: levels, then rows, then cells.
type Snapshot [][][]*Cell

// Snapshot copies the contents of every level.
func (c *Collection) Snapshot() Snapshot {
	s := make(Snapshot, 0, len(c.levels))
	for _, l := range c.levels {
		s = append(s, l.Rows())
	}
	return s
}

// Validate checks that every level of s is rectangular.
func (s Snapshot) Validate() error {
	for i, rows := range s {
		if _, err := grid.Shape(rows); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
	}
	return nil
}

// Load replaces every level with fresh levels holding the contents of s.
// The snapshot is validated first; on error the collection is unchanged.
// Former levels are dropped without notifying their listeners, so views
// must be detached before calling Load.
func (c *Collection) Load(s Snapshot) error {
	if err := s.Validate(); err != nil {
		return err
	}
	levels := make([]*Level, 0, len(s))
	for _, rows := range s {
		l, err := NewLevel(c.ids, 0, 0)
		if err != nil {
			return err
		}
		if err := l.Load(rows); err != nil {
			return err
		}
		levels = append(levels, l)
	}
	c.levels = levels
	return nil
}

// EncodeSnapshot writes s as a JSON blob. An empty snapshot encodes as [].
func EncodeSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		s = Snapshot{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot reads a JSON blob written by EncodeSnapshot and validates its shape.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", grid.ErrMalformedSnapshot, err)
	}
	if s == nil {
		s = Snapshot{}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
