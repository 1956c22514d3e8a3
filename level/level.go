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
	"errors"
	"fmt"
	"slices"

	"github.com/timburks/fortplan/grid"
)

// EventKind selects which change notifications a listener receives.
type EventKind int

const (
	CellChanged EventKind = iota
	RegionChanged
	SizeChanged
	eventKinds
)

func (k EventKind) String() string {
	switch k {
	case CellChanged:
		return "cell-changed"
	case RegionChanged:
		return "region-changed"
	case SizeChanged:
		return "size-changed"
	default:
		return fmt.Sprintf("event-kind(%d)", int(k))
	}
}

// A Listener groups the callbacks of one observer. Nil callbacks are skipped.
// Listeners are compared by pointer when unsubscribing.
type Listener struct {
	Cells   func(x, y int, c *Cell) error
	Regions func(r grid.Region, p Patch) error
	Size    func() error
}

func (l *Listener) handles(kind EventKind) bool {
	switch kind {
	case CellChanged:
		return l.Cells != nil
	case RegionChanged:
		return l.Regions != nil
	case SizeChanged:
		return l.Size != nil
	}
	return false
}

// A Level is one rectangular map layer. Each coordinate owns one Cell,
// created the first time it is read or updated.
type Level struct {
	id        int
	cells     *grid.Grid[*Cell]
	listeners [eventKinds][]*Listener
}

// NewLevel creates an empty width x height level numbered by ids.
func NewLevel(ids *IDSource, width, height int) (*Level, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: size %dx%d", grid.ErrOutOfRange, width, height)
	}
	return &Level{
		id:    ids.Next(),
		cells: grid.New[*Cell](width, height),
	}, nil
}

func (l *Level) ID() int {
	return l.id
}

func (l *Level) Width() int {
	return l.cells.Width()
}

func (l *Level) Height() int {
	return l.cells.Height()
}

// Get returns the cell at (x,y), creating it on first access.
func (l *Level) Get(x, y int) (*Cell, error) {
	c, err := l.cells.Get(x, y)
	if err != nil {
		return nil, err
	}
	if c == nil {
		c = &Cell{}
		l.cells.Set(x, y, c)
	}
	return c, nil
}

// Peek returns the cell at (x,y) without creating it. Unset cells are nil.
func (l *Level) Peek(x, y int) (*Cell, error) {
	return l.cells.Get(x, y)
}

// Update merges patch into the cell at (x,y) and notifies cell listeners.
func (l *Level) Update(x, y int, patch Patch) error {
	c, err := l.Get(x, y)
	if err != nil {
		return err
	}
	patch.Apply(c)
	return l.dispatch(CellChanged, func(s *Listener) error {
		return s.Cells(x, y, c)
	})
}

// UpdateRegion applies Update to every cell of r, then notifies region listeners once.
// A region reaching outside the level fails before any cell changes.
func (l *Level) UpdateRegion(r grid.Region, patch Patch) error {
	if !r.Within(l.Width(), l.Height()) {
		b := r.Bounds()
		return fmt.Errorf("%w: region (%d,%d)-(%d,%d) outside %dx%d",
			grid.ErrOutOfRange, b.X1, b.Y1, b.X2, b.Y2, l.Width(), l.Height())
	}
	var errs []error
	r.ForEach(func(x, y int) {
		if err := l.Update(x, y, patch); err != nil {
			errs = append(errs, err)
		}
	})
	errs = append(errs, l.dispatch(RegionChanged, func(s *Listener) error {
		return s.Regions(r, patch)
	}))
	return errors.Join(errs...)
}

// Resize changes the level dimensions and notifies size listeners.
func (l *Level) Resize(width, height int) error {
	if err := l.cells.Resize(width, height); err != nil {
		return err
	}
	return l.dispatch(SizeChanged, func(s *Listener) error {
		return s.Size()
	})
}

// Subscribe adds s to the listeners for kind. Adding the same listener twice
// delivers events to it twice.
func (l *Level) Subscribe(kind EventKind, s *Listener) {
	if kind < 0 || kind >= eventKinds || s == nil || !s.handles(kind) {
		return
	}
	l.listeners[kind] = append(l.listeners[kind], s)
}

// Unsubscribe removes one registration of s for kind. Unknown listeners are ignored.
func (l *Level) Unsubscribe(kind EventKind, s *Listener) {
	if kind < 0 || kind >= eventKinds {
		return
	}
	if i := slices.Index(l.listeners[kind], s); i >= 0 {
		l.listeners[kind] = slices.Delete(l.listeners[kind], i, i+1)
	}
}

// Listen subscribes s to every kind it has a callback for.
func (l *Level) Listen(s *Listener) {
	for kind := EventKind(0); kind < eventKinds; kind++ {
		l.Subscribe(kind, s)
	}
}

// Unlisten reverses Listen.
func (l *Level) Unlisten(s *Listener) {
	for kind := EventKind(0); kind < eventKinds; kind++ {
		l.Unsubscribe(kind, s)
	}
}

// Listeners returns the number of registrations for kind.
func (l *Level) Listeners(kind EventKind) int {
	if kind < 0 || kind >= eventKinds {
		return 0
	}
	return len(l.listeners[kind])
}

// dispatch calls every listener registered when the event fired, even if
// callbacks subscribe or unsubscribe along the way.
func (l *Level) dispatch(kind EventKind, call func(s *Listener) error) error {
	var errs []error
	for _, s := range slices.Clone(l.listeners[kind]) {
		if err := call(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Rows returns a copy of the level contents. Unset cells are nil.
func (l *Level) Rows() [][]*Cell {
	rows := l.cells.Rows()
	for _, row := range rows {
		for x, c := range row {
			row[x] = c.Clone()
		}
	}
	return rows
}

// Load replaces the level contents. Listeners are not notified.
func (l *Level) Load(rows [][]*Cell) error {
	loaded := make([][]*Cell, len(rows))
	for y, row := range rows {
		loaded[y] = make([]*Cell, len(row))
		for x, c := range row {
			loaded[y][x] = c.Clone()
		}
	}
	return l.cells.Load(loaded)
}
