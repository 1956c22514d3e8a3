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

package view

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/schedule"
)

// A Format selects the text written for each cell of a dump.
type Format int

const (
	// SelectionFormat writes C for selected cells and N for the rest.
	SelectionFormat Format = iota
	// CodesFormat writes the brush code of each cell.
	CodesFormat
)

const DefaultOutputDelay = time.Second

func (f Format) String() string {
	switch f {
	case SelectionFormat:
		return "selection"
	case CodesFormat:
		return "codes"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "selection":
		return SelectionFormat, nil
	case "codes":
		return CodesFormat, nil
	}
	return 0, fmt.Errorf("unknown dump format %q", s)
}

// Dump writes l to w, one line per row with cells separated by commas.
func Dump(w io.Writer, l *level.Level, f Format) error {
	var b bytes.Buffer
	for y := 0; y < l.Height(); y++ {
		for x := 0; x < l.Width(); x++ {
			if x > 0 {
				b.WriteByte(',')
			}
			c, err := l.Peek(x, y)
			if err != nil {
				return err
			}
			switch f {
			case CodesFormat:
				info, err := c.Info()
				if err != nil {
					return fmt.Errorf("dump (%d,%d): %w", x, y, err)
				}
				b.WriteString(info.Code)
			default:
				if c != nil && c.Selected {
					b.WriteByte('C')
				} else {
					b.WriteByte('N')
				}
			}
		}
		b.WriteByte('\n')
	}
	_, err := w.Write(b.Bytes())
	return err
}

type OutputOptions struct {
	Format    Format
	Delay     time.Duration
	Scheduler schedule.Scheduler
	Logger    zerolog.Logger
}

// An OutputView keeps a text dump of a level in a "pre" node.
// Cell edits refresh the text after a quiet period; size changes refresh it at once.
type OutputView struct {
	level    *level.Level
	format   Format
	root     *Node
	listener *level.Listener
	attached bool
	trigger  *schedule.Trigger
	logger   zerolog.Logger
}

func NewOutputView(l *level.Level, opts OutputOptions) *OutputView {
	if opts.Delay <= 0 {
		opts.Delay = DefaultOutputDelay
	}
	v := &OutputView{
		level:  l,
		format: opts.Format,
		root:   NewNode("pre"),
		logger: opts.Logger.With().Str("view", "output").Int("level", l.ID()).Logger(),
	}
	if opts.Scheduler != nil {
		v.trigger = schedule.NewTrigger(opts.Scheduler, opts.Delay, v.deferred)
	}
	v.listener = &level.Listener{
		Cells: v.cellChanged,
		Size:  v.Render,
	}
	return v
}

func (v *OutputView) Root() *Node {
	return v.root
}

func (v *OutputView) Text() string {
	return v.root.Text
}

func (v *OutputView) Attach(parent *Node) error {
	if v.attached {
		return ErrAttached
	}
	err := v.Render()
	parent.AppendChild(v.root)
	v.level.Listen(v.listener)
	v.attached = true
	return err
}

func (v *OutputView) Detach() error {
	if !v.attached {
		return ErrNotAttached
	}
	v.level.Unlisten(v.listener)
	if v.trigger != nil {
		v.trigger.Cancel()
	}
	v.root.Remove()
	v.attached = false
	return nil
}

func (v *OutputView) Render() error {
	if v.trigger != nil {
		v.trigger.Cancel()
	}
	var b strings.Builder
	if err := Dump(&b, v.level, v.format); err != nil {
		return err
	}
	v.root.Text = b.String()
	return nil
}

func (v *OutputView) cellChanged(x, y int, c *level.Cell) error {
	if v.trigger == nil {
		return v.Render()
	}
	v.trigger.Trigger()
	return nil
}

func (v *OutputView) deferred() {
	if err := v.Render(); err != nil {
		v.logger.Error().Err(err).Msg("deferred render")
	}
}
