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

package commander

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/timburks/fortplan/editor"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/operations"
	fortplan "github.com/timburks/fortplan/types"
	"github.com/timburks/fortplan/view"
)

// The Commander converts user input into commands for the Editor.
type Commander struct {
	editor     *editor.Editor
	logger     zerolog.Logger
	mode       int    // editor mode
	debug      bool   // debug mode displays information about events (key codes, etc)
	command    string // command as it is being typed on the command line
	lispText   string // lisp command as it is being typed
	message    string // status message
	multiplier string // multiplier string as it is being entered
}

func NewCommander(e *editor.Editor, logger zerolog.Logger) *Commander {
	return &Commander{editor: e, logger: logger, mode: fortplan.ModeEdit}
}

func (c *Commander) GetMode() int {
	return c.mode
}

func (c *Commander) SetMode(m int) {
	c.mode = m
}

func (c *Commander) IsRunning() bool {
	return c.mode != fortplan.ModeQuit
}

func (c *Commander) ProcessEvent(event *fortplan.Event) error {
	if c.debug {
		c.message = fmt.Sprintf("event=%+v", event)
	}
	switch event.Type {
	case fortplan.EventKey:
		return c.ProcessKey(event)
	default:
		return nil
	}
}

// report shows err in the message bar and returns it for logging.
func (c *Commander) report(err error) error {
	if err != nil {
		c.message = err.Error()
	}
	return err
}

func (c *Commander) ProcessKeyEditMode(event *fortplan.Event) error {
	e := c.editor

	key := event.Key
	ch := event.Ch
	if key != 0 {
		switch key {
		case fortplan.KeyEsc:
			c.multiplier = ""
			return c.report(e.CancelSelection())
		case fortplan.KeyArrowUp:
			return c.report(e.MoveCursor(fortplan.MoveUp, c.Multiplier()))
		case fortplan.KeyArrowDown:
			return c.report(e.MoveCursor(fortplan.MoveDown, c.Multiplier()))
		case fortplan.KeyArrowLeft:
			return c.report(e.MoveCursor(fortplan.MoveLeft, c.Multiplier()))
		case fortplan.KeyArrowRight:
			return c.report(e.MoveCursor(fortplan.MoveRight, c.Multiplier()))
		case fortplan.KeySpace:
			return c.report(e.Perform(&operations.PlaceBrush{}, c.Multiplier()))
		case fortplan.KeyCtrlS:
			return c.save("")
		}
	}
	if ch != 0 {
		switch ch {
		//
		// command multipliers are saved when operations are created
		//
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			c.multiplier += string(ch)
		//
		// commands go to the message bar
		//
		case ':':
			c.mode = fortplan.ModeCommand
			c.command = ""
		//
		// lisp commands go to the message bar
		//
		case '(':
			c.mode = fortplan.ModeLisp
			c.lispText = "("
		//
		// cursor movement isn't logged
		//
		case 'h':
			return c.report(e.MoveCursor(fortplan.MoveLeft, c.Multiplier()))
		case 'j':
			return c.report(e.MoveCursor(fortplan.MoveDown, c.Multiplier()))
		case 'k':
			return c.report(e.MoveCursor(fortplan.MoveUp, c.Multiplier()))
		case 'l':
			return c.report(e.MoveCursor(fortplan.MoveRight, c.Multiplier()))
		case 'v':
			return c.report(e.ToggleSelection())
		case 'b':
			c.message = "brush: " + string(e.CycleBrush())
		case 'n':
			return c.selectLevel(e.ActiveIndex() + 1)
		case 'p':
			return c.selectLevel(e.ActiveIndex() - 1)
		//
		// "performed" operations are saved for repetition
		//
		case ' ':
			return c.report(e.Perform(&operations.PlaceBrush{}, c.Multiplier()))
		case 'x':
			return c.report(e.Perform(&operations.PaintCell{}, c.Multiplier()))
		case 'u':
			return c.report(e.Perform(&operations.Deselect{}, c.Multiplier()))
		//
		// repeat
		//
		case '.':
			return c.report(e.Repeat())
		}
	}
	return nil
}

func (c *Commander) selectLevel(i int) error {
	if i < 0 || i >= c.editor.LevelCount() {
		return nil
	}
	if err := c.editor.SelectLevel(i); err != nil {
		return c.report(err)
	}
	c.message = fmt.Sprintf("level %d", i)
	return nil
}

func (c *Commander) ProcessKeyCommandMode(event *fortplan.Event) error {
	key := event.Key
	ch := event.Ch
	if key != 0 {
		switch key {
		case fortplan.KeyEsc:
			c.mode = fortplan.ModeEdit
		case fortplan.KeyEnter:
			return c.PerformCommand()
		case fortplan.KeyBackspace2:
			if len(c.command) > 0 {
				c.command = c.command[0 : len(c.command)-1]
			}
		case fortplan.KeySpace:
			c.command += " "
		}
	}
	if ch != 0 {
		c.command = c.command + string(ch)
	}
	return nil
}

func (c *Commander) ProcessKeyLispMode(event *fortplan.Event) error {
	key := event.Key
	ch := event.Ch
	if key != 0 {
		switch key {
		case fortplan.KeyEsc:
			c.mode = fortplan.ModeEdit
		case fortplan.KeyEnter:
			c.mode = fortplan.ModeEdit
			result, err := c.ParseEval(c.lispText)
			if err != nil {
				return c.report(err)
			}
			c.message = result
		case fortplan.KeyBackspace2:
			if len(c.lispText) > 0 {
				c.lispText = c.lispText[0 : len(c.lispText)-1]
			}
		case fortplan.KeySpace:
			c.lispText += " "
		}
	}
	if ch != 0 {
		c.lispText = c.lispText + string(ch)
	}
	return nil
}

func (c *Commander) ProcessKey(event *fortplan.Event) error {
	var err error
	switch c.mode {
	case fortplan.ModeEdit:
		err = c.ProcessKeyEditMode(event)
	case fortplan.ModeCommand:
		err = c.ProcessKeyCommandMode(event)
	case fortplan.ModeLisp:
		err = c.ProcessKeyLispMode(event)
	}
	return err
}

func (c *Commander) save(key string) error {
	var id string
	var err error
	if key == "" {
		id, err = c.editor.Save(context.Background())
	} else {
		id, err = c.editor.SaveAs(context.Background(), key)
	}
	if err != nil {
		return c.report(err)
	}
	c.message = "saved " + id
	return nil
}

func (c *Commander) load(key string) error {
	var err error
	if key == "" {
		err = c.editor.Load(context.Background())
	} else {
		err = c.editor.LoadFrom(context.Background(), key)
	}
	if err != nil {
		return c.report(err)
	}
	c.message = fmt.Sprintf("loaded %d levels", c.editor.LevelCount())
	return nil
}

// PerformCommand runs the command line and returns to edit mode.
func (c *Commander) PerformCommand() error {
	defer func() {
		c.command = ""
		if c.mode == fortplan.ModeCommand {
			c.mode = fortplan.ModeEdit
		}
	}()
	return c.Execute(c.command)
}

// Execute runs one command line such as "size 40 20".
func (c *Commander) Execute(command string) error {
	e := c.editor

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil
	}
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}
	c.logger.Debug().Str("command", command).Msg("command")

	if row, err := strconv.Atoi(parts[0]); err == nil {
		e.SetCursor(fortplan.Point{X: 0, Y: row - 1})
		return nil
	}
	switch parts[0] {
	case "q":
		c.mode = fortplan.ModeQuit
	case "w":
		return c.save(arg(1))
	case "wq":
		if err := c.save(arg(1)); err != nil {
			return err
		}
		c.mode = fortplan.ModeQuit
	case "e", "load":
		return c.load(arg(1))
	case "size":
		w, errW := strconv.Atoi(arg(1))
		h, errH := strconv.Atoi(arg(2))
		if errW != nil || errH != nil {
			return c.report(fmt.Errorf("usage: size WIDTH HEIGHT"))
		}
		if err := e.SetSize(w, h); err != nil {
			return c.report(err)
		}
		c.message = fmt.Sprintf("size %dx%d", w, h)
	case "add":
		i, err := e.AddLevel()
		if err != nil {
			return c.report(err)
		}
		c.message = fmt.Sprintf("added level %d", i)
	case "level":
		i, err := strconv.Atoi(arg(1))
		if err != nil {
			return c.report(fmt.Errorf("usage: level N"))
		}
		if err := e.SelectLevel(i); err != nil {
			return c.report(err)
		}
		c.message = fmt.Sprintf("level %d", i)
	case "brush":
		b, err := level.ParseBrush(arg(1))
		if err != nil {
			return c.report(err)
		}
		if err := e.SetBrush(b); err != nil {
			return c.report(err)
		}
		c.message = "brush: " + string(b)
	case "png":
		return c.writeFile(arg(1), func(f *os.File) error {
			return e.RenderPNG(e.ActiveIndex(), f)
		})
	case "dump":
		format, err := view.ParseFormat(arg(2))
		if err != nil {
			return c.report(err)
		}
		return c.writeFile(arg(1), func(f *os.File) error {
			return e.Dump(e.ActiveIndex(), format, f)
		})
	case "stats":
		samples, err := e.Metrics().Samples()
		if err != nil {
			return c.report(err)
		}
		var fields []string
		for _, s := range samples {
			if s.Value > 0 {
				fields = append(fields, fmt.Sprintf("%s=%g", strings.TrimPrefix(s.Name, "fortplan_"), s.Value))
			}
		}
		c.message = strings.Join(fields, " ")
	case "debug":
		switch arg(1) {
		case "on":
			c.debug = true
		case "off":
			c.debug = false
			c.message = ""
		}
	case "source":
		if err := c.ParseEvalFile(arg(1)); err != nil {
			return c.report(err)
		}
	default:
		return c.report(fmt.Errorf("unknown command %q", parts[0]))
	}
	return nil
}

func (c *Commander) writeFile(path string, write func(f *os.File) error) error {
	if path == "" {
		return c.report(fmt.Errorf("no file name"))
	}
	f, err := os.Create(path)
	if err != nil {
		return c.report(err)
	}
	if err := write(f); err != nil {
		f.Close()
		return c.report(err)
	}
	if err := f.Close(); err != nil {
		return c.report(err)
	}
	c.message = "wrote " + path
	return nil
}

func (c *Commander) Multiplier() int {
	if c.multiplier == "" {
		return 1
	}
	i, err := strconv.ParseInt(c.multiplier, 10, 64)
	if err != nil {
		c.multiplier = ""
		return 1
	}
	c.multiplier = ""
	return int(i)
}

func (c *Commander) GetLispText() string {
	return c.lispText
}

func (c *Commander) GetCommand() string {
	return c.command
}

func (c *Commander) GetMessage() string {
	return c.message
}

func (c *Commander) GetEditor() *editor.Editor {
	return c.editor
}
