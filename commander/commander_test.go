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
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timburks/fortplan/config"
	"github.com/timburks/fortplan/editor"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/store"
	fortplan "github.com/timburks/fortplan/types"
	"github.com/timburks/fortplan/view"
)

func newCommander(t *testing.T) *Commander {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height = 5, 5
	e, err := editor.NewEditor(editor.Options{Config: cfg, Store: store.NewMemory()})
	require.NoError(t, err)
	require.NoError(t, e.Start())
	return NewCommander(e, zerolog.Nop())
}

func keys(c *Commander, input string) error {
	for _, ch := range input {
		if err := c.ProcessEvent(&fortplan.Event{Type: fortplan.EventKey, Ch: ch}); err != nil {
			return err
		}
	}
	return nil
}

func press(c *Commander, key fortplan.Key) error {
	return c.ProcessEvent(&fortplan.Event{Type: fortplan.EventKey, Key: key})
}

func command(t *testing.T, c *Commander, line string) error {
	t.Helper()
	require.NoError(t, keys(c, ":"))
	require.Equal(t, fortplan.ModeCommand, c.GetMode())
	require.NoError(t, keys(c, line))
	assert.Equal(t, line, c.GetCommand())
	return press(c, fortplan.KeyEnter)
}

func codes(t *testing.T, c *Commander) string {
	t.Helper()
	var b strings.Builder
	e := c.GetEditor()
	require.NoError(t, e.Dump(e.ActiveIndex(), view.CodesFormat, &b))
	return b.String()
}

func TestSelectAndPlaceWithKeys(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, "lv2lj"))
	require.NoError(t, press(c, fortplan.KeySpace))
	assert.Equal(t, ",,,,\n,,,,\n,,,,\n,,,,\n,,,,\n", codes(t, c), "pending cells are not placed")

	require.NoError(t, keys(c, "v"))
	require.NoError(t, press(c, fortplan.KeySpace))
	assert.Equal(t, ",d,d,d,\n,d,d,d,\n,,,,\n,,,,\n,,,,\n", codes(t, c))
	assert.Equal(t, fortplan.Point{X: 3, Y: 1}, c.GetEditor().GetCursor())
	assert.False(t, c.GetEditor().Selecting())
}

func TestMultiplierAndRepeat(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, "bb3x"))
	assert.Equal(t, "brush: chop", c.GetMessage())
	require.NoError(t, keys(c, "j."))
	assert.Equal(t, "t,t,t,,\nt,t,t,,\n,,,,\n,,,,\n,,,,\n", codes(t, c))

	require.NoError(t, keys(c, "2u"))
	assert.Equal(t, "t,t,t,,\nt,t,t,,\n,,,,\n,,,,\n,,,,\n", codes(t, c), "deselect keeps values")
}

func TestEscapeCancelsSelection(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, "vll"))
	require.NoError(t, press(c, fortplan.KeyEsc))
	assert.False(t, c.GetEditor().Selecting())
	cell, err := c.GetEditor().Level().Peek(1, 0)
	require.NoError(t, err)
	assert.False(t, cell.SelectPending)
}

func TestLevelCommands(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, command(t, c, "add"))
	assert.Equal(t, "added level 1", c.GetMessage())
	assert.Equal(t, fortplan.ModeEdit, c.GetMode())

	require.NoError(t, keys(c, "n"))
	assert.Equal(t, 1, c.GetEditor().ActiveIndex())
	require.NoError(t, keys(c, "n"))
	assert.Equal(t, 1, c.GetEditor().ActiveIndex(), "no level after the last")
	require.NoError(t, keys(c, "p"))
	assert.Equal(t, 0, c.GetEditor().ActiveIndex())

	require.NoError(t, command(t, c, "level 1"))
	assert.Equal(t, 1, c.GetEditor().ActiveIndex())
	require.Error(t, command(t, c, "level 9"))

	require.NoError(t, command(t, c, "size 7 3"))
	w, h := c.GetEditor().GetSize()
	assert.Equal(t, 7, w)
	assert.Equal(t, 3, h)
	require.Error(t, command(t, c, "size seven"))
	assert.Equal(t, "usage: size WIDTH HEIGHT", c.GetMessage())

	require.NoError(t, command(t, c, "brush upstairs"))
	assert.Equal(t, level.BrushUpStairs, c.GetEditor().GetBrush())
	require.ErrorIs(t, command(t, c, "brush lava"), level.ErrUnknownBrush)

	require.NoError(t, command(t, c, "3"))
	assert.Equal(t, 2, c.GetEditor().GetCursor().Y)

	require.Error(t, command(t, c, "frobnicate"))
}

func TestSaveLoadCommands(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, "x"))
	require.NoError(t, command(t, c, "w"))
	assert.True(t, strings.HasPrefix(c.GetMessage(), "saved "))

	require.NoError(t, command(t, c, "add"))
	require.NoError(t, command(t, c, "e"))
	assert.Equal(t, "loaded 1 levels", c.GetMessage())
	assert.Equal(t, "d,,,,\n,,,,\n,,,,\n,,,,\n,,,,\n", codes(t, c))

	require.NoError(t, command(t, c, "w other"))
	require.NoError(t, command(t, c, "load other"))
	require.Error(t, command(t, c, "load missing"))

	require.NoError(t, command(t, c, "wq"))
	assert.False(t, c.IsRunning())
}

func TestFileCommands(t *testing.T) {
	c := newCommander(t)
	dir := t.TempDir()

	out := filepath.Join(dir, "level.png")
	require.NoError(t, command(t, c, "png "+out))
	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	require.NoError(t, keys(c, "vv"))
	out = filepath.Join(dir, "level.txt")
	require.NoError(t, command(t, c, "dump "+out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "C,N,N,N,N\n"))

	require.Error(t, command(t, c, "png"))
}

func TestStatsAndDebug(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, "x"))
	require.NoError(t, command(t, c, "stats"))
	assert.Contains(t, c.GetMessage(), "level_events_total{kind=cell-changed}=1")

	require.NoError(t, command(t, c, "debug on"))
	require.NoError(t, keys(c, "l"))
	assert.Contains(t, c.GetMessage(), "event=")
	require.NoError(t, command(t, c, "debug off"))
	assert.Empty(t, c.GetMessage())
}

func TestCommandLineEditing(t *testing.T) {
	c := newCommander(t)
	require.NoError(t, keys(c, ":adx"))
	require.NoError(t, press(c, fortplan.KeyBackspace2))
	require.NoError(t, keys(c, "d"))
	assert.Equal(t, "add", c.GetCommand())
	require.NoError(t, press(c, fortplan.KeyEsc))
	assert.Equal(t, fortplan.ModeEdit, c.GetMode())
	assert.Equal(t, 1, c.GetEditor().LevelCount())

	require.NoError(t, command(t, c, "q"))
	assert.Equal(t, fortplan.ModeQuit, c.GetMode())
}

func TestLisp(t *testing.T) {
	c := newCommander(t)
	_, err := c.ParseEval(`(paint 1 1 "dig")`)
	require.NoError(t, err)
	assert.Equal(t, ",,,,\n,d,,,\n,,,,\n,,,,\n,,,,\n", codes(t, c))

	_, err = c.ParseEval(`(paint 1 1 "lava")`)
	require.Error(t, err)

	_, err = c.ParseEval("(resize 4 3)")
	require.NoError(t, err)
	w, err := c.ParseEval("(width)")
	require.NoError(t, err)
	assert.Equal(t, "4", w)

	_, err = c.ParseEval("(select 0 0 1 0)")
	require.NoError(t, err)
	_, err = c.ParseEval(`(place "chop")`)
	require.NoError(t, err)
	assert.Equal(t, "t,t,,\n,d,,\n,,,\n", codes(t, c))

	require.NoError(t, keys(c, "(levels)"))
	assert.Equal(t, fortplan.ModeLisp, c.GetMode())
	assert.Equal(t, "(levels)", c.GetLispText())
	require.NoError(t, press(c, fortplan.KeyEnter))
	assert.Equal(t, fortplan.ModeEdit, c.GetMode())
	assert.Equal(t, "1", c.GetMessage())
}

func TestSourceFile(t *testing.T) {
	c := newCommander(t)
	path := filepath.Join(t.TempDir(), "plan.lsp")
	script := "(add-level)\n(level 1)\n(paint 0 0 \"upstairs\")\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o644))

	require.NoError(t, command(t, c, "source "+path))
	assert.Equal(t, 2, c.GetEditor().LevelCount())
	assert.Equal(t, 1, c.GetEditor().ActiveIndex())
	assert.True(t, strings.HasPrefix(codes(t, c), "k,"))

	require.Error(t, command(t, c, "source "+filepath.Join(t.TempDir(), "missing.lsp")))
}
