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

package editor

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/timburks/fortplan/config"
	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/metrics"
	"github.com/timburks/fortplan/schedule"
	"github.com/timburks/fortplan/store"
	fortplan "github.com/timburks/fortplan/types"
	"github.com/timburks/fortplan/view"
)

type Options struct {
	Config config.Config
	Store  store.Store
	// Scheduler runs deferred redraws; nil redraws at once.
	Scheduler schedule.Scheduler
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// levelViews are the controllers and observers attached to one level.
type levelViews struct {
	level     *level.Level
	paint     *Controller
	lines     *Controller
	selection *Controller
	output    *view.OutputView
	observer  *level.Listener
}

// The Editor manages the editing of a collection of levels.
type Editor struct {
	config     config.Config
	collection *level.Collection
	store      store.Store
	scheduler  schedule.Scheduler
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	mainView   *view.Node         // holds the active table
	scrollView *view.Node         // holds every level's rasters
	outputView *view.Node         // holds every level's text dump
	levels     []*levelViews      // parallel to the collection
	main       *Controller        // table controller of the active level
	table      *view.TableView    // view of main
	window     *Window            // scrolling view of table
	active     int                // index of the active level
	width      int                // size of new levels
	height     int
	brush      level.Brush        // brush placed by Place and Paint
	cursor     fortplan.Point     // cursor position in the active level
	selecting  bool               // a selection follows the cursor
	previous   fortplan.Operation // last operation performed, available to repeat
}

func NewEditor(opts Options) (*Editor, error) {
	cfg := opts.Config
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	brush, err := level.ParseBrush(cfg.Brush)
	if err != nil {
		return nil, err
	}
	if opts.Store == nil {
		opts.Store = store.NewMemory()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	return &Editor{
		config:     cfg,
		collection: level.NewCollection(nil),
		store:      opts.Store,
		scheduler:  opts.Scheduler,
		metrics:    opts.Metrics,
		logger:     opts.Logger,
		mainView:   view.NewNode("main"),
		scrollView: view.NewNode("scroll"),
		outputView: view.NewNode("output"),
		window:     NewWindow(),
		active:     -1,
		width:      cfg.Width,
		height:     cfg.Height,
		brush:      brush,
	}, nil
}

// Start creates the first level and makes it active.
func (e *Editor) Start() error {
	if _, err := e.AddLevel(); err != nil {
		return err
	}
	return e.SelectLevel(0)
}

// Stop detaches every view from every level.
func (e *Editor) Stop() error {
	return e.detachAll()
}

// AddLevel appends a level at the current level size and returns its index.
func (e *Editor) AddLevel() (int, error) {
	l, err := e.collection.AddLevel(e.width, e.height)
	if err != nil {
		return -1, err
	}
	if err := e.attach(l); err != nil {
		return -1, err
	}
	i := e.collection.Len() - 1
	e.logger.Info().Int("level", i).Int("width", e.width).Int("height", e.height).Msg("level added")
	return i, nil
}

func (e *Editor) rasterOptions() view.RasterOptions {
	return view.RasterOptions{
		BlockSize: e.config.BlockSize,
		Delay:     e.config.RenderDelay(),
		Scheduler: e.scheduler,
		Metrics:   e.metrics,
		Logger:    e.logger,
	}
}

func (e *Editor) attach(l *level.Level) error {
	output := view.NewOutputView(l, view.OutputOptions{
		Delay:     e.config.OutputDelay(),
		Scheduler: e.scheduler,
		Logger:    e.logger,
	})
	lv := &levelViews{
		level:     l,
		paint:     NewController(l, view.NewRasterView(l, view.PaintLayer, e.rasterOptions())),
		lines:     NewController(l, view.NewRasterView(l, view.GridLayer, e.rasterOptions())),
		selection: NewController(l, view.NewRasterView(l, view.SelectLayer, e.rasterOptions())),
		output:    output,
		observer:  e.metrics.Observer(),
	}
	e.levels = append(e.levels, lv)
	l.Listen(lv.observer)
	return errors.Join(
		lv.paint.Insert(e.scrollView),
		lv.lines.Insert(e.scrollView),
		lv.selection.Insert(e.scrollView),
		lv.output.Attach(e.outputView),
	)
}

func (e *Editor) detachAll() error {
	var errs []error
	if e.main != nil {
		errs = append(errs, e.main.Cancel(), e.main.Remove())
		e.main = nil
		e.table = nil
		e.window.SetTable(nil)
	}
	for _, lv := range e.levels {
		errs = append(errs,
			lv.paint.Remove(),
			lv.lines.Remove(),
			lv.selection.Remove(),
			lv.output.Detach(),
		)
		lv.level.Unlisten(lv.observer)
	}
	e.levels = nil
	e.active = -1
	e.selecting = false
	return errors.Join(errs...)
}

// SelectLevel makes level i the one shown in the main view.
func (e *Editor) SelectLevel(i int) error {
	l, err := e.collection.Level(i)
	if err != nil {
		return err
	}
	if e.main != nil {
		err := errors.Join(e.main.Cancel(), e.main.Remove())
		if err != nil {
			return err
		}
	}
	e.table = view.NewTableView(l, e.logger)
	e.main = NewController(l, e.table)
	e.window.SetTable(e.table)
	e.active = i
	e.selecting = false
	e.clampCursor()
	e.logger.Info().Int("level", i).Msg("level selected")
	return e.main.Insert(e.mainView)
}

// Level returns the active level.
func (e *Editor) Level() *level.Level {
	if e.main == nil {
		return nil
	}
	return e.main.Level()
}

func (e *Editor) ActiveIndex() int {
	return e.active
}

func (e *Editor) LevelCount() int {
	return e.collection.Len()
}

func (e *Editor) Collection() *level.Collection {
	return e.collection
}

func (e *Editor) Metrics() *metrics.Metrics {
	return e.metrics
}

func (e *Editor) Window() *Window {
	return e.window
}

// Table returns the view of the active level.
func (e *Editor) Table() *view.TableView {
	return e.table
}

// Controller returns the table controller of the active level.
func (e *Editor) Controller() *Controller {
	return e.main
}

// GetSize returns the size given to new levels.
func (e *Editor) GetSize() (int, int) {
	return e.width, e.height
}

// SetSize resizes every level and sets the size of new ones.
func (e *Editor) SetSize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: size %dx%d", grid.ErrOutOfRange, width, height)
	}
	e.selecting = false
	if e.main != nil {
		if err := e.main.Cancel(); err != nil {
			return err
		}
	}
	e.width, e.height = width, height
	err := e.collection.ResizeAll(width, height)
	e.clampCursor()
	e.logger.Info().Int("width", width).Int("height", height).Msg("levels resized")
	return err
}

func (e *Editor) GetBrush() level.Brush {
	return e.brush
}

func (e *Editor) SetBrush(b level.Brush) error {
	if _, err := b.Info(); err != nil {
		return err
	}
	e.brush = b
	return nil
}

// CycleBrush moves to the next brush in the vocabulary.
func (e *Editor) CycleBrush() level.Brush {
	e.brush = e.brush.Next()
	return e.brush
}

func (e *Editor) GetCursor() fortplan.Point {
	return e.cursor
}

func (e *Editor) SetCursor(cursor fortplan.Point) {
	e.cursor = cursor
	e.clampCursor()
}

func (e *Editor) clampCursor() {
	l := e.Level()
	if l == nil {
		return
	}
	e.cursor.X = max(0, min(e.cursor.X, l.Width()-1))
	e.cursor.Y = max(0, min(e.cursor.Y, l.Height()-1))
}

// MoveCursor moves the cursor and drags an active selection with it.
func (e *Editor) MoveCursor(direction int, multiplier int) error {
	if multiplier < 1 {
		multiplier = 1
	}
	switch direction {
	case fortplan.MoveUp:
		e.cursor.Y -= multiplier
	case fortplan.MoveDown:
		e.cursor.Y += multiplier
	case fortplan.MoveLeft:
		e.cursor.X -= multiplier
	case fortplan.MoveRight:
		e.cursor.X += multiplier
	}
	e.clampCursor()
	if e.selecting {
		return e.ExtendSelection()
	}
	return nil
}

func (e *Editor) Selecting() bool {
	return e.selecting
}

// BeginSelection anchors a selection at the cursor.
func (e *Editor) BeginSelection() error {
	if e.main == nil {
		return nil
	}
	e.selecting = true
	return e.main.Press(e.cursor.X, e.cursor.Y)
}

// ExtendSelection moves the selection's far corner to the cursor.
func (e *Editor) ExtendSelection() error {
	if e.main == nil {
		return nil
	}
	return e.main.Drag(e.cursor.X, e.cursor.Y)
}

// EndSelection commits the selection.
func (e *Editor) EndSelection() error {
	if e.main == nil {
		return nil
	}
	e.selecting = false
	return e.main.Release()
}

// CancelSelection abandons a selection in progress.
func (e *Editor) CancelSelection() error {
	e.selecting = false
	if e.main == nil {
		return nil
	}
	return e.main.Cancel()
}

// ToggleSelection begins a selection or ends the current one.
func (e *Editor) ToggleSelection() error {
	if e.selecting {
		return e.EndSelection()
	}
	return e.BeginSelection()
}

// Select selects the region between two corners of the active level.
func (e *Editor) Select(x1, y1, x2, y2 int) error {
	if e.main == nil {
		return nil
	}
	if err := e.main.Press(x1, y1); err != nil {
		return err
	}
	if err := e.main.Drag(x2, y2); err != nil {
		return err
	}
	e.selecting = false
	return e.main.Release()
}

// Paint sets the brush of one cell of the active level.
func (e *Editor) Paint(p fortplan.Point, brush level.Brush) error {
	l := e.Level()
	if l == nil {
		return errors.New("no active level")
	}
	if _, err := brush.Info(); err != nil {
		return err
	}
	return l.Update(p.X, p.Y, level.Patch{level.Value(brush)})
}

// Deselect clears the selection mark of one cell of the active level.
func (e *Editor) Deselect(p fortplan.Point) error {
	l := e.Level()
	if l == nil {
		return errors.New("no active level")
	}
	return l.UpdateRegion(grid.PointRegion(p.X, p.Y), level.Patch{level.Selected(false)})
}

// Place fills the selected cells of the active level with brush.
func (e *Editor) Place(brush level.Brush) error {
	if e.main == nil {
		return errors.New("no active level")
	}
	return e.main.Place(brush)
}

func (e *Editor) Perform(op fortplan.Operation, multiplier int) error {
	// save the operation for repeats
	e.previous = op
	return op.Perform(e, multiplier)
}

func (e *Editor) Repeat() error {
	if e.previous == nil {
		return nil
	}
	return e.previous.Perform(e, 0)
}

// Save stores the collection under the configured key.
func (e *Editor) Save(ctx context.Context) (string, error) {
	return e.SaveAs(ctx, e.config.SaveKey)
}

func (e *Editor) SaveAs(ctx context.Context, key string) (string, error) {
	data, err := level.EncodeSnapshot(e.collection.Snapshot())
	if err != nil {
		return "", err
	}
	id, err := e.store.Save(ctx, key, data)
	if err != nil {
		return "", err
	}
	e.logger.Info().Str("key", key).Str("revision", id).Int("levels", e.collection.Len()).Msg("saved")
	return id, nil
}

// Load replaces the collection with the one saved under the configured key.
func (e *Editor) Load(ctx context.Context) error {
	return e.LoadFrom(ctx, e.config.SaveKey)
}

// LoadFrom replaces the collection with the one saved under key. A save that
// cannot be read or decoded leaves the editor unchanged.
func (e *Editor) LoadFrom(ctx context.Context, key string) error {
	data, err := e.store.Load(ctx, key)
	if err != nil {
		return err
	}
	snapshot, err := level.DecodeSnapshot(data)
	if err != nil {
		return err
	}
	if err := e.detachAll(); err != nil {
		return err
	}
	if err := e.collection.Load(snapshot); err != nil {
		return err
	}
	if first, err := e.collection.Level(0); err == nil {
		e.width, e.height = first.Width(), first.Height()
	} else if _, err := e.collection.AddLevel(e.width, e.height); err != nil {
		return err
	}
	var errs []error
	for _, l := range e.collection.Levels() {
		errs = append(errs, e.attach(l))
	}
	errs = append(errs, e.SelectLevel(0))
	e.logger.Info().Str("key", key).Int("levels", e.collection.Len()).Msg("loaded")
	return errors.Join(errs...)
}

func (e *Editor) views(i int) (*levelViews, error) {
	if i < 0 || i >= len(e.levels) {
		return nil, fmt.Errorf("%w: level %d of %d", grid.ErrOutOfRange, i, len(e.levels))
	}
	return e.levels[i], nil
}

// RenderPNG writes the rasters of level i, flattened, as a PNG image.
func (e *Editor) RenderPNG(i int, w io.Writer) error {
	lv, err := e.views(i)
	if err != nil {
		return err
	}
	paint := lv.paint.View().(*view.RasterView)
	lines := lv.lines.View().(*view.RasterView)
	selection := lv.selection.View().(*view.RasterView)
	if err := errors.Join(paint.Flush(), lines.Flush(), selection.Flush()); err != nil {
		return err
	}
	return view.WritePNG(w, view.Composite(paint, lines, selection))
}

// Dump writes level i as text.
func (e *Editor) Dump(i int, format view.Format, w io.Writer) error {
	l, err := e.collection.Level(i)
	if err != nil {
		return err
	}
	return view.Dump(w, l, format)
}

// Output returns the text view of level i as last rendered.
func (e *Editor) Output(i int) (string, error) {
	lv, err := e.views(i)
	if err != nil {
		return "", err
	}
	return lv.output.Text(), nil
}
