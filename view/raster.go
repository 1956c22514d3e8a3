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
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/timburks/fortplan/grid"
	"github.com/timburks/fortplan/level"
	"github.com/timburks/fortplan/metrics"
	"github.com/timburks/fortplan/schedule"
)

// A Layer selects what a RasterView draws.
type Layer int

const (
	// PaintLayer fills each cell with its brush colour.
	PaintLayer Layer = iota
	// SelectLayer shades selected and pending cells.
	SelectLayer
	// GridLayer draws the lines between cells.
	GridLayer
)

func (l Layer) String() string {
	switch l {
	case PaintLayer:
		return "paint"
	case SelectLayer:
		return "select"
	case GridLayer:
		return "grid"
	default:
		return fmt.Sprintf("layer(%d)", int(l))
	}
}

const (
	DefaultBlockSize   = 10
	DefaultRenderDelay = 50 * time.Millisecond
)

var (
	// Overlay is the colour of selected regions.
	Overlay color.Color = color.NRGBA{R: 255, G: 245, B: 0, A: 77}
	// GridLine is the colour of cell separators.
	GridLine color.Color = color.RGBA{R: 175, G: 175, B: 175, A: 255}
)

type RasterOptions struct {
	BlockSize int
	// Delay coalesces bursts of size changes into one redraw.
	Delay time.Duration
	// Scheduler runs deferred redraws. Without one, redraws happen at once.
	Scheduler schedule.Scheduler
	Metrics   *metrics.Metrics
	Logger    zerolog.Logger
}

// A RasterView draws one layer of a level into an RGBA image with
// BlockSize pixels per cell.
type RasterView struct {
	level     *level.Level
	layer     Layer
	blockSize int
	img       *image.RGBA
	root      *Node
	listener  *level.Listener
	attached  bool
	pending   bool
	trigger   *schedule.Trigger
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

func NewRasterView(l *level.Level, layer Layer, opts RasterOptions) *RasterView {
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultRenderDelay
	}
	v := &RasterView{
		level:     l,
		layer:     layer,
		blockSize: opts.BlockSize,
		img:       image.NewRGBA(image.Rect(0, 0, 0, 0)),
		root:      NewNode("canvas"),
		metrics:   opts.Metrics,
		logger:    opts.Logger.With().Str("view", layer.String()).Int("level", l.ID()).Logger(),
	}
	v.root.Title = layer.String()
	v.root.Image = v.img
	if opts.Scheduler != nil {
		v.trigger = schedule.NewTrigger(opts.Scheduler, opts.Delay, v.deferred)
	}
	v.listener = &level.Listener{Size: v.sizeChanged}
	switch layer {
	case PaintLayer:
		v.listener.Cells = v.cellChanged
	case SelectLayer:
		v.listener.Regions = v.regionChanged
	}
	return v
}

func (v *RasterView) Root() *Node {
	return v.root
}

func (v *RasterView) Layer() Layer {
	return v.layer
}

func (v *RasterView) BlockSize() int {
	return v.blockSize
}

// Image returns the current buffer. A size change replaces it.
func (v *RasterView) Image() *image.RGBA {
	return v.img
}

// Pending reports whether a full redraw is waiting on the scheduler.
func (v *RasterView) Pending() bool {
	return v.pending
}

func (v *RasterView) Attach(parent *Node) error {
	if v.attached {
		return ErrAttached
	}
	err := v.Render()
	parent.AppendChild(v.root)
	v.level.Listen(v.listener)
	v.attached = true
	return err
}

func (v *RasterView) Detach() error {
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

// Flush performs a pending redraw now.
func (v *RasterView) Flush() error {
	if !v.pending {
		return nil
	}
	return v.Render()
}

// Render reallocates the buffer at the level's size and redraws the layer.
func (v *RasterView) Render() error {
	if v.trigger != nil {
		v.trigger.Cancel()
	}
	v.pending = false
	w, h := v.level.Width(), v.level.Height()
	v.img = image.NewRGBA(image.Rect(0, 0, w*v.blockSize, h*v.blockSize))
	v.root.Image = v.img
	v.metrics.ObserveRedraw(v.layer.String(), metrics.RedrawFull)

	switch v.layer {
	case PaintLayer:
		var errs []error
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				c, _ := v.level.Peek(x, y)
				errs = append(errs, v.paint(x, y, c))
			}
		}
		return errors.Join(errs...)
	case SelectLayer:
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				if c, _ := v.level.Peek(x, y); c.Highlighted() {
					v.fill(v.block(x, y, x, y), Overlay)
				}
			}
		}
	case GridLayer:
		v.drawLines(w, h)
	}
	return nil
}

func (v *RasterView) block(x1, y1, x2, y2 int) image.Rectangle {
	bs := v.blockSize
	return image.Rect(x1*bs, y1*bs, (x2+1)*bs, (y2+1)*bs).Intersect(v.img.Bounds())
}

func (v *RasterView) fill(r image.Rectangle, c color.Color) {
	draw.Draw(v.img, r, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func (v *RasterView) paint(x, y int, c *level.Cell) error {
	col, err := PaintColour(x, c)
	v.fill(v.block(x, y, x, y), col)
	return err
}

func (v *RasterView) drawLines(w, h int) {
	bs := v.blockSize
	for i := 1; i < w; i++ {
		v.fill(image.Rect(i*bs, 0, i*bs+1, h*bs), GridLine)
	}
	for j := 1; j < h; j++ {
		v.fill(image.Rect(0, j*bs, w*bs, j*bs+1), GridLine)
	}
}

// PaintColour is the colour of cell c in column x: the brush colour when the
// brush has one, otherwise a gradient across columns.
func PaintColour(x int, c *level.Cell) (color.Color, error) {
	info, err := c.Info()
	if err == nil && info.Colour != nil {
		return info.Colour, nil
	}
	g := 250 - x
	if g < 0 {
		g = 0
	}
	return color.RGBA{R: 0, G: uint8(g), B: 155, A: 255}, err
}

func (v *RasterView) cellChanged(x, y int, c *level.Cell) error {
	if v.pending {
		if err := v.Render(); err != nil {
			return err
		}
	}
	v.metrics.ObserveRedraw(v.layer.String(), metrics.RedrawBlock)
	return v.paint(x, y, c)
}

// regionChanged repaints the overlay over r from each cell's selection marks.
func (v *RasterView) regionChanged(r grid.Region, _ level.Patch) error {
	if v.pending {
		if err := v.Render(); err != nil {
			return err
		}
	}
	v.metrics.ObserveRedraw(v.layer.String(), metrics.RedrawOverlay)
	r.ForEach(func(x, y int) {
		col := color.Color(color.Transparent)
		if c, _ := v.level.Peek(x, y); c.Highlighted() {
			col = Overlay
		}
		v.fill(v.block(x, y, x, y), col)
	})
	return nil
}

func (v *RasterView) sizeChanged() error {
	if v.trigger == nil {
		return v.Render()
	}
	v.pending = true
	v.trigger.Trigger()
	return nil
}

func (v *RasterView) deferred() {
	if err := v.Render(); err != nil {
		v.logger.Error().Err(err).Msg("deferred render")
	}
}

// Composite flattens layers, first at the bottom, into one image the size
// of the first layer.
func Composite(layers ...*RasterView) *image.RGBA {
	if len(layers) == 0 {
		return image.NewRGBA(image.Rect(0, 0, 0, 0))
	}
	out := image.NewRGBA(layers[0].Image().Bounds())
	for _, l := range layers {
		draw.Draw(out, out.Bounds(), l.Image(), image.Point{}, draw.Over)
	}
	return out
}

func WritePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
