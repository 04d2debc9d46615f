// Package compose rasterises a QR module grid into a pixel buffer.
//
// The output is a square of side grid.Size()+2*border. The interior holds one
// pixel per module; the margins are filled with the background colour. The
// interior and the four margin rectangles returned by Layout partition the
// buffer, so every pixel is written exactly once per pass.
package compose

import (
	"fmt"
	"math"

	"github.com/gogpu/qrtexture/internal/image"
	"github.com/gogpu/qrtexture/matrix"
)

// Region indices into the array returned by Layout.
const (
	Interior = iota
	Top
	Bottom
	Left
	Right
	regionCount
)

// Params selects the colours and geometry of a compositing pass.
type Params struct {
	// Border is the margin width in pixels. Negative values are treated as 0.
	Border int

	// Color selects RGB8 output using Foreground and Background.
	// When false the output is Gray8, black on white.
	Color bool

	Foreground image.Pixel
	Background image.Pixel

	// FormatChanged forces a fresh buffer even when the existing one matches.
	FormatChanged bool
}

// Format returns the pixel format produced for p.
func (p Params) Format() image.Format {
	if p.Color {
		return image.FormatRGB8
	}
	return image.FormatGray8
}

// colors returns the foreground and background actually drawn.
func (p Params) colors() (fg, bg image.Pixel) {
	if p.Color {
		return p.Foreground, p.Background
	}
	return image.Black, image.White
}

// Result describes a finished pass.
type Result struct {
	Buf *image.ImageBuf

	// Reallocated is true when Buf is not the buffer passed in.
	Reallocated bool

	// Written counts pixels written across the interior and the margins.
	Written int
}

// Layout returns the interior and margin rectangles for a grid of the given
// side padded by border. Top and Bottom span the full width; Left and Right
// span only the rows between them.
func Layout(side, border int) [regionCount]image.Rect {
	border = max(border, 0)
	s := side + 2*border
	inner := border + side
	return [regionCount]image.Rect{
		Interior: {X0: border, Y0: border, X1: inner, Y1: inner},
		Top:      {X0: 0, Y0: 0, X1: s, Y1: border},
		Bottom:   {X0: 0, Y0: inner, X1: s, Y1: s},
		Left:     {X0: 0, Y0: border, X1: border, Y1: inner},
		Right:    {X0: inner, Y0: border, X1: s, Y1: inner},
	}
}

// Side returns the output side length for a grid side and border. It
// saturates at math.MaxInt instead of overflowing.
func Side(side, border int) int {
	border = max(border, 0)
	if border > (math.MaxInt-side)/2 {
		return math.MaxInt
	}
	return side + 2*border
}

// Composite draws grid into dst, reusing dst when its size and format already
// match and p.FormatChanged is not set. dst may be nil. grid must be non-nil.
func Composite(dst *image.ImageBuf, grid *matrix.Grid, p Params) (Result, error) {
	side := grid.Size()
	s := Side(side, p.Border)
	if s > image.MaxDimension {
		return Result{}, fmt.Errorf("compose: border %d around %d modules: %w", p.Border, side, image.ErrTooLarge)
	}
	format := p.Format()

	res := Result{Buf: dst}
	if p.FormatChanged || !dst.Matches(s, s, format) {
		buf, err := image.NewImageBuf(s, s, format)
		if err != nil {
			return Result{}, err
		}
		res.Buf = buf
		res.Reallocated = true
	}

	fg, bg := p.colors()
	regions := Layout(side, p.Border)

	res.Written = fillModules(res.Buf, grid, regions[Interior], fg, bg)
	for _, r := range regions[Top:] {
		res.Written += res.Buf.FillRect(r, bg)
	}
	return res, nil
}

// fillModules writes the interior row by row, one FillRect per run of equal
// modules.
func fillModules(buf *image.ImageBuf, grid *matrix.Grid, r image.Rect, fg, bg image.Pixel) int {
	side := grid.Size()
	n := 0
	for y := range side {
		x := 0
		for x < side {
			dark := grid.Dark(x, y)
			end := x + 1
			for end < side && grid.Dark(end, y) == dark {
				end++
			}
			p := bg
			if dark {
				p = fg
			}
			n += buf.FillRect(image.Rect{
				X0: r.X0 + x, Y0: r.Y0 + y,
				X1: r.X0 + end, Y1: r.Y0 + y + 1,
			}, p)
			x = end
		}
	}
	return n
}
