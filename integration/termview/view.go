// Package termview previews a qrtexture.Texture in a terminal.
//
// Each terminal cell shows two pixel rows using the upper half block: the
// foreground colour is the top pixel, the background colour the bottom one.
// Terminals render cells roughly twice as tall as wide, so modules come out
// close to square.
package termview

import (
	"errors"
	"image"

	"github.com/gdamore/tcell/v2"

	"github.com/gogpu/qrtexture"
)

// HalfBlock is the rune drawn in every image cell.
const HalfBlock = '▀'

// ErrClipped is returned by Draw when the image does not fit the screen.
// The visible part is still drawn.
var ErrClipped = errors.New("termview: image clipped to screen")

// View draws textures onto a tcell.Screen.
type View struct {
	screen tcell.Screen
	x, y   int
}

// New returns a View drawing at the screen's top-left corner.
func New(screen tcell.Screen) *View {
	return &View{screen: screen}
}

// SetOrigin moves the top-left cell of the image.
func (v *View) SetOrigin(x, y int) {
	v.x, v.y = x, y
}

// Cells returns the number of columns and rows an image of the given pixel
// size occupies.
func Cells(width, height int) (cols, rows int) {
	return width, (height + 1) / 2
}

// Draw renders the texture's published buffer and returns the rows used.
// Call Show on the screen afterwards. An empty texture draws nothing.
func (v *View) Draw(tex *qrtexture.Texture) (rows int, err error) {
	img := tex.Image()
	b := img.Bounds()
	if b.Empty() {
		return 0, nil
	}

	cols, rows := Cells(b.Dx(), b.Dy())
	sw, sh := v.screen.Size()
	visCols := min(cols, sw-v.x)
	visRows := min(rows, sh-v.y)

	// Odd heights leave the last bottom half in the margin colour.
	pad := cellColor(img, b.Min.X, b.Min.Y)
	for r := range visRows {
		top := b.Min.Y + 2*r
		for c := range visCols {
			x := b.Min.X + c
			fg := cellColor(img, x, top)
			bg := pad
			if top+1 < b.Max.Y {
				bg = cellColor(img, x, top+1)
			}
			style := tcell.StyleDefault.Foreground(fg).Background(bg)
			v.screen.SetContent(v.x+c, v.y+r, HalfBlock, nil, style)
		}
	}

	if visCols < cols || visRows < rows {
		return max(visRows, 0), ErrClipped
	}
	return rows, nil
}

// DrawString writes s starting at (x, y), clipped to the screen width.
func (v *View) DrawString(x, y int, s string, style tcell.Style) {
	w, _ := v.screen.Size()
	for _, r := range s {
		if x >= w {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func cellColor(img image.Image, x, y int) tcell.Color {
	r, g, b, _ := img.At(x, y).RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}
