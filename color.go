package qrtexture

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gputypes"
	"github.com/lucasb-eyer/go-colorful"

	intImage "github.com/gogpu/qrtexture/internal/image"
)

// Color is an opaque RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// Predefined colors. White and Black are the default background and
// foreground.
var (
	White = Color{1, 1, 1}
	Black = Color{0, 0, 0}
)

// RGB creates a color from components in [0, 1].
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// RGB8 creates a color from 8-bit components.
func RGB8(r, g, b uint8) Color {
	return Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// FromColor converts a standard color.Color, dropping alpha.
func FromColor(c color.Color) Color {
	cf, _ := colorful.MakeColor(c)
	return Color{R: cf.R, G: cf.G, B: cf.B}
}

// ParseColor parses "#rgb", "#rrggbb" or the same without the leading '#'.
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	cf, err := colorful.Hex("#" + hex)
	if err != nil || len(hex) != 6 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: cf.R, G: cf.G, B: cf.B}, nil
}

// RGB255 returns the color quantised to 8 bits per channel.
func (c Color) RGB255() (r, g, b uint8) {
	return c.colorful().Clamped().RGB255()
}

// Hex returns the color as "#rrggbb".
func (c Color) Hex() string {
	return c.colorful().Clamped().Hex()
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// NRGBA converts to an opaque color.NRGBA.
func (c Color) NRGBA() color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// GPU converts to a gputypes.Color with alpha 1, for clear colors and
// blend constants on the host side.
func (c Color) GPU() gputypes.Color {
	return gputypes.Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// MarshalText implements encoding.TextMarshaler.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(b []byte) error {
	parsed, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) colorful() colorful.Color {
	return colorful.Color{R: c.R, G: c.G, B: c.B}
}

func (c Color) pixel() intImage.Pixel {
	r, g, b := c.RGB255()
	return intImage.Pixel{r, g, b}
}
