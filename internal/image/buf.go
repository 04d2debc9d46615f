package image

import (
	"bytes"
	"errors"
	"fmt"
)

// MaxDimension is the largest width or height a buffer may have. It matches
// the common GPU limit for 2D textures and keeps every byte size well inside
// int range.
const MaxDimension = 16384

// Common errors for image operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrTooLarge is returned when width or height exceeds MaxDimension.
	ErrTooLarge = errors.New("image: dimensions too large")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("image: invalid format")

	// ErrDataTooSmall is returned when provided data is smaller than required.
	ErrDataTooSmall = errors.New("image: data buffer too small")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Pixel is an opaque 8-bit RGB triple.
// Grayscale buffers store only the R component.
type Pixel [3]uint8

// Common pixels.
var (
	Black = Pixel{0, 0, 0}
	White = Pixel{255, 255, 255}
)

// Rect is a half-open pixel rectangle [X0, X1) x [Y0, Y1).
type Rect struct {
	X0, Y0, X1, Y1 int
}

// Empty reports whether the rectangle contains no pixels.
func (r Rect) Empty() bool {
	return r.X0 >= r.X1 || r.Y0 >= r.Y1
}

// Area returns the number of pixels inside the rectangle.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return (r.X1 - r.X0) * (r.Y1 - r.Y0)
}

// ImageBuf is a tightly packed pixel buffer.
//
// Rows are stored top to bottom with no padding, so Data() can be handed to
// a texture upload unchanged.
//
// Thread safety: ImageBuf is safe for concurrent read access. Write
// operations require external synchronization.
type ImageBuf struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
}

// NewImageBuf creates a new zeroed image buffer with the given dimensions and format.
// Returns an error if dimensions are invalid or format is unknown.
func NewImageBuf(width, height int, format Format) (*ImageBuf, error) {
	if err := checkDimensions(width, height, format); err != nil {
		return nil, err
	}

	stride := format.RowBytes(width)
	return &ImageBuf{
		data:   make([]byte, format.ImageBytes(width, height)),
		width:  width,
		height: height,
		stride: stride,
		format: format,
	}, nil
}

// FromRaw creates an ImageBuf from existing tightly packed data without copying.
func FromRaw(data []byte, width, height int, format Format) (*ImageBuf, error) {
	if err := checkDimensions(width, height, format); err != nil {
		return nil, err
	}

	size := format.ImageBytes(width, height)
	if len(data) < size {
		return nil, ErrDataTooSmall
	}

	return &ImageBuf{
		data:   data[:size],
		width:  width,
		height: height,
		stride: format.RowBytes(width),
		format: format,
	}, nil
}

func checkDimensions(width, height int, format Format) error {
	if width <= 0 || height <= 0 {
		return ErrInvalidDimensions
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: %dx%d exceeds %d", ErrTooLarge, width, height, MaxDimension)
	}
	if !format.IsValid() {
		return ErrInvalidFormat
	}
	return nil
}

// Clone creates a deep copy of the image buffer.
func (b *ImageBuf) Clone() *ImageBuf {
	newData := make([]byte, len(b.data))
	copy(newData, b.data)

	return &ImageBuf{
		data:   newData,
		width:  b.width,
		height: b.height,
		stride: b.stride,
		format: b.format,
	}
}

// Width returns the image width in pixels.
func (b *ImageBuf) Width() int {
	return b.width
}

// Height returns the image height in pixels.
func (b *ImageBuf) Height() int {
	return b.height
}

// Format returns the pixel format.
func (b *ImageBuf) Format() Format {
	return b.format
}

// Matches reports whether the buffer already has the given geometry and format.
func (b *ImageBuf) Matches(width, height int, format Format) bool {
	return b != nil && b.width == width && b.height == height && b.format == format
}

// Data returns the raw pixel data slice.
func (b *ImageBuf) Data() []byte {
	return b.data
}

// RowBytes returns a slice of the pixel data for row y.
// Returns nil if y is out of bounds.
func (b *ImageBuf) RowBytes(y int) []byte {
	if y < 0 || y >= b.height {
		return nil
	}
	start := y * b.stride
	return b.data[start : start+b.stride]
}

// PixelOffset returns the byte offset of pixel (x, y) in the data slice.
// Returns -1 if coordinates are out of bounds.
func (b *ImageBuf) PixelOffset(x, y int) int {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return -1
	}
	return y*b.stride + x*b.format.BytesPerPixel()
}

// PixelBytes returns a slice of the raw bytes for pixel (x, y).
// Returns nil if coordinates are out of bounds.
func (b *ImageBuf) PixelBytes(x, y int) []byte {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return nil
	}
	return b.data[offset : offset+b.format.BytesPerPixel()]
}

// At returns the pixel at (x, y). Grayscale pixels are replicated to all
// three components. Returns the zero Pixel if coordinates are out of bounds.
func (b *ImageBuf) At(x, y int) Pixel {
	px := b.PixelBytes(x, y)
	if px == nil {
		return Pixel{}
	}
	switch b.format {
	case FormatGray8:
		return Pixel{px[0], px[0], px[0]}
	default:
		return Pixel{px[0], px[1], px[2]}
	}
}

// Set writes the pixel at (x, y).
// Grayscale buffers store the luminance of p.
// Returns ErrOutOfBounds if coordinates are outside image bounds.
func (b *ImageBuf) Set(x, y int, p Pixel) error {
	offset := b.PixelOffset(x, y)
	if offset < 0 {
		return ErrOutOfBounds
	}
	b.put(offset, p)
	return nil
}

// FillRect writes p to every pixel of r clipped to the buffer.
// Returns the number of pixels written.
func (b *ImageBuf) FillRect(r Rect, p Pixel) int {
	r = b.clip(r)
	if r.Empty() {
		return 0
	}
	bpp := b.format.BytesPerPixel()
	for y := r.Y0; y < r.Y1; y++ {
		offset := y*b.stride + r.X0*bpp
		for x := r.X0; x < r.X1; x++ {
			b.put(offset, p)
			offset += bpp
		}
	}
	return r.Area()
}

// Equal reports whether two buffers have the same geometry, format and bytes.
func (b *ImageBuf) Equal(other *ImageBuf) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.Matches(other.width, other.height, other.format) && bytes.Equal(b.data, other.data)
}

// ByteSize returns the total size of the pixel data in bytes.
func (b *ImageBuf) ByteSize() int {
	return len(b.data)
}

// ExpandRGBA returns the pixels as tightly packed opaque RGBA bytes.
// This is the layout GPU texture creators accept.
func (b *ImageBuf) ExpandRGBA() []byte {
	out := make([]byte, b.width*b.height*4)
	switch b.format {
	case FormatGray8:
		for i, v := range b.data {
			o := i * 4
			out[o], out[o+1], out[o+2], out[o+3] = v, v, v, 255
		}
	case FormatRGB8:
		for i := 0; i < b.width*b.height; i++ {
			s, o := i*3, i*4
			out[o], out[o+1], out[o+2], out[o+3] = b.data[s], b.data[s+1], b.data[s+2], 255
		}
	case FormatRGBA8:
		copy(out, b.data)
	}
	return out
}

func (b *ImageBuf) clip(r Rect) Rect {
	r.X0 = max(r.X0, 0)
	r.Y0 = max(r.Y0, 0)
	r.X1 = min(r.X1, b.width)
	r.Y1 = min(r.Y1, b.height)
	return r
}

// put writes p at a byte offset known to be in bounds.
func (b *ImageBuf) put(offset int, p Pixel) {
	switch b.format {
	case FormatGray8:
		// Standard luminance: 0.299*R + 0.587*G + 0.114*B
		b.data[offset] = byte((int(p[0])*299 + int(p[1])*587 + int(p[2])*114) / 1000)
	case FormatRGB8:
		b.data[offset] = p[0]
		b.data[offset+1] = p[1]
		b.data[offset+2] = p[2]
	case FormatRGBA8:
		b.data[offset] = p[0]
		b.data[offset+1] = p[1]
		b.data[offset+2] = p[2]
		b.data[offset+3] = 255
	}
}
