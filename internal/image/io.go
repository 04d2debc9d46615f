package image

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// I/O errors.
var (
	// ErrUnsupportedFormat is returned when the file format is not supported.
	ErrUnsupportedFormat = errors.New("image: unsupported format")

	// ErrInvalidScale is returned when a scale factor is below 1.
	ErrInvalidScale = errors.New("image: invalid scale")
)

// ToStdImage converts the ImageBuf to a standard library image.Image.
// Returns *image.Gray for grayscale and *image.NRGBA otherwise.
func (b *ImageBuf) ToStdImage() image.Image {
	rect := image.Rect(0, 0, b.width, b.height)

	switch b.format {
	case FormatGray8:
		gray := image.NewGray(rect)
		for y := range b.height {
			copy(gray.Pix[y*gray.Stride:], b.RowBytes(y))
		}
		return gray

	case FormatRGBA8:
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			copy(nrgba.Pix[y*nrgba.Stride:], b.RowBytes(y))
		}
		return nrgba

	default:
		// Expand RGB8 to opaque NRGBA
		nrgba := image.NewNRGBA(rect)
		for y := range b.height {
			row := b.RowBytes(y)
			dstStart := y * nrgba.Stride
			for x := range b.width {
				srcOff := x * 3
				dstOff := dstStart + x*4
				nrgba.Pix[dstOff] = row[srcOff]
				nrgba.Pix[dstOff+1] = row[srcOff+1]
				nrgba.Pix[dstOff+2] = row[srcOff+2]
				nrgba.Pix[dstOff+3] = 255
			}
		}
		return nrgba
	}
}

// FromStdImage creates an ImageBuf from a standard library image.Image.
// Gray images become FormatGray8; everything else becomes FormatRGB8 with
// alpha discarded.
func FromStdImage(img image.Image) *ImageBuf {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if gray, ok := img.(*image.Gray); ok {
		buf, err := NewImageBuf(width, height, FormatGray8)
		if err != nil {
			return nil
		}
		for y := range height {
			srcStart := y * gray.Stride
			copy(buf.RowBytes(y), gray.Pix[srcStart:srcStart+width])
		}
		return buf
	}

	buf, err := NewImageBuf(width, height, FormatRGB8)
	if err != nil {
		return nil
	}
	for y := range height {
		for x := range width {
			r, g, bl, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA() returns 16-bit values, scale to 8-bit
			_ = buf.Set(x, y, Pixel{byte(r >> 8), byte(g >> 8), byte(bl >> 8)})
		}
	}
	return buf
}

// Scale returns a copy of the buffer enlarged by an integer factor using
// nearest-neighbour sampling, so module edges stay sharp.
func (b *ImageBuf) Scale(factor int) (*ImageBuf, error) {
	if factor < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidScale, factor)
	}
	if factor > MaxDimension/max(b.width, b.height) {
		return nil, fmt.Errorf("%w: %dx%d scaled by %d", ErrTooLarge, b.width, b.height, factor)
	}
	if factor == 1 {
		return b.Clone(), nil
	}

	src := b.ToStdImage()
	dr := image.Rect(0, 0, b.width*factor, b.height*factor)

	var dst draw.Image
	if b.format == FormatGray8 {
		dst = image.NewGray(dr)
	} else {
		dst = image.NewNRGBA(dr)
	}
	draw.NearestNeighbor.Scale(dst, dr, src, src.Bounds(), draw.Src, nil)

	out := FromStdImage(dst)
	if b.format == FormatRGBA8 {
		rgba, err := FromRaw(out.ExpandRGBA(), out.width, out.height, FormatRGBA8)
		if err != nil {
			return nil, err
		}
		return rgba, nil
	}
	return out, nil
}

// Decode reads a PNG or BMP image.
func Decode(r io.Reader) (*ImageBuf, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("image: decode: %w", err)
	}
	return FromStdImage(img), nil
}

// EncodePNG encodes the image as PNG to the given writer.
func (b *ImageBuf) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode PNG: %w", err)
	}
	return nil
}

// EncodeBMP encodes the image as BMP to the given writer.
func (b *ImageBuf) EncodeBMP(w io.Writer) error {
	if err := bmp.Encode(w, b.ToStdImage()); err != nil {
		return fmt.Errorf("image: encode BMP: %w", err)
	}
	return nil
}

// Save writes the image to path, choosing the encoding from the extension.
// Supported extensions: .png, .bmp.
func (b *ImageBuf) Save(path string) error {
	var encode func(io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		encode = b.EncodePNG
	case ".bmp":
		encode = b.EncodeBMP
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("image: create file: %w", err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
