package image

import (
	"bytes"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
)

func checkerboard(t *testing.T, format Format) *ImageBuf {
	t.Helper()
	buf, err := NewImageBuf(4, 4, format)
	if err != nil {
		t.Fatalf("NewImageBuf() error = %v", err)
	}
	for y := range 4 {
		for x := range 4 {
			p := White
			if (x+y)%2 == 0 {
				p = Pixel{200, 0, 0}
				if format == FormatGray8 {
					p = Black
				}
			}
			_ = buf.Set(x, y, p)
		}
	}
	return buf
}

func TestToStdImage(t *testing.T) {
	gray := checkerboard(t, FormatGray8)
	if _, ok := gray.ToStdImage().(*image.Gray); !ok {
		t.Errorf("Gray8 ToStdImage() = %T, want *image.Gray", gray.ToStdImage())
	}

	rgb := checkerboard(t, FormatRGB8)
	img, ok := rgb.ToStdImage().(*image.NRGBA)
	if !ok {
		t.Fatalf("RGB8 ToStdImage() = %T, want *image.NRGBA", rgb.ToStdImage())
	}
	c := img.NRGBAAt(0, 0)
	if c.R != 200 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("NRGBAAt(0, 0) = %v, want {200 0 0 255}", c)
	}
}

func TestPNGRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatGray8, FormatRGB8} {
		t.Run(format.String(), func(t *testing.T) {
			buf := checkerboard(t, format)

			var out bytes.Buffer
			if err := buf.EncodePNG(&out); err != nil {
				t.Fatalf("EncodePNG() error = %v", err)
			}
			got, err := Decode(&out)
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if !got.Equal(buf) {
				t.Error("decoded PNG differs from source buffer")
			}
		})
	}
}

func TestScale(t *testing.T) {
	buf := checkerboard(t, FormatRGB8)

	scaled, err := buf.Scale(3)
	if err != nil {
		t.Fatalf("Scale(3) error = %v", err)
	}
	if w, h := scaled.Width(), scaled.Height(); w != 12 || h != 12 {
		t.Fatalf("Scale(3) bounds = %dx%d, want 12x12", w, h)
	}
	for y := range 12 {
		for x := range 12 {
			if got, want := scaled.At(x, y), buf.At(x/3, y/3); got != want {
				t.Fatalf("scaled At(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	if _, err := buf.Scale(0); !errors.Is(err, ErrInvalidScale) {
		t.Errorf("Scale(0) error = %v, want ErrInvalidScale", err)
	}
	if _, err := buf.Scale(1 << 60); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Scale(1<<60) error = %v, want ErrTooLarge", err)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	buf := checkerboard(t, FormatGray8)

	for _, name := range []string{"out.png", "out.bmp"} {
		path := filepath.Join(dir, name)
		if err := buf.Save(path); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		f, err := os.Open(path)
		if err != nil {
			t.Fatal(err)
		}
		got, err := Decode(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("Decode(%s) error = %v", name, err)
		}
		if w, h := got.Width(), got.Height(); w != 4 || h != 4 {
			t.Errorf("%s bounds = %dx%d, want 4x4", name, w, h)
		}
	}

	if err := buf.Save(filepath.Join(dir, "out.gif")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Save(.gif) error = %v, want ErrUnsupportedFormat", err)
	}
}
