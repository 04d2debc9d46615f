package image

import (
	"errors"
	"testing"
)

func TestNewImageBuf(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		format  Format
		wantErr error
	}{
		{"gray", 25, 25, FormatGray8, nil},
		{"rgb", 1, 1, FormatRGB8, nil},
		{"zero width", 0, 10, FormatGray8, ErrInvalidDimensions},
		{"negative height", 10, -1, FormatRGB8, ErrInvalidDimensions},
		{"bad format", 10, 10, Format(99), ErrInvalidFormat},
		{"largest", MaxDimension, 1, FormatRGBA8, nil},
		{"too wide", MaxDimension + 1, 1, FormatGray8, ErrTooLarge},
		{"overflowing product", 1 << 61, 1 << 61, FormatRGB8, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := NewImageBuf(tt.width, tt.height, tt.format)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewImageBuf() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewImageBuf() unexpected error = %v", err)
			}
			if got, want := buf.ByteSize(), tt.format.ImageBytes(tt.width, tt.height); got != want {
				t.Errorf("ByteSize() = %d, want %d", got, want)
			}
			if !buf.Matches(tt.width, tt.height, tt.format) {
				t.Error("Matches() = false for own geometry")
			}
		})
	}
}

func TestImageBuf_SetAt(t *testing.T) {
	rgb, _ := NewImageBuf(4, 4, FormatRGB8)
	red := Pixel{255, 0, 0}
	if err := rgb.Set(2, 3, red); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got := rgb.At(2, 3); got != red {
		t.Errorf("At(2, 3) = %v, want %v", got, red)
	}
	if err := rgb.Set(4, 0, red); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Set(4, 0) error = %v, want ErrOutOfBounds", err)
	}

	gray, _ := NewImageBuf(2, 2, FormatGray8)
	_ = gray.Set(0, 0, White)
	_ = gray.Set(1, 0, Black)
	if got := gray.PixelBytes(0, 0)[0]; got != 255 {
		t.Errorf("white luminance = %d, want 255", got)
	}
	if got := gray.PixelBytes(1, 0)[0]; got != 0 {
		t.Errorf("black luminance = %d, want 0", got)
	}
	if got := gray.At(0, 0); got != White {
		t.Errorf("gray At(0, 0) = %v, want %v", got, White)
	}
}

func TestImageBuf_FillRect(t *testing.T) {
	buf, _ := NewImageBuf(5, 5, FormatRGB8)
	blue := Pixel{0, 0, 255}

	tests := []struct {
		name string
		rect Rect
		want int
	}{
		{"inside", Rect{1, 1, 3, 4}, 6},
		{"empty", Rect{2, 2, 2, 4}, 0},
		{"clipped", Rect{-2, -2, 2, 1}, 2},
		{"outside", Rect{5, 5, 8, 8}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buf.FillRect(tt.rect, blue); got != tt.want {
				t.Errorf("FillRect(%v) = %d, want %d", tt.rect, got, tt.want)
			}
		})
	}

	if got := buf.At(2, 3); got != blue {
		t.Errorf("At(2, 3) = %v, want %v", got, blue)
	}
	if got := buf.At(4, 4); got != (Pixel{}) {
		t.Errorf("At(4, 4) = %v, want zero", got)
	}
}

func TestImageBuf_CloneEqual(t *testing.T) {
	buf, _ := NewImageBuf(3, 3, FormatRGB8)
	buf.FillRect(Rect{X1: 3, Y1: 3}, Pixel{10, 20, 30})

	clone := buf.Clone()
	if !buf.Equal(clone) {
		t.Fatal("Clone() not Equal to original")
	}
	_ = clone.Set(0, 0, Black)
	if buf.Equal(clone) {
		t.Error("Equal() = true after modifying clone")
	}
	if buf.At(0, 0) == Black {
		t.Error("modifying clone changed original")
	}
}

func TestImageBuf_ExpandRGBA(t *testing.T) {
	gray, _ := NewImageBuf(2, 1, FormatGray8)
	_ = gray.Set(0, 0, White)

	got := gray.ExpandRGBA()
	want := []byte{255, 255, 255, 255, 0, 0, 0, 255}
	if string(got) != string(want) {
		t.Errorf("ExpandRGBA() = %v, want %v", got, want)
	}

	rgb, _ := NewImageBuf(1, 1, FormatRGB8)
	_ = rgb.Set(0, 0, Pixel{1, 2, 3})
	if got := rgb.ExpandRGBA(); string(got) != string([]byte{1, 2, 3, 255}) {
		t.Errorf("RGB ExpandRGBA() = %v", got)
	}
}

func TestFromRaw(t *testing.T) {
	if _, err := FromRaw(make([]byte, 5), 2, 1, FormatRGB8); !errors.Is(err, ErrDataTooSmall) {
		t.Errorf("FromRaw() error = %v, want ErrDataTooSmall", err)
	}
	buf, err := FromRaw(make([]byte, 8), 2, 2, FormatGray8)
	if err != nil {
		t.Fatalf("FromRaw() error = %v", err)
	}
	if buf.ByteSize() != 4 {
		t.Errorf("ByteSize() = %d, want 4", buf.ByteSize())
	}
}
