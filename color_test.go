package qrtexture

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#ff0080", "#ff0080", false},
		{"FF0080", "#ff0080", false},
		{" #abc ", "#aabbcc", false},
		{"000", "#000000", false},
		{"", "", true},
		{"#12345", "", true},
		{"#gg0000", "", true},
		{"#1234567", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("ParseColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseColor(%q) error = %v", tt.in, err)
			}
			if c.Hex() != tt.want {
				t.Errorf("ParseColor(%q).Hex() = %s, want %s", tt.in, c.Hex(), tt.want)
			}
		})
	}
}

func TestColorConversions(t *testing.T) {
	c := RGB8(0x12, 0x34, 0x56)
	if r, g, b := c.RGB255(); r != 0x12 || g != 0x34 || b != 0x56 {
		t.Errorf("RGB255() = %x %x %x", r, g, b)
	}
	if got := c.NRGBA(); got != (color.NRGBA{0x12, 0x34, 0x56, 0xff}) {
		t.Errorf("NRGBA() = %v", got)
	}
	if got := FromColor(color.NRGBA{0x12, 0x34, 0x56, 0xff}); got.Hex() != c.Hex() {
		t.Errorf("FromColor() = %s, want %s", got.Hex(), c.Hex())
	}
	if gpu := White.GPU(); gpu.R != 1 || gpu.G != 1 || gpu.B != 1 || gpu.A != 1 {
		t.Errorf("White.GPU() = %+v", gpu)
	}
	if p := RGB(2, -1, 0.5).pixel(); p[0] != 255 || p[1] != 0 {
		t.Errorf("out-of-range components not clamped: %v", p)
	}
}

func TestColorText(t *testing.T) {
	var c Color
	if err := c.UnmarshalText([]byte("#00ff00")); err != nil {
		t.Fatal(err)
	}
	b, err := c.MarshalText()
	if err != nil || string(b) != "#00ff00" {
		t.Errorf("MarshalText() = %s, %v", b, err)
	}
	if err := c.UnmarshalText([]byte("green")); !errors.Is(err, ErrInvalidColor) {
		t.Errorf("UnmarshalText(green) error = %v, want ErrInvalidColor", err)
	}
}
