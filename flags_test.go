package qrtexture

import (
	"testing"

	"github.com/gogpu/gputypes"
)

func TestFlagsSamplerDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		address gputypes.AddressMode
		filter  gputypes.FilterMode
		mipmap  gputypes.MipmapFilterMode
	}{
		{"none", 0, gputypes.AddressModeClampToEdge, gputypes.FilterModeNearest, gputypes.MipmapFilterModeNearest},
		{"repeat", FlagRepeat, gputypes.AddressModeRepeat, gputypes.FilterModeNearest, gputypes.MipmapFilterModeNearest},
		{"filter", FlagFilter, gputypes.AddressModeClampToEdge, gputypes.FilterModeLinear, gputypes.MipmapFilterModeNearest},
		{"default", FlagsDefault, gputypes.AddressModeRepeat, gputypes.FilterModeLinear, gputypes.MipmapFilterModeLinear},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := tt.flags.SamplerDescriptor()
			if d.AddressModeU != tt.address || d.AddressModeV != tt.address {
				t.Errorf("address = %v/%v, want %v", d.AddressModeU, d.AddressModeV, tt.address)
			}
			if d.MagFilter != tt.filter || d.MinFilter != tt.filter {
				t.Errorf("filter = %v/%v, want %v", d.MagFilter, d.MinFilter, tt.filter)
			}
			if d.MipmapFilter != tt.mipmap {
				t.Errorf("mipmap = %v, want %v", d.MipmapFilter, tt.mipmap)
			}
		})
	}
}

func TestFlagsMipLevelCount(t *testing.T) {
	tests := []struct {
		flags Flags
		size  int
		want  uint32
	}{
		{0, 256, 1},
		{FlagMipmaps, 1, 1},
		{FlagMipmaps, 2, 2},
		{FlagMipmaps, 25, 5},
		{FlagMipmaps, 256, 9},
	}
	for _, tt := range tests {
		if got := tt.flags.MipLevelCount(tt.size); got != tt.want {
			t.Errorf("Flags(%d).MipLevelCount(%d) = %d, want %d", tt.flags, tt.size, got, tt.want)
		}
	}
}
