package qrtexture

import "github.com/gogpu/gputypes"

// Flags control how the host samples the texture. They never affect the
// pixel buffer itself.
type Flags uint32

const (
	// FlagMipmaps requests mipmap generation and trilinear sampling.
	FlagMipmaps Flags = 1 << iota
	// FlagRepeat wraps texture coordinates instead of clamping them.
	FlagRepeat
	// FlagFilter enables linear magnification and minification.
	FlagFilter

	// FlagsDefault is the value a new Texture starts with.
	FlagsDefault = FlagMipmaps | FlagRepeat | FlagFilter
)

// Has reports whether all bits of f2 are set in f.
func (f Flags) Has(f2 Flags) bool {
	return f&f2 == f2
}

// SamplerDescriptor maps the flags to a sampler a host can create.
func (f Flags) SamplerDescriptor() gputypes.SamplerDescriptor {
	desc := gputypes.SamplerDescriptor{
		Label:        "qrtexture",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeNearest,
		MinFilter:    gputypes.FilterModeNearest,
		MipmapFilter: gputypes.MipmapFilterModeNearest,
		LodMinClamp:  0,
		LodMaxClamp:  0,
	}
	if f.Has(FlagRepeat) {
		desc.AddressModeU = gputypes.AddressModeRepeat
		desc.AddressModeV = gputypes.AddressModeRepeat
		desc.AddressModeW = gputypes.AddressModeRepeat
	}
	if f.Has(FlagFilter) {
		desc.MagFilter = gputypes.FilterModeLinear
		desc.MinFilter = gputypes.FilterModeLinear
	}
	if f.Has(FlagMipmaps) {
		desc.MipmapFilter = gputypes.MipmapFilterModeLinear
		desc.LodMaxClamp = 32
	}
	return desc
}

// MipLevelCount returns the number of mip levels for a side of size pixels.
// Without FlagMipmaps it is always 1.
func (f Flags) MipLevelCount(size int) uint32 {
	if !f.Has(FlagMipmaps) || size <= 1 {
		return 1
	}
	n := uint32(1)
	for size > 1 {
		size /= 2
		n++
	}
	return n
}
