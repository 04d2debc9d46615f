// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpuupload

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/qrtexture"
)

// Common errors returned by Uploader operations.
var (
	// ErrClosed is returned when operations are attempted on a closed Uploader.
	ErrClosed = errors.New("gpuupload: uploader is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("gpuupload: nil DeviceProvider")

	// ErrNilTexture is returned when a nil texture is passed.
	ErrNilTexture = errors.New("gpuupload: nil texture")

	// ErrEmpty is returned when the texture has not published a buffer yet.
	ErrEmpty = errors.New("gpuupload: texture has no published buffer")

	// ErrInvalidRenderer is returned when the drawer has no TextureCreator.
	ErrInvalidRenderer = errors.New("gpuupload: drawer has no TextureCreator")
)

// textureDestroyer matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Uploader mirrors a qrtexture.Texture into a GPU texture.
type Uploader struct {
	tex         *qrtexture.Texture
	provider    gpucontext.DeviceProvider
	unsubscribe func()

	texture     gpucontext.Texture // created lazily in RenderTo
	oldTexture  gpucontext.Texture // previous texture awaiting destruction
	pending     *pendingTexture
	dirty       bool // needs upload
	sizeChanged bool // texture must be recreated
	version     uint64
	width       int
	height      int

	uploads int
	creates int
	closed  bool
}

// New attaches an Uploader to tex. The first RenderTo creates the GPU
// texture.
func New(provider gpucontext.DeviceProvider, tex *qrtexture.Texture) (*Uploader, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if tex == nil {
		return nil, ErrNilTexture
	}

	u := &Uploader{
		tex:      tex,
		provider: provider,
		dirty:    true,
		version:  tex.Version(),
		width:    tex.Width(),
		height:   tex.Height(),
	}
	u.unsubscribe = tex.Subscribe(u.onChange)

	info := provider.AdapterInfo()
	qrtexture.Logger().Debug("gpuupload: attached",
		"rid", tex.RID(),
		"adapter", info.Name,
		"surface_format", provider.SurfaceFormat(),
	)
	return u, nil
}

// onChange runs on every published change of the texture.
func (u *Uploader) onChange(tex *qrtexture.Texture) {
	if tex.Version() == u.version {
		// Flags only; pixels are unchanged.
		return
	}
	u.version = tex.Version()
	if tex.Width() != u.width || tex.Height() != u.height {
		u.width, u.height = tex.Width(), tex.Height()
		u.sizeChanged = true
	}
	u.dirty = true
}

// IsDirty reports whether the GPU copy is stale.
func (u *Uploader) IsDirty() bool {
	return u.dirty
}

// Size returns the size of the buffer the next upload will use.
func (u *Uploader) Size() (width, height int) {
	return u.width, u.height
}

// Stats returns how many in-place uploads and texture creations happened.
func (u *Uploader) Stats() (uploads, creates int) {
	return u.uploads, u.creates
}

// Descriptor describes the GPU texture for hosts that allocate their own.
func (u *Uploader) Descriptor() gputypes.TextureDescriptor {
	return u.tex.TextureDescriptor()
}

// Sampler describes how to sample the texture given its current flags.
func (u *Uploader) Sampler() gputypes.SamplerDescriptor {
	return u.tex.Flags().SamplerDescriptor()
}

// Flush uploads the published buffer if it changed since the last upload.
// It returns the GPU texture, or a placeholder when the texture must be
// (re)created by RenderTo.
func (u *Uploader) Flush() (any, error) {
	if u.closed {
		return nil, ErrClosed
	}
	if u.width == 0 || u.height == 0 {
		return nil, ErrEmpty
	}

	// The old texture may still be referenced by in-flight command buffers;
	// it is destroyed in RenderTo once the replacement has been written.
	if u.sizeChanged {
		if u.texture != nil {
			u.destroyOld()
			u.oldTexture = u.texture
			u.texture = nil
		}
		u.sizeChanged = false
	}

	if !u.dirty {
		if u.texture != nil {
			return u.texture, nil
		}
		if u.pending != nil {
			return u.pending, nil
		}
	}

	data := u.tex.RGBA()
	if u.texture == nil {
		u.pending = &pendingTexture{width: u.width, height: u.height, data: data}
		u.dirty = false
		return u.pending, nil
	}

	if updater, ok := u.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(data); err != nil {
			return nil, fmt.Errorf("gpuupload: texture update failed: %w", err)
		}
		u.uploads++
	} else {
		// Immutable texture: recreate it with the new data.
		u.destroyOld()
		u.oldTexture = u.texture
		u.texture = nil
		u.pending = &pendingTexture{width: u.width, height: u.height, data: data}
		u.dirty = false
		return u.pending, nil
	}
	u.dirty = false
	return u.texture, nil
}

// RenderTo uploads if needed and draws the texture at (0, 0).
func (u *Uploader) RenderTo(dc gpucontext.TextureDrawer) error {
	return u.RenderToPosition(dc, 0, 0)
}

// RenderToPosition uploads if needed and draws the texture at (x, y).
func (u *Uploader) RenderToPosition(dc gpucontext.TextureDrawer, x, y float32) error {
	if u.closed {
		return ErrClosed
	}
	tex, err := u.Flush()
	if err != nil {
		return err
	}

	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrInvalidRenderer
		}
		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("gpuupload: NewTextureFromRGBA failed: %w", err)
		}
		u.texture = realTex
		u.pending = nil
		u.creates++
		u.destroyOld()
		tex = realTex

		qrtexture.Logger().Debug("gpuupload: texture created",
			"rid", u.tex.RID(), "width", pending.width, "height", pending.height)
	}

	return dc.DrawTexture(tex.(gpucontext.Texture), x, y)
}

// Texture returns the current GPU texture without flushing, or nil.
func (u *Uploader) Texture() gpucontext.Texture {
	return u.texture
}

// Provider returns the DeviceProvider, or nil once closed.
func (u *Uploader) Provider() gpucontext.DeviceProvider {
	if u.closed {
		return nil
	}
	return u.provider
}

// Close unsubscribes from the texture and destroys GPU textures.
// Close is idempotent.
func (u *Uploader) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.unsubscribe()
	u.destroyOld()
	if d, ok := u.texture.(textureDestroyer); ok {
		d.Destroy()
	}
	u.texture = nil
	u.pending = nil
	u.provider = nil
	return nil
}

func (u *Uploader) destroyOld() {
	if d, ok := u.oldTexture.(textureDestroyer); ok {
		d.Destroy()
	}
	u.oldTexture = nil
}

// pendingTexture holds the data for a texture RenderTo has yet to create.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}
