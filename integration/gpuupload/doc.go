// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpuupload keeps a GPU texture in sync with a qrtexture.Texture.
//
// The data flow is:
//
//	qrtexture.Texture (publish) -> Uploader (dirty) -> GPU Texture -> Window
//
// # Architecture
//
// Uploader subscribes to the texture's change notifications and tracks
// whether the GPU copy is stale:
//
//   - a published buffer of the same size is uploaded in place
//   - a size change recreates the GPU texture on the next RenderTo
//   - a flags-only change leaves the pixels alone; Sampler reflects it
//
// The qrtexture core owns the pixel buffer; the Uploader owns the GPU
// texture and destroys it on resize and Close.
//
// # Usage
//
//	up, err := gpuupload.New(app.GPUContextProvider(), tex)
//	if err != nil { ... }
//	defer up.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    up.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Thread Safety
//
// Uploader is NOT safe for concurrent use. Use it on the goroutine that
// owns the texture.
//
// # Pixel Layout
//
// Texture creators accept RGBA only, so Gray8 and RGB8 buffers are expanded
// to opaque RGBA before upload.
package gpuupload
