// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hud

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/overlay"
)

// Common errors returned by HUD operations.
var (
	// ErrClosed is returned when operations are attempted on a closed HUD.
	ErrClosed = errors.New("hud: HUD is closed")

	// ErrInvalidDimensions is returned when width or height is invalid.
	ErrInvalidDimensions = errors.New("hud: invalid dimensions")

	// ErrNilDrawer is returned when a nil draw context is passed.
	ErrNilDrawer = errors.New("hud: nil draw context")

	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures.
	ErrNoTextureCreator = errors.New("hud: draw context cannot create textures")
)

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// HUD owns an overlay.Overlay and manages the CPU-to-GPU pipeline that
// puts it on screen.
//
// HUD is NOT safe for concurrent use. Drive it from the frame loop, or
// use external synchronization.
type HUD struct {
	ov          *overlay.Overlay
	drawer      gpucontext.TextureDrawer
	img         *image.RGBA
	texture     any  // Lazy-created texture (*gogpu.Texture)
	oldTexture  any  // Previous texture awaiting deferred destruction
	dirty       bool // Needs raster and GPU upload
	sizeChanged bool // Resize pending, texture must be recreated
	width       int
	height      int
	closed      bool
}

// New creates a HUD of the given size in pixels, drawing through dc.
// The dc parameter should be obtained from gogpu.Context.AsTextureDrawer().
//
// The overlay uses the built-in font and default style; use Overlay() to
// access and configure it.
//
// Returns error if dc is nil or dimensions are invalid.
func New(dc gpucontext.TextureDrawer, width, height int) (*HUD, error) {
	if dc == nil {
		return nil, ErrNilDrawer
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}

	return &HUD{
		ov:     overlay.NewOverlay(overlay.DefaultFont()),
		drawer: dc,
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}, nil
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (e.g., hardcoded dimensions).
func MustNew(dc gpucontext.TextureDrawer, width, height int) *HUD {
	h, err := New(dc, width, height)
	if err != nil {
		panic(err)
	}
	return h
}

// Overlay returns the wrapped overlay for direct access, for example to
// adjust its Style. When driving it manually (BeginFrame/Finish), call
// MarkDirty() afterwards so Present uploads the result.
//
// Returns nil if the HUD is closed.
func (h *HUD) Overlay() *overlay.Overlay {
	if h.closed {
		return nil
	}
	return h.ov
}

// Width returns the HUD width in pixels.
func (h *HUD) Width() int {
	return h.width
}

// Height returns the HUD height in pixels.
func (h *HUD) Height() int {
	return h.height
}

// Size returns width and height as a convenience.
func (h *HUD) Size() (width, height int) {
	return h.width, h.height
}

// MarkDirty flags the HUD for raster and GPU upload on next Present().
// Frame sets this automatically.
func (h *HUD) MarkDirty() {
	h.dirty = true
}

// IsDirty returns true if the HUD has pending changes that need to be
// uploaded to the GPU.
func (h *HUD) IsDirty() bool {
	return h.dirty
}

// Frame runs one overlay frame: fn lays out items between BeginFrame and
// Finish, and the result is flagged for upload on the next Present.
// This is the recommended way to update HUD content.
func (h *HUD) Frame(fn func(*overlay.Overlay)) error {
	if h.closed {
		return ErrClosed
	}
	h.ov.BeginFrame()
	fn(h.ov)
	h.ov.Finish()
	h.dirty = true
	return nil
}

// Resize changes HUD dimensions.
// This reallocates the raster buffer and recreates the GPU texture on
// the next Present. Resizing to the current size is a no-op.
//
// Returns error if dimensions are invalid or the HUD is closed.
func (h *HUD) Resize(width, height int) error {
	if h.closed {
		return ErrClosed
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if h.width == width && h.height == height {
		return nil
	}

	h.img = image.NewRGBA(image.Rect(0, 0, width, height))
	h.width = width
	h.height = height
	h.sizeChanged = true
	h.dirty = true
	return nil
}

// Present uploads the overlay to its GPU texture if it changed since the
// last call, then draws the texture at (x, y) in target pixels. Call it
// after drawing the scene so the HUD composites on top.
//
// Returns error if the HUD is closed or texture creation, upload, or
// drawing fails.
func (h *HUD) Present(x, y float32) error {
	if h.closed {
		return ErrClosed
	}
	if err := h.flush(); err != nil {
		return err
	}

	gpuTex, ok := h.texture.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("hud: texture %T is not a gpucontext.Texture", h.texture)
	}
	return h.drawer.DrawTexture(gpuTex, x, y)
}

// Texture returns the current GPU texture without flushing.
// Returns nil if the texture hasn't been created yet.
func (h *HUD) Texture() any {
	return h.texture
}

// flush rasterizes the overlay and uploads it, creating the texture on
// first use. Clean frames with a live texture return immediately.
func (h *HUD) flush() error {
	if h.sizeChanged {
		h.retireTexture()
	}

	if !h.dirty && h.texture != nil {
		return nil
	}

	h.rasterize()

	if h.texture == nil {
		creator := h.drawer.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}

		// NewTextureFromRGBA waits for the GPU internally, so once it
		// returns the retired texture can no longer be in flight.
		tex, err := creator.NewTextureFromRGBA(h.width, h.height, h.img.Pix)
		if err != nil {
			return fmt.Errorf("hud: create texture: %w", err)
		}

		// Rasterized pixels carry premultiplied alpha. Mark the texture
		// accordingly so the renderer composites with BlendFactorOne.
		if pt, ok := tex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}

		h.texture = tex
		h.destroyRetired()
		h.dirty = false
		return nil
	}

	if updater, ok := h.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(h.img.Pix); err != nil {
			return fmt.Errorf("hud: update texture: %w", err)
		}
	}
	h.dirty = false
	return nil
}

// rasterize redraws the current overlay geometry into the backing image.
func (h *HUD) rasterize() {
	clear(h.img.Pix)
	overlay.Rasterize(h.ov.Geometry(), h.img)
}

// retireTexture parks the current texture for deferred destruction
// instead of destroying it: in-flight GPU command buffers may still
// reference it. It is destroyed after the replacement's upload has
// waited for the GPU.
func (h *HUD) retireTexture() {
	if h.texture != nil {
		h.destroyRetired()
		h.oldTexture = h.texture
		h.texture = nil
	}
	h.sizeChanged = false
}

// destroyRetired destroys the texture retired by a resize, if any.
func (h *HUD) destroyRetired() {
	if h.oldTexture == nil {
		return
	}
	if destroyer, ok := h.oldTexture.(textureDestroyer); ok {
		destroyer.Destroy()
	}
	h.oldTexture = nil
}

// Close releases all resources associated with the HUD.
// After Close, the HUD should not be used.
// Close is idempotent - multiple calls are safe.
func (h *HUD) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	h.destroyRetired()
	if h.texture != nil {
		if destroyer, ok := h.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		h.texture = nil
	}

	h.drawer = nil
	return nil
}
