// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hud

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/overlay"
)

// mockTexture implements the texture update and destroy interfaces for
// exercising the upload pipeline without a GPU.
type mockTexture struct {
	updates   int
	destroys  int
	updateErr error
	lastData  []byte
}

func (m *mockTexture) UpdateData(data []byte) error {
	m.updates++
	m.lastData = data
	return m.updateErr
}

func (m *mockTexture) Destroy() {
	m.destroys++
}

// newTestHUD builds a HUD without a draw context, for paths that never
// reach the GPU.
func newTestHUD(width, height int) *HUD {
	return &HUD{
		ov:     overlay.NewOverlay(overlay.DefaultFont()),
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		width:  width,
		height: height,
	}
}

func anyNonZero(p []byte) bool {
	for _, b := range p {
		if b != 0 {
			return true
		}
	}
	return false
}

func TestNewNilDrawer(t *testing.T) {
	if _, err := New(nil, 64, 64); !errors.Is(err, ErrNilDrawer) {
		t.Fatalf("New(nil, ...) error = %v, want ErrNilDrawer", err)
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustNew(nil, ...) did not panic")
		}
	}()
	MustNew(nil, 64, 64)
}

func TestFrameMarksDirty(t *testing.T) {
	h := newTestHUD(64, 32)

	err := h.Frame(func(ov *overlay.Overlay) {
		ov.DrawItem(overlay.Label("abc"))
		ov.EndGroup()
	})
	if err != nil {
		t.Fatalf("Frame: %v", err)
	}
	if !h.IsDirty() {
		t.Error("HUD not dirty after Frame")
	}
	if len(h.ov.Geometry().Vertices()) == 0 {
		t.Error("no geometry after Frame")
	}
}

func TestRasterizeClearsPreviousFrame(t *testing.T) {
	h := newTestHUD(64, 32)

	_ = h.Frame(func(ov *overlay.Overlay) {
		ov.DrawItem(overlay.Label("abc"))
		ov.EndGroup()
	})
	h.rasterize()
	if !anyNonZero(h.img.Pix) {
		t.Fatal("image empty after rasterizing a frame with content")
	}

	_ = h.Frame(func(ov *overlay.Overlay) {})
	h.rasterize()
	if anyNonZero(h.img.Pix) {
		t.Error("image not cleared after rasterizing an empty frame")
	}
}

func TestResize(t *testing.T) {
	h := newTestHUD(10, 10)

	if err := h.Resize(20, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if w, ht := h.Size(); w != 20 || ht != 30 {
		t.Errorf("Size() = %dx%d, want 20x30", w, ht)
	}
	if b := h.img.Bounds(); b.Dx() != 20 || b.Dy() != 30 {
		t.Errorf("image bounds = %v, want 20x30", b)
	}
	if !h.dirty || !h.sizeChanged {
		t.Error("Resize did not flag dirty and sizeChanged")
	}
}

func TestResizeSameSizeIsNoOp(t *testing.T) {
	h := newTestHUD(10, 10)

	if err := h.Resize(10, 10); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if h.dirty || h.sizeChanged {
		t.Error("same-size Resize flagged work")
	}
}

func TestResizeInvalidDimensions(t *testing.T) {
	h := newTestHUD(10, 10)

	for _, dims := range [][2]int{{0, 10}, {10, 0}, {-1, 5}} {
		if err := h.Resize(dims[0], dims[1]); !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("Resize(%d, %d) error = %v, want ErrInvalidDimensions",
				dims[0], dims[1], err)
		}
	}
}

func TestRetireTextureDefersDestruction(t *testing.T) {
	h := newTestHUD(10, 10)
	first := &mockTexture{}
	h.texture = first
	h.sizeChanged = true

	h.retireTexture()

	if h.texture != nil {
		t.Error("texture still live after retire")
	}
	if h.oldTexture != first {
		t.Error("texture not parked for deferred destruction")
	}
	if first.destroys != 0 {
		t.Error("retired texture destroyed immediately")
	}
	if h.sizeChanged {
		t.Error("sizeChanged still set after retire")
	}

	// Retiring again destroys the previously parked texture first.
	second := &mockTexture{}
	h.texture = second
	h.retireTexture()

	if first.destroys != 1 {
		t.Errorf("previously parked texture destroys = %d, want 1", first.destroys)
	}
	if h.oldTexture != second {
		t.Error("second texture not parked")
	}
}

func TestFlushUpdatesDirtyTexture(t *testing.T) {
	h := newTestHUD(16, 16)
	_ = h.Frame(func(ov *overlay.Overlay) {
		ov.DrawItem(overlay.Label("x"))
		ov.EndGroup()
	})

	tex := &mockTexture{}
	h.texture = tex

	if err := h.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if tex.updates != 1 {
		t.Errorf("texture updates = %d, want 1", tex.updates)
	}
	if len(tex.lastData) != len(h.img.Pix) {
		t.Errorf("uploaded %d bytes, want %d", len(tex.lastData), len(h.img.Pix))
	}
	if h.IsDirty() {
		t.Error("HUD still dirty after upload")
	}
}

func TestFlushSkipsCleanFrames(t *testing.T) {
	h := newTestHUD(16, 16)
	tex := &mockTexture{}
	h.texture = tex

	if err := h.flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if tex.updates != 0 {
		t.Errorf("clean frame uploaded %d times, want 0", tex.updates)
	}
}

func TestFlushPropagatesUpdateError(t *testing.T) {
	h := newTestHUD(8, 8)
	h.MarkDirty()
	tex := &mockTexture{updateErr: errors.New("device lost")}
	h.texture = tex

	if err := h.flush(); !errors.Is(err, tex.updateErr) {
		t.Fatalf("flush error = %v, want wrapped update error", err)
	}
}

func TestCloseDestroysTextures(t *testing.T) {
	h := newTestHUD(8, 8)
	live := &mockTexture{}
	parked := &mockTexture{}
	h.texture = live
	h.oldTexture = parked

	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if live.destroys != 1 || parked.destroys != 1 {
		t.Errorf("destroys = %d/%d, want 1/1", live.destroys, parked.destroys)
	}

	if err := h.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if live.destroys != 1 {
		t.Error("second Close destroyed textures again")
	}
}

func TestClosedOperations(t *testing.T) {
	h := newTestHUD(8, 8)
	_ = h.Close()

	if err := h.Frame(func(*overlay.Overlay) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Frame on closed HUD: %v, want ErrClosed", err)
	}
	if err := h.Resize(4, 4); !errors.Is(err, ErrClosed) {
		t.Errorf("Resize on closed HUD: %v, want ErrClosed", err)
	}
	if err := h.Present(0, 0); !errors.Is(err, ErrClosed) {
		t.Errorf("Present on closed HUD: %v, want ErrClosed", err)
	}
	if h.Overlay() != nil {
		t.Error("Overlay() on closed HUD is not nil")
	}
}
