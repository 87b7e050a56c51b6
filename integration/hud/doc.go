// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hud presents a debug overlay inside gogpu GPU-accelerated
// windows.
//
// This package lets applications composite live counter readouts, tables,
// and history graphs over their scene by managing the CPU-to-GPU pipeline
// automatically. The data flow is:
//
//	overlay.Overlay (layout) -> image.RGBA (CPU raster) -> GPU Texture -> Window
//
// # Architecture
//
// HUD wraps an overlay.Overlay and manages the texture upload pipeline:
//
//   - Frame() lays out one overlay frame through the callback
//   - Present() uploads changed pixels and draws the texture to the window
//
// # Usage
//
// Basic usage with gogpu:
//
//	h := hud.MustNew(dc.AsTextureDrawer(), 360, 240)
//	defer h.Close()
//
//	h.Frame(func(ov *overlay.Overlay) {
//	    ov.DrawItem(overlay.Label("frame 1.6 ms"))
//	    ov.EndGroup()
//	})
//	h.Present(16, 16)
//
// Render loops that own a hal device directly can draw the same overlay
// with the wgpu package instead, skipping the CPU raster step.
//
// # Thread Safety
//
// HUD is NOT safe for concurrent use. Drive it from the frame loop, or
// use external synchronization.
//
// # Performance Notes
//
//   - The GPU texture is created lazily on first Present()
//   - Dirty tracking skips rasterization and uploads for unchanged frames
//   - Size the HUD to the overlay's extent, not the whole window
package hud
