// Package wgpu renders overlay geometry through the gogpu HAL.
//
// The renderer owns one render pipeline, the glyph atlas texture, and a
// pair of grow-only vertex/index buffers. A frame is drawn in two phases:
//
//	r.Prepare(width, height, geo) // outside the render pass: buffer uploads
//	r.Record(pass)                // inside the render pass: one draw per layer
//
// Prepare serializes the geometry and writes buffers and uniforms through
// the queue. Record only binds state and issues indexed draws, so it may
// be called between BeginRenderPass and EndRenderPass on a command encoder
// the caller owns. Layers draw in ascending order with premultiplied-alpha
// source-over blending; the overlay never touches depth or stencil.
package wgpu
