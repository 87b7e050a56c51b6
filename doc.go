// Package overlay provides a real-time debug overlay engine for the GoGPU
// ecosystem: windowed counter statistics plus an immediate-mode layout and
// tessellation pipeline that turns them into renderable geometry.
//
// # Overview
//
// Applications register named groups of counters once at startup, feed them
// samples every frame, and draw widgets (labels, bar graphs, tables) through
// an immediate-mode layout engine. The engine emits layer-separated
// vertex/index buffers that a renderer consumes: [github.com/gogpu/overlay/wgpu]
// uploads and draws them on the GPU, and [Rasterize] produces the same output
// on the CPU.
//
// # Quick Start
//
//	reg := overlay.NewRegistry(60)
//	group := reg.RegisterGroup("frame", []overlay.Descriptor{
//		overlay.FloatDescriptor(0, "cpu time", "ms"),
//	})
//	cpuTime := group.Counter(0)
//
//	ov := overlay.NewOverlay(overlay.DefaultFont())
//	for running {
//		reg.Set(cpuTime, measure())
//		reg.Update()
//
//		ov.BeginFrame()
//		ov.DrawItem(overlay.Label("frame stats"))
//		ov.DrawItem(overlay.Table{
//			Columns: []overlay.Column{overlay.NameColumn(), overlay.AvgColumn().WithUnit()},
//			Rows:    []*overlay.Counter{reg.Counter(cpuTime)},
//		})
//		ov.Finish()
//
//		renderer.Prepare(w, h, ov.Geometry())
//	}
//
// # Frame Protocol
//
// Per frame and per registry: call [Registry.Set] zero or more times per
// counter (the last write wins), then [Registry.Update] exactly once. Layout
// and draw calls read the statistics committed by the most recent boundary
// update. Windowed aggregates (avg/min/max) recompute every
// [Registry.AvgWindow] frames; NaN means "no data" and renders as blank.
//
// # Layout Model
//
// [Overlay.DrawItem] places widgets into groups. Items stack inside a group
// along [Overlay.ItemFlow]; groups stack along [Overlay.GroupFlow]. Closing
// a group emits a translucent background panel behind it into the background
// layer. [Overlay.PushColumn] starts a fresh column right of everything
// drawn so far. Custom widgets implement [Item].
//
// # Geometry
//
// Output is a single vertex pool plus one 16-bit index list per layer.
// Vertices carry a packed atlas UV and a packed RGBA color; layers draw in
// ascending order so panels never occlude the content above them. See
// [Geometry] for the wire format.
//
// # Concurrency
//
// The engine is single-threaded by design; see [Registry] for the
// single-writer discipline. [SetLogger] is the only synchronized entry
// point.
package overlay

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
