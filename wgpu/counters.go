package wgpu

import "github.com/gogpu/overlay"

// Batch-local counter indices within the renderer's registry group.
const (
	statVertices = iota
	statIndices
	statUploadBytes
	statDrawCalls
)

// rendererCounters describes the renderer's self-instrumentation group.
var rendererCounters = []overlay.Descriptor{
	overlay.IntDescriptor(statVertices, "Vertices", "").WithColor(overlay.RGB(100, 220, 100)),
	overlay.IntDescriptor(statIndices, "Indices", "").WithColor(overlay.RGB(100, 160, 255)),
	overlay.IntDescriptor(statUploadBytes, "Upload", "B").WithColor(overlay.RGB(255, 200, 80)),
	overlay.IntDescriptor(statDrawCalls, "Draws", "").WithColor(overlay.RGB(255, 120, 120)),
}

// frameStats publishes per-frame renderer statistics into a counter
// group. The zero value is unbound and publishes nothing.
type frameStats struct {
	reg   *overlay.Registry
	group overlay.Group
}

func (s *frameStats) prepared(geo *overlay.Geometry, uploadBytes int) {
	if s.reg == nil {
		return
	}
	indices := 0
	for layer := 0; layer < geo.Layers(); layer++ {
		indices += len(geo.Indices(layer))
	}
	s.reg.Set(s.group.Counter(statVertices), float32(len(geo.Vertices())))
	s.reg.Set(s.group.Counter(statIndices), float32(indices))
	s.reg.Set(s.group.Counter(statUploadBytes), float32(uploadBytes))
}

func (s *frameStats) recorded(draws int) {
	if s.reg == nil {
		return
	}
	s.reg.Set(s.group.Counter(statDrawCalls), float32(draws))
}

// RegisterCounters registers the renderer's own statistics with reg
// under groupName: vertex and index counts, bytes uploaded, and draw
// calls issued, sampled on every Prepare and Record. The returned group
// can feed the same tables and graphs as any other.
//
// The registry is single-writer; once counters are registered, Prepare
// and Record must run on the goroutine that owns reg.
func (r *Renderer) RegisterCounters(reg *overlay.Registry, groupName string) overlay.Group {
	r.mu.Lock()
	defer r.mu.Unlock()

	group := reg.RegisterGroup(groupName, rendererCounters)
	r.stats = frameStats{reg: reg, group: group}
	return group
}
