package wgpu

import (
	"testing"

	"github.com/gogpu/overlay"
)

func TestRegisterCountersPublishes(t *testing.T) {
	reg := overlay.NewRegistry(8)
	r := &Renderer{}
	group := r.RegisterCounters(reg, "renderer")

	if group.Len() != 4 {
		t.Fatalf("group.Len() = %d, want 4", group.Len())
	}

	geo := overlay.NewGeometry(testFont(), 2)
	white := overlay.RGB(255, 255, 255)
	geo.PushRectangle(overlay.BackgroundLayer, overlay.Rect{Min: overlay.Pt(0, 0), Max: overlay.Pt(4, 4)}, white, white)
	geo.PushRectangle(overlay.FrontLayer, overlay.Rect{Min: overlay.Pt(1, 1), Max: overlay.Pt(2, 2)}, white, white)

	r.stats.prepared(geo, 384)
	r.stats.recorded(2)
	reg.Update()

	check := func(name string, want float32) {
		t.Helper()
		id, ok := reg.FindCounterByName("renderer", name)
		if !ok {
			t.Fatalf("counter %q not registered", name)
		}
		if got := reg.Counter(id).Last(); got != want {
			t.Errorf("%s = %g, want %g", name, got, want)
		}
	}
	check("Vertices", 8)
	check("Indices", 12)
	check("Upload", 384)
	check("Draws", 2)
}

func TestFrameStatsUnbound(t *testing.T) {
	var s frameStats
	s.prepared(overlay.NewGeometry(testFont(), 2), 128)
	s.recorded(1)
}
