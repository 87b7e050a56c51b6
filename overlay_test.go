package overlay

import "testing"

// fixedItem draws a filled rectangle of a fixed size, for exercising
// layout placement.
type fixedItem struct{ w, h int }

func (f fixedItem) Draw(pos Point, o *Overlay) Rect {
	r := Rect{Min: pos, Max: pos.Add(Pt(f.w, f.h))}
	o.Geometry().PushRectangle(FrontLayer, r, RGB(255, 0, 0), RGB(255, 0, 0))
	return r
}

// ghostItem draws nothing and occupies no space.
type ghostItem struct{}

func (ghostItem) Draw(pos Point, o *Overlay) Rect { return RectAt(pos) }

// quadOrigin returns the top-left vertex of the n-th quad in a layer.
func quadOrigin(t *testing.T, o *Overlay, layer, n int) Point {
	t.Helper()
	idx := o.Geometry().Indices(layer)
	if len(idx) < (n+1)*6 {
		t.Fatalf("layer %d has %d indices, want at least %d", layer, len(idx), (n+1)*6)
	}
	v := o.Geometry().Vertices()[idx[n*6]]
	return Pt(int(v.X), int(v.Y))
}

func TestOverlayFirstItemAtMargin(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})

	if got := quadOrigin(t, o, FrontLayer, 0); got != Pt(10, 10) {
		t.Errorf("first item at %+v, want (10, 10)", got)
	}
	if w, h := o.CurrentGroupWidth(), o.CurrentGroupHeight(); w != 40 || h != 20 {
		t.Errorf("group size = %dx%d, want 40x20", w, h)
	}
}

func TestOverlayVerticalItemSpacing(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.DrawItem(fixedItem{40, 20})

	// Second item: one margin below the first's bottom edge.
	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(10, 40) {
		t.Errorf("second item at %+v, want (10, 40)", got)
	}
	if h := o.CurrentGroupHeight(); h != 50 {
		t.Errorf("group height = %d, want 50", h)
	}
}

func TestOverlayHorizontalItemSpacing(t *testing.T) {
	o := NewOverlay(fixtureFont())
	o.ItemFlow = Horizontal

	o.DrawItem(fixedItem{40, 20})
	o.DrawItem(fixedItem{40, 20})

	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(60, 10) {
		t.Errorf("second item at %+v, want (60, 10)", got)
	}
}

func TestOverlayGroupPanel(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.Finish()

	idx := o.Geometry().Indices(BackgroundLayer)
	if len(idx) != 6 {
		t.Fatalf("background indices = %d, want one quad", len(idx))
	}
	v := o.Geometry().Vertices()
	tl, br := v[idx[0]], v[idx[0]+2]
	if tl.X != 0 || tl.Y != 0 || br.X != 60 || br.Y != 40 {
		t.Errorf("panel = (%g,%g)-(%g,%g), want (0,0)-(60,40)", tl.X, tl.Y, br.X, br.Y)
	}
	if tl.Color != o.Style.Background[0].Pack() || br.Color != o.Style.Background[1].Pack() {
		t.Error("panel should carry the two background gradient stops")
	}
}

func TestOverlayGroupStacking(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.EndGroup()
	o.DrawItem(fixedItem{40, 20})
	o.Finish()

	// Second group: three margins below the first group's bottom (30).
	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(10, 60) {
		t.Errorf("second group's item at %+v, want (10, 60)", got)
	}
	if n := len(o.Geometry().Indices(BackgroundLayer)); n != 12 {
		t.Errorf("background indices = %d, want two panels", n)
	}
}

func TestOverlayHorizontalGroupFlow(t *testing.T) {
	o := NewOverlay(fixtureFont())
	o.GroupFlow = Horizontal

	o.DrawItem(fixedItem{40, 20})
	o.EndGroup()
	o.DrawItem(fixedItem{40, 20})

	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(80, 10) {
		t.Errorf("second group's item at %+v, want (80, 10)", got)
	}
}

func TestOverlayPushColumn(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.PushColumn()
	o.DrawItem(fixedItem{40, 20})
	o.Finish()

	// New column: three margins right of the widest closed extent (50),
	// back at the top margin, with no inter-group gap.
	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(80, 10) {
		t.Errorf("column item at %+v, want (80, 10)", got)
	}
	if n := len(o.Geometry().Indices(BackgroundLayer)); n != 12 {
		t.Errorf("background indices = %d, want two panels", n)
	}
}

func TestOverlayPushSeparator(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.PushSeparator()
	o.DrawItem(fixedItem{40, 20})

	// Separator widens the gap from one margin to four.
	if got := quadOrigin(t, o, FrontLayer, 1); got != Pt(10, 70) {
		t.Errorf("item after separator at %+v, want (10, 70)", got)
	}
}

func TestOverlaySeparatorOutsideGroup(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.PushSeparator()
	o.DrawItem(fixedItem{40, 20})

	if got := quadOrigin(t, o, FrontLayer, 0); got != Pt(10, 10) {
		t.Errorf("first item at %+v, want (10, 10)", got)
	}
}

func TestOverlayEmptyGroupDiscarded(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(ghostItem{})
	o.Finish()

	if n := len(o.Geometry().Indices(BackgroundLayer)); n != 0 {
		t.Errorf("background indices = %d, want none for an empty group", n)
	}
}

func TestOverlayMinGroupSize(t *testing.T) {
	o := NewOverlay(fixtureFont())
	o.Style.MinGroupWidth = 100
	o.Style.MinGroupHeight = 50

	o.DrawItem(fixedItem{40, 20})
	o.Finish()

	idx := o.Geometry().Indices(BackgroundLayer)
	if len(idx) != 6 {
		t.Fatalf("background indices = %d, want one quad", len(idx))
	}
	v := o.Geometry().Vertices()
	tl, br := v[idx[0]], v[idx[0]+2]
	if tl.X != 0 || tl.Y != 0 || br.X != 120 || br.Y != 70 {
		t.Errorf("panel = (%g,%g)-(%g,%g), want (0,0)-(120,70)", tl.X, tl.Y, br.X, br.Y)
	}
}

func TestOverlayFinishIdempotent(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(fixedItem{40, 20})
	o.Finish()
	o.Finish()
	o.EndGroup()

	if n := len(o.Geometry().Indices(BackgroundLayer)); n != 6 {
		t.Errorf("background indices = %d, want a single panel", n)
	}
}

func TestOverlayBeginFrameResetsLayout(t *testing.T) {
	o := NewOverlay(fixtureFont())
	o.DrawItem(fixedItem{40, 20})
	o.Finish()

	o.BeginFrame()
	o.DrawItem(fixedItem{40, 20})

	if got := quadOrigin(t, o, FrontLayer, 0); got != Pt(10, 10) {
		t.Errorf("item after reset at %+v, want (10, 10)", got)
	}
	if n := len(o.Geometry().Vertices()); n != 4 {
		t.Errorf("vertices = %d, want only the new frame's quad", n)
	}
}

func TestLabelBaseline(t *testing.T) {
	o := NewOverlay(fixtureFont())

	o.DrawItem(Label("A"))

	// Baseline sits one line height below the cursor; the 6-tall glyph's
	// quad therefore starts at y=14.
	if got := quadOrigin(t, o, FrontLayer, 0); got != Pt(10, 14) {
		t.Errorf("glyph quad at %+v, want (10, 14)", got)
	}
	if h := o.CurrentGroupHeight(); h != 10 {
		t.Errorf("group height = %d, want 10", h)
	}
	v := o.Geometry().Vertices()
	if v[0].Color != o.Style.TextColor[0].Pack() {
		t.Error("label should use the primary text color")
	}
}
