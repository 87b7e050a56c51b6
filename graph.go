package overlay

import (
	"iter"
	"math"
)

// GraphStats summarizes the history slice a graph rendered: aggregates
// over the active samples, plus how many of the slots held one. All three
// aggregates are NaN when no slot was active.
type GraphStats struct {
	Avg, Min, Max float32

	// Samples is the number of slots holding a value; Slots is the
	// history length walked.
	Samples, Slots int
}

// DrawGraph tessellates a counter's history as a bar graph filling rect,
// one bar per history slot, and returns the history's statistics.
//
// Bar heights scale so that max(history max, referenceValue) spans the
// full rect; a reference of e.g. the frame budget keeps quiet histories
// from being blown up to full height. Slots with no sample leave a gap.
// Horizontal orientation rotates the graph: slots advance downward and
// bars grow leftward from the right edge.
//
// A counter without history produces no geometry and all-NaN stats.
func DrawGraph(geo *Geometry, layer int, rect Rect, counter *Counter, referenceValue float32, color Color, orientation Orientation) GraphStats {
	if counter.HistoryLen() == 0 {
		return GraphStats{Avg: nan32, Min: nan32, Max: nan32}
	}
	if orientation == Horizontal {
		rect = Rect{Min: Pt(rect.Min.Y, rect.Min.X), Max: Pt(rect.Max.Y, rect.Max.X)}
	}

	total, active := 0, 0
	maxv := float32(-math.MaxFloat32)
	minv := float32(math.MaxFloat32)
	sum := float32(0)
	for v, ok := range counter.History() {
		total++
		if !ok {
			continue
		}
		active++
		if v > maxv {
			maxv = v
		}
		if v < minv {
			minv = v
		}
		sum += v
	}
	if active == 0 {
		return GraphStats{Avg: nan32, Min: nan32, Max: nan32}
	}
	avg := sum / float32(active)

	barW := int(max(float32(rect.Dx())/float32(total), 1))
	yScale := float32(0)
	if denom := max(maxv, referenceValue); denom > 0 {
		yScale = float32(rect.Dy()) / denom
	}

	x0 := rect.Min.X
	y0 := rect.Max.Y
	for v, ok := range counter.History() {
		x1 := x0 + barW
		if ok {
			y1 := int(float32(y0) - v*yScale)
			bar := Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}
			if orientation == Horizontal {
				bar = Rect{Min: Pt(y0, x0), Max: Pt(y1, x1)}
			}
			geo.PushRectangle(layer, bar, color, color)
		}
		x0 = x1
	}

	return GraphStats{Avg: avg, Min: minv, Max: maxv, Samples: active, Slots: total}
}

// DrawGraphs tessellates several histories as one stacked bar graph, each
// series in its counter's descriptor color, scaled so the largest per-slot
// SUM (or referenceValue, whichever is greater) spans the full rect.
//
// Counters without history are skipped. The remaining histories are walked
// in lock-step and truncated to the shortest one; mixing history lengths
// is legal but the excess slots of longer histories never render.
func DrawGraphs(geo *Geometry, layer int, rect Rect, counters []*Counter, referenceValue float32, orientation Orientation) {
	series := make([]*Counter, 0, len(counters))
	for _, c := range counters {
		if c.HistoryLen() > 0 {
			series = append(series, c)
		}
	}
	if len(series) == 0 {
		return
	}
	if orientation == Horizontal {
		rect = Rect{Min: Pt(rect.Min.Y, rect.Min.X), Max: Pt(rect.Max.Y, rect.Max.X)}
	}

	next, stop := pullHistories(series)
	defer stop()

	total := 0
	maxSum := float32(-math.MaxFloat32)
pass1:
	for {
		sum := float32(0)
		for i := range next {
			v, ok, valid := next[i]()
			if !valid {
				break pass1
			}
			if ok {
				sum += v
			}
		}
		total++
		if sum > maxSum {
			maxSum = sum
		}
	}

	barW := int(max(float32(rect.Dx())/float32(total), 1))
	yScale := float32(0)
	if denom := max(maxSum, referenceValue); denom > 0 {
		yScale = float32(rect.Dy()) / denom
	}

	next, stop2 := pullHistories(series)
	defer stop2()

	column := make([]float32, len(series))
	active := make([]bool, len(series))
	x0 := rect.Min.X
pass2:
	for {
		for i := range series {
			v, ok, valid := next[i]()
			if !valid {
				break pass2
			}
			column[i], active[i] = v, ok
		}
		y0 := rect.Max.Y
		x1 := x0 + barW
		for i, c := range series {
			if !active[i] {
				continue
			}
			y1 := int(float32(y0) - column[i]*yScale)
			bar := Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)}
			if orientation == Horizontal {
				bar = Rect{Min: Pt(y0, x0), Max: Pt(y1, x1)}
			}
			color := c.Desc().Color
			geo.PushRectangle(layer, bar, color, color)
			y0 = y1
		}
		x0 = x1
	}
}

// pullHistories converts the histories of cs into pull-style iterators
// walked in lock-step. The returned stop releases them all.
func pullHistories(cs []*Counter) (next []func() (float32, bool, bool), stop func()) {
	next = make([]func() (float32, bool, bool), len(cs))
	stops := make([]func(), len(cs))
	for i, c := range cs {
		next[i], stops[i] = iter.Pull2(c.History())
	}
	return next, func() {
		for _, s := range stops {
			s()
		}
	}
}

// Graph is an Item rendering one counter's history as a bar graph.
type Graph struct {
	Counter *Counter

	// Color fills the bars.
	Color Color

	// ReferenceValue anchors the vertical scale; see DrawGraph.
	ReferenceValue float32

	// Width and Height of the graph. Zero adopts the open group's current
	// dimension, or 100 when the group is still empty.
	Width, Height int

	Orientation Orientation
}

// Draw renders the graph at pos.
func (g Graph) Draw(pos Point, o *Overlay) Rect {
	rect := Rect{Min: pos, Max: pos.Add(Pt(graphSize(o, g.Width, g.Height)))}
	DrawGraph(o.Geometry(), FrontLayer, rect, g.Counter, g.ReferenceValue, g.Color, g.Orientation)
	return rect
}

// Graphs is an Item rendering several counters' histories as one stacked
// bar graph, each series in its descriptor color.
type Graphs struct {
	Counters []*Counter

	// ReferenceValue anchors the vertical scale; see DrawGraphs.
	ReferenceValue float32

	// Width and Height of the graph. Zero adopts the open group's current
	// dimension, or 100 when the group is still empty.
	Width, Height int

	Orientation Orientation
}

// Draw renders the stacked graph at pos.
func (g Graphs) Draw(pos Point, o *Overlay) Rect {
	rect := Rect{Min: pos, Max: pos.Add(Pt(graphSize(o, g.Width, g.Height)))}
	DrawGraphs(o.Geometry(), FrontLayer, rect, g.Counters, g.ReferenceValue, g.Orientation)
	return rect
}

// graphSize resolves a widget's requested dimensions, falling back to the
// open group's current size, then to 100 px.
func graphSize(o *Overlay, w, h int) (int, int) {
	if w == 0 {
		if w = o.CurrentGroupWidth(); w <= 0 {
			w = 100
		}
	}
	if h == 0 {
		if h = o.CurrentGroupHeight(); h <= 0 {
			h = 100
		}
	}
	return w, h
}
