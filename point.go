package overlay

// Point is an integer pixel position in overlay space.
type Point struct {
	X, Y int
}

// Pt is a convenience function to create a Point.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns the component-wise sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Min returns the component-wise minimum of two points.
func (p Point) Min(q Point) Point {
	if q.X < p.X {
		p.X = q.X
	}
	if q.Y < p.Y {
		p.Y = q.Y
	}
	return p
}

// Max returns the component-wise maximum of two points.
func (p Point) Max(q Point) Point {
	if q.X > p.X {
		p.X = q.X
	}
	if q.Y > p.Y {
		p.Y = q.Y
	}
	return p
}

// PointF is a float position, used for mesh vertices.
type PointF struct {
	X, Y float32
}

// PtF is a convenience function to create a PointF.
func PtF(x, y float32) PointF {
	return PointF{X: x, Y: y}
}

// Rect is an axis-aligned rectangle. Min is the top-left corner and Max the
// bottom-right one.
type Rect struct {
	Min, Max Point
}

// RectAt returns the degenerate rectangle whose corners both sit at p.
func RectAt(p Point) Rect {
	return Rect{Min: p, Max: p}
}

// Dx returns the rectangle's width.
func (r Rect) Dx() int { return r.Max.X - r.Min.X }

// Dy returns the rectangle's height.
func (r Rect) Dy() int { return r.Max.Y - r.Min.Y }

// Empty reports whether the rectangle encloses no area.
func (r Rect) Empty() bool {
	return r.Min.X >= r.Max.X || r.Min.Y >= r.Max.Y
}

// Union returns the smallest rectangle containing the corner points of both
// r and s. Degenerate rectangles still contribute their corners, which the
// layout engine relies on when growing a group box from its starting cursor.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: r.Min.Min(s.Min),
		Max: r.Max.Max(s.Max),
	}
}

// ExtendPoint returns r grown just enough to contain p.
func (r Rect) ExtendPoint(p Point) Rect {
	return Rect{
		Min: r.Min.Min(p),
		Max: r.Max.Max(p),
	}
}

// Inflate returns r grown by d pixels on all four sides.
func (r Rect) Inflate(d int) Rect {
	return Rect{
		Min: Pt(r.Min.X-d, r.Min.Y-d),
		Max: Pt(r.Max.X+d, r.Max.Y+d),
	}
}
