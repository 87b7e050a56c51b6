package overlay

import "golang.org/x/text/unicode/norm"

// Draw layers of the overlay. Lower layers draw first, so background
// panels never occlude foreground content.
const (
	// BackgroundLayer holds group background panels.
	BackgroundLayer = 0
	// FrontLayer holds text, graphs and table content.
	FrontLayer = 1
)

// Vertex is the geometry wire format consumed by renderers: position,
// packed atlas UV and packed RGBA color, 16 bytes per vertex.
type Vertex struct {
	X, Y  float32
	UV    uint32
	Color uint32
}

// PackUV packs atlas pixel coordinates into the vertex UV word, x in the
// high half.
func PackUV(x, y uint16) uint32 {
	return uint32(x)<<16 | uint32(y)
}

// UnpackUV decodes a packed UV word back into atlas pixel coordinates.
func UnpackUV(v uint32) (x, y uint16) {
	return uint16(v >> 16), uint16(v)
}

// Geometry accumulates the overlay's drawable output: one shared vertex
// pool plus one index list per layer. A renderer uploads the pool once and
// issues one indexed draw per layer in ascending order.
//
// Indices are 16-bit. A frame pushing more than 65535 vertices silently
// wraps; the overlay's own widgets stay far below that.
type Geometry struct {
	font     *Font
	vertices []Vertex
	layers   [][]uint16
}

// NewGeometry returns an empty geometry with the given number of layers.
// font supplies glyph metrics for PushText and the opaque texel for solid
// fills.
func NewGeometry(font *Font, layers int) *Geometry {
	return &Geometry{
		font:   font,
		layers: make([][]uint16, layers),
	}
}

// BeginFrame clears all vertex and index data, retaining capacity.
func (g *Geometry) BeginFrame() {
	g.vertices = g.vertices[:0]
	for i := range g.layers {
		g.layers[i] = g.layers[i][:0]
	}
}

// Font returns the glyph atlas the geometry draws with.
func (g *Geometry) Font() *Font { return g.font }

// Vertices returns the shared vertex pool.
func (g *Geometry) Vertices() []Vertex { return g.vertices }

// Layers returns the number of draw layers.
func (g *Geometry) Layers() int { return len(g.layers) }

// Indices returns the index list of one layer.
func (g *Geometry) Indices(layer int) []uint16 { return g.layers[layer] }

// pushQuad appends the four corners of an axis-aligned quad and the six
// indices of its two triangles.
func (g *Geometry) pushQuad(layer int, x0, y0, x1, y1 float32, uv00, uv10, uv11, uv01 uint32, c0, c1 uint32) {
	base := uint16(len(g.vertices))
	g.vertices = append(g.vertices,
		Vertex{X: x0, Y: y0, UV: uv00, Color: c0},
		Vertex{X: x1, Y: y0, UV: uv10, Color: c0},
		Vertex{X: x1, Y: y1, UV: uv11, Color: c1},
		Vertex{X: x0, Y: y1, UV: uv01, Color: c1},
	)
	g.layers[layer] = append(g.layers[layer],
		base, base+1, base+2,
		base, base+2, base+3,
	)
}

// PushText tessellates text with its baseline pen starting at origin.
// A newline returns the pen to the leftmost extent drawn so far and
// advances one line height. Runes outside the atlas are silently skipped.
// Composed characters are NFC-normalized first so they can hit the atlas;
// pure ASCII takes a fast path. Returns the bounding box of the emitted
// quads, degenerate at origin when nothing was drawn.
func (g *Geometry) PushText(layer int, text string, origin Point, color Color) Rect {
	if !isASCII(text) {
		text = norm.NFC.String(text)
	}

	pos := origin
	bounds := RectAt(origin)
	packed := color.Pack()

	for _, r := range text {
		if r == '\n' {
			pos.X = bounds.Min.X
			pos.Y += g.font.LineHeight
			continue
		}
		glyph, ok := g.font.Glyph(r)
		if !ok {
			continue
		}

		x0 := pos.X + int(glyph.OffsetX)
		y0 := pos.Y + int(glyph.OffsetY)
		x1 := x0 + int(glyph.U1-glyph.U0)
		y1 := y0 + int(glyph.V1-glyph.V0)

		g.pushQuad(layer,
			float32(x0), float32(y0), float32(x1), float32(y1),
			PackUV(glyph.U0, glyph.V0),
			PackUV(glyph.U1, glyph.V0),
			PackUV(glyph.U1, glyph.V1),
			PackUV(glyph.U0, glyph.V1),
			packed, packed,
		)

		pos.X += int(glyph.Advance)
		bounds = bounds.Union(Rect{Min: Pt(x0, y0), Max: Pt(x1, y1)})
	}
	return bounds
}

// PushRectangle fills rect with a vertical gradient, top at rect.Min.Y,
// sampling the atlas's opaque texel.
func (g *Geometry) PushRectangle(layer int, rect Rect, top, bottom Color) {
	uv := PackUV(g.font.OpaqueX, g.font.OpaqueY)
	g.pushQuad(layer,
		float32(rect.Min.X), float32(rect.Min.Y),
		float32(rect.Max.X), float32(rect.Max.Y),
		uv, uv, uv, uv,
		top.Pack(), bottom.Pack(),
	)
}

// PushMesh appends an arbitrary flat-colored triangle mesh. The supplied
// indices address points and are rebased onto the shared vertex pool.
func (g *Geometry) PushMesh(layer int, points []PointF, indices []uint16, color Color) {
	uv := PackUV(g.font.OpaqueX, g.font.OpaqueY)
	packed := color.Pack()
	base := uint16(len(g.vertices))
	for _, p := range points {
		g.vertices = append(g.vertices, Vertex{X: p.X, Y: p.Y, UV: uv, Color: packed})
	}
	idx := g.layers[layer]
	for _, i := range indices {
		idx = append(idx, base+i)
	}
	g.layers[layer] = idx
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
