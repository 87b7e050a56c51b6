package overlay

import (
	"image"
	"math"
)

// Rasterize renders geometry into dst with the same semantics as the GPU
// path: layers composite in ascending order, each pixel samples the
// nearest atlas texel, and fragments blend with premultiplied alpha
// (image.RGBA stores premultiplied channels). Meant for hosts without a
// GPU surface; overlay geometry is small enough that the scanline cost
// does not matter.
func Rasterize(geo *Geometry, dst *image.RGBA) {
	RasterizeAt(geo, dst, Pt(0, 0))
}

// RasterizeAt renders geometry translated by offset into dst.
func RasterizeAt(geo *Geometry, dst *image.RGBA, offset Point) {
	font := geo.Font()
	verts := geo.Vertices()
	for layer := 0; layer < geo.Layers(); layer++ {
		idx := geo.Indices(layer)
		for i := 0; i+2 < len(idx); i += 3 {
			rasterizeTriangle(dst, font,
				rastVertex(verts[idx[i]], offset),
				rastVertex(verts[idx[i+1]], offset),
				rastVertex(verts[idx[i+2]], offset),
			)
		}
	}
}

// rvert is a decoded vertex: translated position, atlas coordinates and
// normalized color channels.
type rvert struct {
	x, y       float32
	u, v       float32
	r, g, b, a float32
}

func rastVertex(v Vertex, offset Point) rvert {
	ux, uy := UnpackUV(v.UV)
	c := UnpackColor(v.Color)
	return rvert{
		x: v.X + float32(offset.X),
		y: v.Y + float32(offset.Y),
		u: float32(ux),
		v: float32(uy),
		r: float32(c.R) / 255,
		g: float32(c.G) / 255,
		b: float32(c.B) / 255,
		a: float32(c.A) / 255,
	}
}

func rasterizeTriangle(dst *image.RGBA, font *Font, v0, v1, v2 rvert) {
	area := (v1.x-v0.x)*(v2.y-v0.y) - (v1.y-v0.y)*(v2.x-v0.x)
	if area == 0 {
		return
	}
	if area < 0 {
		v1, v2 = v2, v1
		area = -area
	}
	inv := 1 / area

	// Ties on shared edges resolve top-left so adjacent triangles cover
	// every pixel exactly once.
	e0x, e0y := v2.x-v1.x, v2.y-v1.y
	e1x, e1y := v0.x-v2.x, v0.y-v2.y
	e2x, e2y := v1.x-v0.x, v1.y-v0.y
	t0 := e0y < 0 || (e0y == 0 && e0x > 0)
	t1 := e1y < 0 || (e1y == 0 && e1x > 0)
	t2 := e2y < 0 || (e2y == 0 && e2x > 0)

	bounds := dst.Bounds()
	minX := max(int(math.Floor(float64(min(v0.x, v1.x, v2.x)))), bounds.Min.X)
	maxX := min(int(math.Ceil(float64(max(v0.x, v1.x, v2.x)))), bounds.Max.X)
	minY := max(int(math.Floor(float64(min(v0.y, v1.y, v2.y)))), bounds.Min.Y)
	maxY := min(int(math.Ceil(float64(max(v0.y, v1.y, v2.y)))), bounds.Max.Y)

	for py := minY; py < maxY; py++ {
		cy := float32(py) + 0.5
		for px := minX; px < maxX; px++ {
			cx := float32(px) + 0.5

			w0 := e0x*(cy-v1.y) - e0y*(cx-v1.x)
			w1 := e1x*(cy-v2.y) - e1y*(cx-v2.x)
			w2 := e2x*(cy-v0.y) - e2y*(cx-v0.x)
			if (w0 < 0 || (w0 == 0 && !t0)) ||
				(w1 < 0 || (w1 == 0 && !t1)) ||
				(w2 < 0 || (w2 == 0 && !t2)) {
				continue
			}
			b0, b1, b2 := w0*inv, w1*inv, w2*inv

			tx := clampInt(int(b0*v0.u+b1*v1.u+b2*v2.u), 0, font.Width-1)
			ty := clampInt(int(b0*v0.v+b1*v1.v+b2*v2.v), 0, font.Height-1)
			texel := float32(font.Pixels[ty*font.Width+tx]) / 255
			if texel == 0 {
				continue
			}

			cr := b0*v0.r + b1*v1.r + b2*v2.r
			cg := b0*v0.g + b1*v1.g + b2*v2.g
			cb := b0*v0.b + b1*v1.b + b2*v2.b
			ca := b0*v0.a + b1*v1.a + b2*v2.a

			// The fragment stage multiplies the whole color by its own
			// alpha and the atlas texel, alpha channel included.
			sr := cr * ca * texel
			sg := cg * ca * texel
			sb := cb * ca * texel
			sa := ca * ca * texel

			o := dst.PixOffset(px, py)
			p := dst.Pix[o : o+4 : o+4]
			rest := 1 - sa
			p[0] = blendChannel(sr, p[0], rest)
			p[1] = blendChannel(sg, p[1], rest)
			p[2] = blendChannel(sb, p[2], rest)
			p[3] = blendChannel(sa, p[3], rest)
		}
	}
}

// blendChannel computes src + dst*(1-srcAlpha) on one premultiplied
// channel and converts back to a byte.
func blendChannel(src float32, dst uint8, rest float32) uint8 {
	v := src + float32(dst)/255*rest
	if v > 1 {
		v = 1
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
