package overlay

import "image/color"

// Color is an 8-bit straight-alpha RGBA color, the overlay's native color
// format. Renderers premultiply during blending.
type Color struct {
	R, G, B, A uint8
}

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// RGBA creates a color with an explicit alpha.
func RGBA(r, g, b, a uint8) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Pack encodes the color as the vertex wire format word, red in the high
// byte: r<<24 | g<<16 | b<<8 | a.
func (c Color) Pack() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// UnpackColor decodes a packed RGBA word produced by [Color.Pack].
func UnpackColor(v uint32) Color {
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// FromColor converts a standard library color to the overlay format,
// unpremultiplying if necessary.
func FromColor(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Color{R: n.R, G: n.G, B: n.B, A: n.A}
}
