package overlay

import (
	"bytes"
	"fmt"
	"image"
	"sync"

	"github.com/go-text/typesetting/di"
	tfont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Glyph describes one baked character: its atlas rectangle in pixels,
// the offset of that rectangle from the baseline pen, and the pen
// advance to the next character.
type Glyph struct {
	U0, V0, U1, V1   uint16
	OffsetX, OffsetY int16
	Advance          float32
}

// Font is a baked glyph atlas: a single-channel coverage bitmap plus
// per-character metrics for a contiguous rune range. The texel at
// (OpaqueX, OpaqueY) is fully opaque and is sampled by solid fills.
type Font struct {
	Glyphs    []Glyph
	FirstChar rune

	// LineHeight is the vertical pen advance between text lines.
	LineHeight int

	// Width and Height are the atlas dimensions; Pixels holds
	// Width*Height coverage bytes in row-major order.
	Width, Height int
	Pixels        []byte

	OpaqueX, OpaqueY uint16
}

// Glyph returns the baked glyph for r, or false when r is outside the
// baked range.
func (f *Font) Glyph(r rune) (Glyph, bool) {
	idx := int(r) - int(f.FirstChar)
	if idx < 0 || idx >= len(f.Glyphs) {
		return Glyph{}, false
	}
	return f.Glyphs[idx], true
}

// BakeOptions configures BakeFont.
type BakeOptions struct {
	// Size is the font size in pixels, also the baked LineHeight.
	Size float64

	// FirstChar and NumChars select the contiguous rune range to bake.
	FirstChar rune
	NumChars  int

	// Width and Height are the atlas dimensions. The baked atlas keeps
	// Width but trims unused rows from Height.
	Width, Height int
}

// DefaultBakeOptions bakes printable ASCII at 18 px into a 256-wide atlas.
func DefaultBakeOptions() BakeOptions {
	return BakeOptions{
		Size:      18,
		FirstChar: ' ',
		NumChars:  96,
		Width:     256,
		Height:    128,
	}
}

// BakeFont rasterizes a rune range of a TTF/OTF font into an atlas.
// Glyph coverage comes from the x/image rasterizer; pen advances come
// from shaping each rune, so they match what a full text stack reports.
// Returns an error when the data does not parse or the atlas is too
// small for the requested range.
func BakeFont(ttf []byte, opts BakeOptions) (*Font, error) {
	otf, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("overlay: failed to parse font: %w", err)
	}
	face, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    opts.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("overlay: failed to create face: %w", err)
	}
	defer face.Close()

	tface, err := tfont.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("overlay: failed to parse font: %w", err)
	}
	shaper := &shaping.HarfbuzzShaper{}

	f := &Font{
		Glyphs:     make([]Glyph, opts.NumChars),
		FirstChar:  opts.FirstChar,
		LineHeight: int(opts.Size + 0.5),
		Width:      opts.Width,
		Height:     opts.Height,
		Pixels:     make([]byte, opts.Width*opts.Height),
	}

	// The texel at (0, 0) stays reserved for solid fills. The first
	// packing row starts at x=1 so no glyph can overwrite it; later rows
	// start below it.
	f.Pixels[0] = 0xFF
	penX, penY, rowH := 1, 0, 0
	maxY := 1

	for i := range f.Glyphs {
		r := opts.FirstChar + rune(i)
		bounds, _, ok := face.GlyphBounds(r)
		if !ok {
			continue
		}

		f.Glyphs[i].Advance = shapeAdvance(shaper, tface, r, opts.Size)

		x0 := int(bounds.Min.X) >> 6
		y0 := int(bounds.Min.Y) >> 6
		x1 := int(bounds.Max.X+63) >> 6
		y1 := int(bounds.Max.Y+63) >> 6
		w, h := x1-x0, y1-y0
		if w <= 0 || h <= 0 {
			continue
		}

		if penX+w > opts.Width {
			penX = 0
			penY += rowH + 1
			rowH = 0
		}
		if w > opts.Width || penY+h > opts.Height {
			return nil, fmt.Errorf("overlay: %dx%d atlas too small for %d glyphs at size %g",
				opts.Width, opts.Height, opts.NumChars, opts.Size)
		}

		mask := image.NewAlpha(image.Rect(0, 0, w, h))
		drawer := &font.Drawer{
			Dst:  mask,
			Src:  image.White,
			Face: face,
			Dot:  fixed.Point26_6{X: -bounds.Min.X, Y: -bounds.Min.Y},
		}
		drawer.DrawString(string(r))
		for row := 0; row < h; row++ {
			copy(f.Pixels[(penY+row)*opts.Width+penX:], mask.Pix[row*mask.Stride:row*mask.Stride+w])
		}

		f.Glyphs[i].U0 = uint16(penX)
		f.Glyphs[i].V0 = uint16(penY)
		f.Glyphs[i].U1 = uint16(penX + w)
		f.Glyphs[i].V1 = uint16(penY + h)
		f.Glyphs[i].OffsetX = int16(x0)
		f.Glyphs[i].OffsetY = int16(y0)

		penX += w + 1
		if h > rowH {
			rowH = h
		}
		if penY+h > maxY {
			maxY = penY + h
		}
	}

	// Trim unused rows, keeping the height a multiple of 8 for texture
	// upload alignment.
	trimmed := (maxY + 7) &^ 7
	if trimmed < f.Height {
		f.Height = trimmed
		f.Pixels = f.Pixels[:f.Width*trimmed]
	}
	return f, nil
}

// shapeAdvance shapes a single rune in isolation and returns its pen
// advance in pixels.
func shapeAdvance(shaper *shaping.HarfbuzzShaper, face *tfont.Face, r rune, size float64) float32 {
	out := shaper.Shape(shaping.Input{
		Text:      []rune{r},
		RunStart:  0,
		RunEnd:    1,
		Direction: di.DirectionLTR,
		Face:      face,
		Size:      fixed.Int26_6(size * 64),
		Script:    language.LookupScript(r),
		Language:  language.NewLanguage("en"),
	})
	if len(out.Glyphs) == 0 {
		return 0
	}
	var adv fixed.Int26_6
	for _, g := range out.Glyphs {
		adv += g.Advance
	}
	return float32(adv) / 64
}

var (
	defaultFontOnce sync.Once
	defaultFont     *Font
)

// DefaultFont bakes Go Regular with DefaultBakeOptions on first use and
// returns the shared instance. The result must not be mutated.
func DefaultFont() *Font {
	defaultFontOnce.Do(func() {
		f, err := BakeFont(goregular.TTF, DefaultBakeOptions())
		if err != nil {
			panic("overlay: bake default font: " + err.Error())
		}
		defaultFont = f
	})
	return defaultFont
}
