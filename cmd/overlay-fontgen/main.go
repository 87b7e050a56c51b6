// Command overlay-fontgen bakes a TTF rune range into a glyph atlas and
// emits it as Go source, so programs can link a ready font table instead
// of baking at startup. It can also dump the atlas as a PNG for
// inspection.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/overlay"
)

func main() {
	var (
		fontPath = flag.String("font", "", "TTF/OTF file to bake (default: embedded Go Regular)")
		size     = flag.Float64("size", 18, "font size in pixels")
		first    = flag.Int("first", ' ', "first rune of the baked range")
		count    = flag.Int("count", 96, "number of runes to bake")
		atlas    = flag.String("atlas", "256x128", "atlas dimensions, WxH")
		pngPath  = flag.String("png", "", "also write the atlas to this PNG file")
		outPath  = flag.String("out", "", "output .go file (default: stdout)")
		pkg      = flag.String("pkg", "main", "package name for the generated file")
		varName  = flag.String("var", "BakedFont", "variable name for the generated font")
	)
	flag.Parse()

	ttf := goregular.TTF
	name := "Go Regular"
	if *fontPath != "" {
		data, err := os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("read font: %v", err)
		}
		ttf = data
		name = *fontPath
	}

	w, h, err := parseAtlas(*atlas)
	if err != nil {
		log.Fatalf("bad -atlas: %v", err)
	}

	f, err := overlay.BakeFont(ttf, overlay.BakeOptions{
		Size:      *size,
		FirstChar: rune(*first),
		NumChars:  *count,
		Width:     w,
		Height:    h,
	})
	if err != nil {
		log.Fatalf("bake: %v", err)
	}

	if *pngPath != "" {
		if err := writePNG(*pngPath, f); err != nil {
			log.Fatalf("write png: %v", err)
		}
		log.Printf("Atlas PNG saved to %s (%dx%d)", *pngPath, f.Width, f.Height)
	}

	src := generate(f, *pkg, *varName, name, *size)
	if *outPath == "" {
		fmt.Print(src)
		return
	}
	if err := os.WriteFile(*outPath, []byte(src), 0o644); err != nil {
		log.Fatalf("write %s: %v", *outPath, err)
	}
	log.Printf("Font table saved to %s (%d glyphs, %d atlas bytes)",
		*outPath, len(f.Glyphs), len(f.Pixels))
}

// parseAtlas parses "WxH" atlas dimensions.
func parseAtlas(s string) (width, height int, err error) {
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("want WxH, got %q", s)
	}
	width, err = strconv.Atoi(ws)
	if err != nil {
		return 0, 0, err
	}
	height, err = strconv.Atoi(hs)
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("dimensions must be positive, got %q", s)
	}
	return width, height, nil
}

// writePNG dumps the single-channel atlas as a grayscale PNG.
func writePNG(path string, f *overlay.Font) error {
	img := &image.Gray{
		Pix:    f.Pixels,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
	out, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// generate renders the baked font as a gofmt-formatted Go source file.
func generate(f *overlay.Font, pkg, varName, fontName string, size float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by overlay-fontgen. DO NOT EDIT.\n")
	fmt.Fprintf(&b, "// Source: %s at %g px, runes %d..%d.\n\n",
		fontName, size, f.FirstChar, int(f.FirstChar)+len(f.Glyphs)-1)
	fmt.Fprintf(&b, "package %s\n\nimport \"github.com/gogpu/overlay\"\n\n", pkg)
	fmt.Fprintf(&b, "// %s is the %s glyph atlas baked at %g px.\n", varName, fontName, size)
	fmt.Fprintf(&b, "var %s = &overlay.Font{\n", varName)
	fmt.Fprintf(&b, "\tFirstChar:  %d,\n", f.FirstChar)
	fmt.Fprintf(&b, "\tLineHeight: %d,\n", f.LineHeight)
	fmt.Fprintf(&b, "\tWidth:      %d,\n", f.Width)
	fmt.Fprintf(&b, "\tHeight:     %d,\n", f.Height)
	fmt.Fprintf(&b, "\tOpaqueX:    %d,\n", f.OpaqueX)
	fmt.Fprintf(&b, "\tOpaqueY:    %d,\n", f.OpaqueY)

	b.WriteString("\tGlyphs: []overlay.Glyph{\n")
	for _, g := range f.Glyphs {
		fmt.Fprintf(&b, "\t\t{U0: %d, V0: %d, U1: %d, V1: %d, OffsetX: %d, OffsetY: %d, Advance: %s},\n",
			g.U0, g.V0, g.U1, g.V1, g.OffsetX, g.OffsetY,
			strconv.FormatFloat(float64(g.Advance), 'g', -1, 32))
	}
	b.WriteString("\t},\n")

	b.WriteString("\tPixels: []byte{\n")
	for i := 0; i < len(f.Pixels); i += 16 {
		end := min(i+16, len(f.Pixels))
		b.WriteString("\t\t")
		for j := i; j < end; j++ {
			fmt.Fprintf(&b, "0x%02x,", f.Pixels[j])
			if j+1 < end {
				b.WriteByte(' ')
			}
		}
		b.WriteByte('\n')
	}
	b.WriteString("\t},\n}\n")
	return b.String()
}
