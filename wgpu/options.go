package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Options configure a Renderer for the render target it draws into.
// The zero value of a field means "use the default" where one is noted.
type Options struct {
	// TargetFormat is the color format of the render target.
	// Zero means BGRA8Unorm.
	TargetFormat gputypes.TextureFormat

	// DepthStencilFormat must match the depth/stencil attachment of the
	// render pass the overlay records into, or stay zero when the pass
	// has no depth/stencil attachment. The overlay never tests or writes
	// depth or stencil; the pipeline only has to agree with the pass
	// layout.
	DepthStencilFormat gputypes.TextureFormat

	// SampleCount is the MSAA sample count of the render target.
	// Zero means 1.
	SampleCount uint32

	// YFlip selects the vertical orientation of the target. When true,
	// overlay y=0 maps to the top edge, matching surface presentation.
	// When false, y=0 maps to the bottom edge, matching offscreen
	// targets that are read back bottom-up.
	YFlip bool

	// ScaleFactor maps logical overlay pixels to physical target pixels
	// on high-DPI targets. Zero means 1.
	ScaleFactor float32
}

// DefaultOptions returns options for a single-sampled BGRA8 surface
// target: no depth/stencil, y-flipped, scale 1.
func DefaultOptions() Options {
	return Options{
		TargetFormat: gputypes.TextureFormatBGRA8Unorm,
		SampleCount:  1,
		YFlip:        true,
		ScaleFactor:  1,
	}
}

// withDefaults fills zero fields with their documented defaults.
func (o Options) withDefaults() Options {
	if o.TargetFormat == 0 {
		o.TargetFormat = gputypes.TextureFormatBGRA8Unorm
	}
	if o.SampleCount == 0 {
		o.SampleCount = 1
	}
	if o.ScaleFactor == 0 {
		o.ScaleFactor = 1
	}
	return o
}

// Validate reports the first problem with the options. Zero-valued
// fields are valid; they resolve to their defaults.
func (o Options) Validate() error {
	switch o.SampleCount {
	case 0, 1, 2, 4, 8:
	default:
		return fmt.Errorf("wgpu: sample count %d not one of 1, 2, 4, 8", o.SampleCount)
	}
	if o.ScaleFactor < 0 {
		return fmt.Errorf("wgpu: negative scale factor %g", o.ScaleFactor)
	}
	return nil
}
