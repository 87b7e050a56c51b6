package overlay

import (
	"iter"
	"math"
)

// nan32 is the "no data" sentinel used throughout the counter pipeline.
var nan32 = float32(math.NaN())

// isFinite reports whether v is neither NaN nor infinite.
func isFinite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Format selects how a counter's values are printed in tables.
type Format uint8

const (
	// FormatInt prints values right-aligned with no forced decimals.
	FormatInt Format = iota
	// FormatFloat prints values with two decimal places.
	FormatFloat
)

// Range is an inclusive value interval.
type Range struct {
	Start, End float32
}

// ID identifies a counter within its Registry. IDs are dense, zero-based
// and stable: assigned in registration order and never reused for the
// registry's lifetime.
type ID uint16

// Descriptor is the immutable metadata of a counter.
//
// At registration time the ID field holds the counter's batch-local index,
// which must match its position in the registered slice; see
// [Registry.RegisterGroup].
type Descriptor struct {
	// ID is the counter's zero-based position within its registration
	// batch.
	ID ID
	// Name is shown by table name columns and lookups.
	Name string
	// Unit is appended to formatted values ("ms", "MB").
	Unit string
	// Format selects integer or two-decimal cell formatting.
	Format Format
	// Color is the series color used by stacked graphs and swatches.
	Color Color
	// SafeRange, when non-nil, bounds the expected value range; table rows
	// whose windowed extremes leave it render highlighted.
	SafeRange *Range
}

// IntDescriptor creates an integer-formatted descriptor with the default
// white series color.
func IntDescriptor(id ID, name, unit string) Descriptor {
	return Descriptor{ID: id, Name: name, Unit: unit, Format: FormatInt, Color: RGB(255, 255, 255)}
}

// FloatDescriptor creates a float-formatted descriptor with the default
// white series color.
func FloatDescriptor(id ID, name, unit string) Descriptor {
	return Descriptor{ID: id, Name: name, Unit: unit, Format: FormatFloat, Color: RGB(255, 255, 255)}
}

// WithColor returns a copy of the descriptor with the series color set.
func (d Descriptor) WithColor(c Color) Descriptor {
	d.Color = c
	return d
}

// WithSafeRange returns a copy of the descriptor with the highlight range
// set to [start, end].
func (d Descriptor) WithSafeRange(start, end float32) Descriptor {
	d.SafeRange = &Range{Start: start, End: end}
	return d
}

// Counter holds the per-frame sampling state of a single metric.
//
// Samples follow a two-stage protocol: Set records the pending sample for
// the current frame (the last write wins) and Update, driven once per frame
// by [Registry.Update], folds it into the window accumulators and rotates
// the history ring. The aggregates reported by Avg, Min and Max recompute
// only on window boundaries; NaN means "no data".
type Counter struct {
	desc Descriptor

	current float32 // pending sample, NaN = unset
	last    float32 // most recent value ever set

	// Window accumulators, reset on every boundary.
	sum     float32
	samples int
	winMin  float32
	winMax  float32

	// Aggregates committed at the last window boundary.
	avg float32
	min float32
	max float32

	// Rolling per-frame history, oldest first. nil = disabled.
	history []float32
}

// newCounter returns a counter in the fresh state: no pending sample, no
// committed aggregates. The window extremes start at zero rather than the
// usual sentinels; the first boundary reset installs those.
func newCounter(desc Descriptor) Counter {
	return Counter{
		desc:    desc,
		current: nan32,
		last:    nan32,
		avg:     nan32,
		min:     nan32,
		max:     nan32,
	}
}

// Set records v as the pending sample for the current frame, replacing any
// earlier value set this frame.
func (c *Counter) Set(v float32) {
	c.current = v
	c.last = v
}

// SetNone clears the pending sample, recording "no observation" for the
// frame. The most recent set value stays visible through Last.
func (c *Counter) SetNone() {
	c.current = nan32
}

// Update commits the pending sample: a finite value extends the window
// accumulators, the history ring rotates by one slot regardless, and the
// pending sample is cleared. On a window boundary the displayed aggregates
// are recomputed and the accumulators reset.
func (c *Counter) Update(windowBoundary bool) {
	cur := c.current
	if isFinite(cur) {
		c.samples++
		c.sum += cur
		if cur < c.winMin {
			c.winMin = cur
		}
		if cur > c.winMax {
			c.winMax = cur
		}
	}

	if len(c.history) > 0 {
		copy(c.history, c.history[1:])
		c.history[len(c.history)-1] = cur
	}

	c.current = nan32

	if windowBoundary {
		if c.samples > 0 {
			c.avg = c.sum / float32(c.samples)
			c.min = c.winMin
			c.max = c.winMax
		} else {
			c.avg = nan32
			c.min = nan32
			c.max = nan32
		}
		c.sum = 0
		c.samples = 0
		c.winMin = math.MaxFloat32
		c.winMax = -math.MaxFloat32
	}
}

// EnableHistory resets the history ring to exactly n "no sample" slots,
// discarding any previous content.
func (c *Counter) EnableHistory(n int) {
	c.history = make([]float32, n)
	for i := range c.history {
		c.history[i] = nan32
	}
}

// DisableHistory frees the history ring.
func (c *Counter) DisableHistory() {
	c.history = nil
}

// HistoryLen reports the configured history length, 0 while disabled.
func (c *Counter) HistoryLen() int { return len(c.history) }

// History yields the recorded samples oldest to newest. The second value
// is false for frames that held no finite sample. Nothing is yielded while
// history is disabled.
func (c *Counter) History() iter.Seq2[float32, bool] {
	return func(yield func(float32, bool) bool) {
		for _, v := range c.history {
			if !yield(v, isFinite(v)) {
				return
			}
		}
	}
}

// Last returns the most recent value passed to Set, NaN before the first.
func (c *Counter) Last() float32 { return c.last }

// Avg returns the average committed at the last window boundary, NaN when
// that window held no samples.
func (c *Counter) Avg() float32 { return c.avg }

// Min returns the minimum committed at the last window boundary.
func (c *Counter) Min() float32 { return c.min }

// Max returns the maximum committed at the last window boundary.
func (c *Counter) Max() float32 { return c.max }

// Desc returns the counter's descriptor.
func (c *Counter) Desc() Descriptor { return c.desc }

// Name returns the descriptor's name.
func (c *Counter) Name() string { return c.desc.Name }
