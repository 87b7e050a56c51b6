package overlay

import (
	"math"
	"testing"
)

// checkF32 compares floats, treating NaN as equal to NaN.
func checkF32(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.IsNaN(float64(want)) {
		if !math.IsNaN(float64(got)) {
			t.Errorf("%s = %v, want NaN", name, got)
		}
		return
	}
	if math.Abs(float64(got-want)) > 1e-5 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

type histSample struct {
	val float32
	ok  bool
}

func collectHistory(c *Counter) []histSample {
	var out []histSample
	for v, ok := range c.History() {
		out = append(out, histSample{val: v, ok: ok})
	}
	return out
}

func TestCounterFreshState(t *testing.T) {
	c := newCounter(IntDescriptor(0, "test", ""))

	checkF32(t, "Last", c.Last(), nan32)
	checkF32(t, "Avg", c.Avg(), nan32)
	checkF32(t, "Min", c.Min(), nan32)
	checkF32(t, "Max", c.Max(), nan32)
	if c.HistoryLen() != 0 {
		t.Errorf("HistoryLen = %d, want 0", c.HistoryLen())
	}
	if got := collectHistory(&c); len(got) != 0 {
		t.Errorf("History yielded %d samples while disabled, want 0", len(got))
	}
}

func TestCounterLastWriteWins(t *testing.T) {
	c := newCounter(IntDescriptor(0, "test", ""))

	c.Set(5)
	c.Set(7)
	c.Update(true)

	checkF32(t, "Avg", c.Avg(), 7)
	checkF32(t, "Min on first window", c.Min(), 0) // fresh extremes start at zero
	checkF32(t, "Max", c.Max(), 7)
	checkF32(t, "Last", c.Last(), 7)
}

func TestCounterSetNoneKeepsLast(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", "ms"))

	c.Set(3)
	c.SetNone()
	c.Update(true)

	// The window saw no sample, but the instantaneous value survives.
	checkF32(t, "Avg", c.Avg(), nan32)
	checkF32(t, "Last", c.Last(), 3)
}

func TestCounterWindowedAggregates(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", "ms"))

	// Skip the first window so the extreme sentinels are installed.
	c.Update(true)

	c.Set(1)
	c.Update(false)
	c.Set(3)
	c.Update(false)

	// Nothing committed before the boundary.
	checkF32(t, "Avg before boundary", c.Avg(), nan32)

	c.Set(2)
	c.Update(true)

	checkF32(t, "Avg", c.Avg(), 2)
	checkF32(t, "Min", c.Min(), 1)
	checkF32(t, "Max", c.Max(), 3)

	// An empty follow-up window resets the aggregates to "no data".
	c.Update(true)
	checkF32(t, "Avg after empty window", c.Avg(), nan32)
	checkF32(t, "Min after empty window", c.Min(), nan32)
	checkF32(t, "Max after empty window", c.Max(), nan32)
}

func TestCounterFirstWindowExtremes(t *testing.T) {
	// A fresh counter's running extremes start at zero, so the first
	// window's committed min/max include zero. From the second window on
	// the usual sentinels apply.
	c := newCounter(FloatDescriptor(0, "test", ""))

	c.Set(5)
	c.Update(true)
	checkF32(t, "first window Min", c.Min(), 0)
	checkF32(t, "first window Max", c.Max(), 5)

	c.Set(5)
	c.Update(true)
	checkF32(t, "second window Min", c.Min(), 5)
	checkF32(t, "second window Max", c.Max(), 5)
}

func TestCounterNonFiniteSamplesSkipAccumulators(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", ""))
	c.Update(true) // install extreme sentinels
	c.EnableHistory(3)

	c.Set(float32(math.Inf(1)))
	c.Update(false)
	c.Set(2)
	c.Update(true)

	// Only the finite sample counts toward the window.
	checkF32(t, "Avg", c.Avg(), 2)
	checkF32(t, "Min", c.Min(), 2)
	checkF32(t, "Max", c.Max(), 2)

	// The history still records both frames; the infinity reads back as
	// "no sample".
	got := collectHistory(&c)
	want := []histSample{{nan32, false}, {0, false}, {2, true}}
	if len(got) != len(want) {
		t.Fatalf("history length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ok != want[i].ok {
			t.Errorf("history[%d].ok = %v, want %v", i, got[i].ok, want[i].ok)
		}
		if want[i].ok {
			checkF32(t, "history value", got[i].val, want[i].val)
		}
	}
}

func TestCounterHistoryRotation(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", ""))
	c.EnableHistory(6)

	c.Set(1)
	c.Update(false)
	c.Set(2)
	c.Update(false)
	c.SetNone()
	c.Update(false)
	c.Set(4)
	c.Update(false)
	c.Set(5)
	c.Update(false)

	got := collectHistory(&c)
	want := []histSample{
		{0, false}, // untouched initial slot
		{1, true},
		{2, true},
		{0, false}, // the SetNone frame
		{4, true},
		{5, true},
	}
	if len(got) != len(want) {
		t.Fatalf("history length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ok != want[i].ok {
			t.Errorf("history[%d] sampled = %v, want %v", i, got[i].ok, want[i].ok)
		}
		if want[i].ok {
			checkF32(t, "history value", got[i].val, want[i].val)
		}
	}
}

func TestCounterHistoryEnableDisable(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", ""))

	c.EnableHistory(4)
	if c.HistoryLen() != 4 {
		t.Fatalf("HistoryLen = %d, want 4", c.HistoryLen())
	}
	c.Set(9)
	c.Update(false)

	// Re-enabling resets every slot to "no sample".
	c.EnableHistory(4)
	for i, s := range collectHistory(&c) {
		if s.ok {
			t.Errorf("history[%d] sampled after re-enable, want empty", i)
		}
	}

	c.DisableHistory()
	if c.HistoryLen() != 0 {
		t.Errorf("HistoryLen = %d after disable, want 0", c.HistoryLen())
	}
	if got := collectHistory(&c); len(got) != 0 {
		t.Errorf("History yielded %d samples after disable, want 0", len(got))
	}
}

func TestCounterHistoryEarlyBreak(t *testing.T) {
	c := newCounter(FloatDescriptor(0, "test", ""))
	c.EnableHistory(8)

	n := 0
	for range c.History() {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("iterated %d slots, want 3", n)
	}
}

func TestDescriptorBuilders(t *testing.T) {
	d := FloatDescriptor(2, "gpu time", "ms").
		WithColor(RGB(255, 0, 0)).
		WithSafeRange(0, 16)

	if d.ID != 2 || d.Name != "gpu time" || d.Unit != "ms" {
		t.Errorf("descriptor fields = %+v", d)
	}
	if d.Format != FormatFloat {
		t.Errorf("Format = %v, want FormatFloat", d.Format)
	}
	if d.Color != RGB(255, 0, 0) {
		t.Errorf("Color = %+v, want red", d.Color)
	}
	if d.SafeRange == nil || d.SafeRange.Start != 0 || d.SafeRange.End != 16 {
		t.Errorf("SafeRange = %+v, want [0, 16]", d.SafeRange)
	}

	di := IntDescriptor(0, "draw calls", "")
	if di.Format != FormatInt {
		t.Errorf("Format = %v, want FormatInt", di.Format)
	}
	if di.Color != RGB(255, 255, 255) {
		t.Errorf("default Color = %+v, want white", di.Color)
	}
	if di.SafeRange != nil {
		t.Errorf("default SafeRange = %+v, want nil", di.SafeRange)
	}
}
