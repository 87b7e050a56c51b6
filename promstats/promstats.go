package promstats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/gogpu/overlay"
)

// Options configures a Bridge.
type Options struct {
	// Filter selects which metric families to bridge by name. Nil bridges
	// every supported family.
	Filter func(name string) bool

	// Palette supplies counter colors, cycled in family order. Nil uses
	// the built-in palette.
	Palette []overlay.Color
}

// defaultPalette keeps bridged counters visually distinct without
// configuration.
var defaultPalette = []overlay.Color{
	overlay.RGB(100, 220, 100),
	overlay.RGB(100, 160, 255),
	overlay.RGB(255, 200, 80),
	overlay.RGB(255, 120, 120),
	overlay.RGB(180, 130, 255),
	overlay.RGB(110, 220, 220),
	overlay.RGB(250, 160, 210),
	overlay.RGB(200, 200, 120),
}

// kind tracks how a family's value maps onto its counter.
type kind uint8

const (
	kindGauge kind = iota
	kindCounter
)

// binding ties one metric family to one registry counter.
type binding struct {
	family string
	id     overlay.ID
	kind   kind
	prev   float64 // last absolute counter value, for deltas
}

// Bridge samples a prometheus.Gatherer into one overlay counter group.
//
// Bridge follows the registry's single-writer discipline: call Update
// from the goroutine that owns the registry, once per frame before
// Registry.Update.
type Bridge struct {
	g        prometheus.Gatherer
	reg      *overlay.Registry
	group    overlay.Group
	bindings []binding
}

// New gathers once from g to discover metric families and registers a
// counter group covering them under groupName.
//
// Gauge families map to the gauge's instantaneous value and counter
// families to the per-update increase; other metric types are skipped
// with a debug log. Families carrying labels are aggregated by summing
// all their series.
func New(g prometheus.Gatherer, reg *overlay.Registry, groupName string, opts Options) (*Bridge, error) {
	if g == nil {
		return nil, fmt.Errorf("promstats: nil gatherer")
	}
	if reg == nil {
		return nil, fmt.Errorf("promstats: nil registry")
	}

	mfs, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("promstats: initial gather: %w", err)
	}
	sort.Slice(mfs, func(i, j int) bool { return mfs[i].GetName() < mfs[j].GetName() })

	palette := opts.Palette
	if len(palette) == 0 {
		palette = defaultPalette
	}

	b := &Bridge{g: g, reg: reg}
	var descs []overlay.Descriptor
	for _, mf := range mfs {
		name := mf.GetName()
		if opts.Filter != nil && !opts.Filter(name) {
			continue
		}

		var k kind
		switch mf.GetType() {
		case dto.MetricType_GAUGE:
			k = kindGauge
		case dto.MetricType_COUNTER:
			k = kindCounter
		default:
			overlay.Logger().Debug("promstats: skipping unsupported metric family",
				"family", name, "type", mf.GetType().String())
			continue
		}

		id := overlay.ID(len(descs))
		descs = append(descs, overlay.FloatDescriptor(id, name, unitFor(name)).
			WithColor(palette[len(descs)%len(palette)]))

		bind := binding{family: name, id: id, kind: k}
		if k == kindCounter {
			// Prime the baseline so the first Update reports the increase
			// since New, not since process start.
			bind.prev = familyValue(mf, k)
		}
		b.bindings = append(b.bindings, bind)
	}

	b.group = reg.RegisterGroup(groupName, descs)
	for i := range b.bindings {
		b.bindings[i].id = b.group.Counter(int(b.bindings[i].id))
	}
	return b, nil
}

// Update re-gathers and publishes every bound family's current value as
// the frame's pending sample. A family missing from the gather records
// "no observation" for the frame; one whose type changed is skipped with
// a warning.
func (b *Bridge) Update() error {
	mfs, err := b.g.Gather()
	if err != nil {
		return fmt.Errorf("promstats: gather: %w", err)
	}

	byName := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		byName[mf.GetName()] = mf
	}

	for i := range b.bindings {
		bind := &b.bindings[i]
		mf, ok := byName[bind.family]
		if !ok {
			b.reg.SetNone(bind.id)
			continue
		}
		if !typeMatches(mf.GetType(), bind.kind) {
			overlay.Logger().Warn("promstats: metric family changed type",
				"family", bind.family, "type", mf.GetType().String())
			continue
		}

		v := familyValue(mf, bind.kind)
		switch bind.kind {
		case kindGauge:
			b.reg.Set(bind.id, float32(v))
		case kindCounter:
			delta := v - bind.prev
			if delta < 0 {
				// Counter reset: the new absolute value is the whole
				// increase.
				delta = v
			}
			bind.prev = v
			b.reg.Set(bind.id, float32(delta))
		}
	}
	return nil
}

// Group returns the registered counter group, for building tables and
// graphs over the bridged metrics.
func (b *Bridge) Group() overlay.Group {
	return b.group
}

// familyValue sums the family's series into one observation.
func familyValue(mf *dto.MetricFamily, k kind) float64 {
	var sum float64
	for _, m := range mf.GetMetric() {
		switch k {
		case kindGauge:
			sum += m.GetGauge().GetValue()
		case kindCounter:
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}

func typeMatches(t dto.MetricType, k kind) bool {
	switch k {
	case kindGauge:
		return t == dto.MetricType_GAUGE
	case kindCounter:
		return t == dto.MetricType_COUNTER
	}
	return false
}

// unitFor derives a display unit from conventional metric name suffixes.
func unitFor(name string) string {
	name = strings.TrimSuffix(name, "_total")
	switch {
	case strings.HasSuffix(name, "_bytes"):
		return "B"
	case strings.HasSuffix(name, "_seconds"):
		return "s"
	}
	return ""
}
