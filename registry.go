package overlay

import (
	"fmt"
	"iter"
	"math"
)

// DefaultAvgWindow is the default number of frames per averaging window,
// half a second at 60 Hz.
const DefaultAvgWindow = 30

// Group is a named, contiguous range of counter IDs within a Registry.
// Groups partition the registry's counter array in registration order and
// never overlap.
type Group struct {
	// Name is the group name passed to RegisterGroup.
	Name string

	start ID
	end   ID
}

// Counter maps the group's i-th batch-local index to its registry-wide ID.
// The index is not bounds-checked; callers pass the same constants they
// registered the descriptors with.
func (g Group) Counter(i int) ID {
	return g.start + ID(i)
}

// Len returns the number of counters in the group.
func (g Group) Len() int {
	return int(g.end - g.start)
}

// IDs yields every ID in the group in registration order.
func (g Group) IDs() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for id := g.start; id < g.end; id++ {
			if !yield(id) {
				return
			}
		}
	}
}

// Registry owns every registered counter and drives the per-frame tick.
//
// Registry is not synchronized and follows a single-writer discipline: one
// goroutine owns registration, Set and Update. Other goroutines may read
// committed statistics only while the owner is not mutating, which in
// practice means the owner publishes derived data instead of sharing the
// registry.
type Registry struct {
	// AvgWindow is the number of frames between windowed-average commits.
	// Adjust before the first Update.
	AvgWindow int

	groups      []Group
	counters    []Counter
	historySize int
	frame       int
}

// NewRegistry returns an empty registry. historySize is the ring length
// that EnableHistory applies to a counter.
func NewRegistry(historySize int) *Registry {
	return &Registry{
		AvgWindow:   DefaultAvgWindow,
		historySize: historySize,
	}
}

// RegisterGroup appends one counter per descriptor and returns the group
// covering them. Each descriptor's declared ID must equal its zero-based
// position within descs; the returned group translates those batch-local
// IDs into registry-wide ones. Group ranges are fixed permanently.
//
// RegisterGroup panics when a descriptor ID is out of order or when the
// registry would outgrow the 16-bit ID space; both are structural
// programmer errors.
func (r *Registry) RegisterGroup(name string, descs []Descriptor) Group {
	start := len(r.counters)
	if start+len(descs) >= math.MaxUint16 {
		panic("overlay: registered too many counters")
	}
	for i, d := range descs {
		if d.ID != ID(i) {
			panic(fmt.Sprintf("overlay: group %q: descriptor %d declares id %d, want %d", name, i, d.ID, i))
		}
		r.counters = append(r.counters, newCounter(d))
	}
	g := Group{Name: name, start: ID(start), end: ID(start + len(descs))}
	r.groups = append(r.groups, g)
	return g
}

// Update advances the frame clock and commits every counter's pending
// sample. A window boundary occurs every AvgWindow frames. Call exactly
// once per frame, after all Sets.
func (r *Registry) Update() {
	r.frame++
	boundary := r.frame == r.AvgWindow
	for i := range r.counters {
		r.counters[i].Update(boundary)
	}
	if boundary {
		r.frame = 0
	}
}

// Set records v as the pending sample of counter id.
func (r *Registry) Set(id ID, v float32) {
	r.counters[id].Set(v)
}

// SetNone records "no observation" for counter id this frame.
func (r *Registry) SetNone(id ID) {
	r.counters[id].SetNone()
}

// EnableHistory gives counter id a rolling history of the registry's
// configured length.
func (r *Registry) EnableHistory(id ID) {
	r.counters[id].EnableHistory(r.historySize)
}

// DisableHistory frees counter id's history.
func (r *Registry) DisableHistory(id ID) {
	r.counters[id].DisableHistory()
}

// Counter returns the counter registered under id.
func (r *Registry) Counter(id ID) *Counter {
	return &r.counters[id]
}

// Select appends the counters for the given IDs to dst and returns the
// extended slice. dst may be reused across frames to avoid allocation.
func (r *Registry) Select(ids iter.Seq[ID], dst []*Counter) []*Counter {
	for id := range ids {
		dst = append(dst, &r.counters[id])
	}
	return dst
}

// FindGroupByName returns the group registered under name. It is a linear
// scan meant for tools and tests, not the per-frame path.
func (r *Registry) FindGroupByName(name string) (Group, bool) {
	for _, g := range r.groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

// FindCounterByName returns the ID of the named counter within the named
// group.
func (r *Registry) FindCounterByName(groupName, counterName string) (ID, bool) {
	g, ok := r.FindGroupByName(groupName)
	if !ok {
		return 0, false
	}
	for id := g.start; id < g.end; id++ {
		if r.counters[id].desc.Name == counterName {
			return id, true
		}
	}
	return 0, false
}
