package overlay

// Orientation selects the axis along which items, groups, or graph bars
// advance.
type Orientation uint8

const (
	Vertical Orientation = iota
	Horizontal
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Vertical:
		return "Vertical"
	case Horizontal:
		return "Horizontal"
	default:
		return "Unknown"
	}
}

// Item is a drawable overlay widget. Draw renders the item with its
// top-left layout position at pos and returns the rectangle it occupied;
// the overlay unions that rectangle into the open group.
//
// Applications implement Item to add their own visualizations next to the
// built-in Label, Graph, Graphs and Table widgets.
type Item interface {
	Draw(pos Point, o *Overlay) Rect
}

// Overlay is an immediate-mode layout engine over a Geometry. Each frame:
// BeginFrame, any number of DrawItem and grouping calls, then Finish. Items
// flow into groups along ItemFlow; groups flow across the frame along
// GroupFlow; every closed group gets a background panel.
//
// The zero flows stack items and groups vertically.
type Overlay struct {
	// Style controls spacing and colors. Adjust between frames, not
	// mid-frame.
	Style Style

	// ItemFlow is the stacking axis for items within a group.
	ItemFlow Orientation

	// GroupFlow is the stacking axis for groups within a column.
	GroupFlow Orientation

	geometry  *Geometry
	groupRect Rect
	inGroup   bool

	// Widest and tallest extents closed so far this frame. PushColumn
	// starts the next column beyond maxX.
	maxX, maxY int
}

// NewOverlay returns an overlay drawing with font into a fresh two-layer
// geometry.
func NewOverlay(font *Font) *Overlay {
	o := &Overlay{
		Style:    DefaultStyle(),
		geometry: NewGeometry(font, 2),
	}
	o.BeginFrame()
	return o
}

// Geometry returns the geometry the overlay draws into. After Finish it
// holds the frame's complete output.
func (o *Overlay) Geometry() *Geometry { return o.geometry }

// BeginFrame clears the geometry and resets layout to the top-left margin.
func (o *Overlay) BeginFrame() {
	o.geometry.BeginFrame()
	start := Pt(o.Style.Margin, o.Style.Margin)
	o.groupRect = RectAt(start)
	o.inGroup = false
	o.maxX = 0
	o.maxY = 0
}

// DrawItem places item at the next cursor position, opening a group first
// if none is open, and grows the group to cover the item.
func (o *Overlay) DrawItem(item Item) {
	first := !o.inGroup
	if first {
		o.beginGroup()
	}

	// No gap before the first item of a group; one margin between
	// consecutive items.
	margin := o.Style.Margin
	if first {
		margin = 0
	}
	var cursor Point
	switch o.ItemFlow {
	case Horizontal:
		cursor = Pt(o.groupRect.Max.X+margin, o.groupRect.Min.Y)
	default:
		cursor = Pt(o.groupRect.Min.X, o.groupRect.Max.Y+margin)
	}

	rect := item.Draw(cursor, o)
	o.groupRect.Min = o.groupRect.Min.Min(rect.Min)
	o.groupRect.Max = o.groupRect.Max.Max(rect.Max)
}

// beginGroup starts a new group after the previous one along GroupFlow,
// with a 3-margin gap unless this is the first group of its row or column.
func (o *Overlay) beginGroup() {
	var start Point
	switch o.GroupFlow {
	case Horizontal:
		margin := 0
		if o.groupRect.Max.X > o.Style.Margin {
			margin = 3 * o.Style.Margin
		}
		start = Pt(o.groupRect.Max.X+margin, o.groupRect.Min.Y)
	default:
		margin := 0
		if o.groupRect.Max.Y > o.Style.Margin {
			margin = 3 * o.Style.Margin
		}
		start = Pt(o.groupRect.Min.X, o.groupRect.Max.Y+margin)
	}
	o.groupRect = RectAt(start)
	o.inGroup = true
}

// EndGroup closes the open group and emits its background panel. Groups
// that never produced geometry are discarded without a panel. No-op when
// no group is open.
func (o *Overlay) EndGroup() {
	if !o.inGroup {
		return
	}
	o.inGroup = false
	if o.groupRect.Empty() {
		return
	}

	o.groupRect.Max.X = max(o.groupRect.Max.X, o.groupRect.Min.X+o.Style.MinGroupWidth)
	o.groupRect.Max.Y = max(o.groupRect.Max.Y, o.groupRect.Min.Y+o.Style.MinGroupHeight)
	o.maxX = max(o.maxX, o.groupRect.Max.X)
	o.maxY = max(o.maxY, o.groupRect.Max.Y)

	bg := o.groupRect.Inflate(o.Style.Margin)
	o.geometry.PushRectangle(BackgroundLayer, bg, o.Style.Background[0], o.Style.Background[1])
}

// PushSeparator adds 3 margins of whitespace along ItemFlow before the
// next item of the open group. No-op when no group is open.
func (o *Overlay) PushSeparator() {
	if !o.inGroup {
		return
	}
	switch o.ItemFlow {
	case Horizontal:
		o.groupRect.Max.X += 3 * o.Style.Margin
	default:
		o.groupRect.Max.Y += 3 * o.Style.Margin
	}
}

// PushColumn closes the open group and moves layout to the top of a new
// column, right of everything drawn so far.
func (o *Overlay) PushColumn() {
	if o.inGroup {
		o.EndGroup()
	}
	start := Pt(o.maxX+3*o.Style.Margin, o.Style.Margin)
	o.groupRect = RectAt(start)
}

// Finish closes any open group. Call once per frame after all items.
func (o *Overlay) Finish() {
	if o.inGroup {
		o.EndGroup()
	}
}

// CurrentGroupWidth returns the width of the open group so far. Zero for a
// fresh group.
func (o *Overlay) CurrentGroupWidth() int { return o.groupRect.Dx() }

// CurrentGroupHeight returns the height of the open group so far. Zero for
// a fresh group.
func (o *Overlay) CurrentGroupHeight() int { return o.groupRect.Dy() }

// Label is a single line of text drawn in the primary text color.
type Label string

// Draw renders the label with its baseline one line height below pos.
func (l Label) Draw(pos Point, o *Overlay) Rect {
	p := Pt(pos.X, pos.Y+o.geometry.Font().LineHeight)
	return o.geometry.PushText(FrontLayer, string(l), p, o.Style.TextColor[0])
}
