package overlay

// Style holds the spacing and color configuration of the layout engine.
// The zero value draws everything on top of itself; start from
// [DefaultStyle] and adjust fields as needed.
type Style struct {
	// Margin is the base spacing unit: the gap between items in a group,
	// the padding around group background panels, and (times three) the
	// gap between groups, separators and columns.
	Margin int

	// LineSpacing is the extra vertical space between table rows.
	LineSpacing int

	// MinGroupWidth and MinGroupHeight grow small groups to a minimum
	// footprint before their background panel is emitted.
	MinGroupWidth  int
	MinGroupHeight int

	// ColumnSpacing is the horizontal gap between table columns.
	ColumnSpacing int

	// Background holds the top and bottom stops of the group panel's
	// vertical gradient.
	Background [2]Color

	// TextColor holds the two alternating row text shades. Element 0 is
	// the primary text color used by labels.
	TextColor [2]Color

	// TitleColor is used for table header labels.
	TitleColor Color

	// HighlightColor marks counters whose windowed extremes left their
	// safe range.
	HighlightColor Color
}

// DefaultStyle returns the style an Overlay starts with.
func DefaultStyle() Style {
	return Style{
		Margin:        10,
		LineSpacing:   2,
		ColumnSpacing: 20,
		Background: [2]Color{
			{0, 0, 0, 255},
			{0, 0, 0, 200},
		},
		TextColor: [2]Color{
			{255, 255, 255, 255},
			{200, 200, 200, 255},
		},
		TitleColor:     Color{120, 150, 255, 255},
		HighlightColor: Color{255, 100, 100, 255},
	}
}
