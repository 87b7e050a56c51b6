package overlay

import (
	"fmt"
	"strconv"
)

// ColumnKind selects what a table column renders for each counter row.
type ColumnKind uint8

const (
	// ColumnEmpty renders nothing.
	ColumnEmpty ColumnKind = iota
	// ColumnColor renders a small swatch of the counter's descriptor color.
	ColumnColor
	// ColumnName renders the counter name, with its unit in parentheses
	// when the column carries units.
	ColumnName
	// ColumnValue renders the most recently set value.
	ColumnValue
	// ColumnAvg, ColumnMin and ColumnMax render the committed window
	// aggregates.
	ColumnAvg
	ColumnMin
	ColumnMax
	// ColumnHistoryGraph renders a line-high bar graph of the counter's
	// history, one pixel per slot.
	ColumnHistoryGraph
	// ColumnChanged is reserved and renders nothing.
	ColumnChanged
)

// Column is one table column: a kind plus formatting switches.
type Column struct {
	Kind ColumnKind

	// Unit appends the counter's unit to value cells, or to the name for
	// name columns.
	Unit bool

	// Label is printed in the header row when the table has labels.
	Label string
}

// ColorColumn returns a descriptor-color swatch column.
func ColorColumn() Column { return Column{Kind: ColumnColor} }

// NameColumn returns a counter-name column.
func NameColumn() Column { return Column{Kind: ColumnName} }

// ValueColumn returns a column showing the last set value.
func ValueColumn() Column { return Column{Kind: ColumnValue} }

// AvgColumn returns a column showing the window average.
func AvgColumn() Column { return Column{Kind: ColumnAvg} }

// MinColumn returns a column showing the window minimum.
func MinColumn() Column { return Column{Kind: ColumnMin} }

// MaxColumn returns a column showing the window maximum.
func MaxColumn() Column { return Column{Kind: ColumnMax} }

// HistoryGraphColumn returns a per-row mini graph column.
func HistoryGraphColumn() Column { return Column{Kind: ColumnHistoryGraph} }

// WithUnit returns the column with unit rendering enabled.
func (c Column) WithUnit() Column {
	c.Unit = true
	return c
}

// WithLabel returns the column with a header label.
func (c Column) WithLabel(label string) Column {
	c.Label = label
	return c
}

// Table is an Item rendering a set of counters as rows under configurable
// columns. Row text alternates between the style's two text shades; a row
// whose counter left its safe range renders in the highlight color.
type Table struct {
	Columns []Column
	Rows    []*Counter

	// Labels adds a header row with the column labels in the title color.
	Labels bool
}

// Draw renders the table column by column. Each column is as wide as its
// widest cell plus the style's column spacing.
func (t Table) Draw(pos Point, o *Overlay) Rect {
	font := o.Geometry().Font()
	bounds := RectAt(pos)
	rowHeight := o.Style.LineSpacing + font.LineHeight

	// First baseline sits one line height below the layout position.
	y0 := pos.Y + font.LineHeight
	x := pos.X
	for _, col := range t.Columns {
		y := y0
		if t.Labels {
			if col.Label != "" {
				r := o.Geometry().PushText(FrontLayer, col.Label, Pt(x, y), o.Style.TitleColor)
				bounds = bounds.ExtendPoint(r.Max)
			}
			y += rowHeight + o.Style.Margin
		}

		colorIdx := 0
		for _, row := range t.Rows {
			color := o.Style.TextColor[colorIdx]
			if sr := row.Desc().SafeRange; sr != nil && (row.Max() > sr.End || row.Min() < sr.Start) {
				color = o.Style.HighlightColor
			}
			cell := t.drawCell(o, col, row, Pt(x, y), color)
			bounds = bounds.ExtendPoint(cell.Max)
			y += rowHeight
			colorIdx = (colorIdx + 1) % 2
		}

		x += max(bounds.Max.X-x, 0) + o.Style.ColumnSpacing
	}
	return bounds
}

// drawCell renders one cell with its text baseline at pos and returns the
// rectangle it covered. Cells whose backing aggregate holds no data come
// back degenerate and render nothing.
func (t Table) drawCell(o *Overlay, col Column, c *Counter, pos Point, color Color) Rect {
	geo := o.Geometry()
	switch col.Kind {
	case ColumnColor:
		rect := Rect{Min: Pt(pos.X, pos.Y-11), Max: Pt(pos.X+10, pos.Y-1)}
		geo.PushRectangle(FrontLayer, rect, c.Desc().Color, c.Desc().Color)
		return rect

	case ColumnName:
		s := c.Name()
		if col.Unit && c.Desc().Unit != "" {
			s = fmt.Sprintf("%s (%s)", s, c.Desc().Unit)
		}
		return geo.PushText(FrontLayer, s, pos, color)

	case ColumnValue, ColumnAvg, ColumnMin, ColumnMax:
		var val float32
		switch col.Kind {
		case ColumnValue:
			val = c.Last()
		case ColumnAvg:
			val = c.Avg()
		case ColumnMin:
			val = c.Min()
		default:
			val = c.Max()
		}
		if !isFinite(val) {
			return RectAt(pos)
		}
		var s string
		if c.Desc().Format == FormatInt {
			s = fmt.Sprintf("%5s", strconv.FormatFloat(float64(val), 'f', -1, 32))
		} else {
			s = fmt.Sprintf("%5.2f", val)
		}
		if col.Unit {
			s += c.Desc().Unit
		}
		return geo.PushText(FrontLayer, s, pos, color)

	case ColumnHistoryGraph:
		if n := c.HistoryLen(); n > 0 {
			rect := Rect{Min: Pt(pos.X, pos.Y-o.Geometry().Font().LineHeight), Max: Pt(pos.X+n, pos.Y)}
			// Millisecond counters scale against half a 60 Hz frame so a
			// quiet timing history stays visually quiet.
			ref := float32(0)
			if c.Desc().Unit == "ms" {
				ref = 8
			}
			DrawGraph(geo, FrontLayer, rect, c, ref, color, Vertical)
			return rect
		}
		return RectAt(pos)

	default:
		// ColumnEmpty and the reserved ColumnChanged.
		// TODO: render a change indicator for ColumnChanged once counters
		// retain the previous window's aggregates to diff against.
		return RectAt(pos)
	}
}
