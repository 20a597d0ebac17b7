package pdf

import "github.com/learnhub/learnhub-dashboard/internal/domain/report"

// Cursor is a vertical position on a given page. It is passed by value;
// every placement returns the cursor that follows it.
type Cursor struct {
	Page int
	Y    float64
}

// Segment is the part of a table drawn on one page: a header row at Top
// followed by body rows [Start, End).
type Segment struct {
	Page  int
	Top   float64
	Start int
	End   int
}

// TablePlacement describes where a table's rows land.
type TablePlacement struct {
	ColumnWidth float64
	Segments    []Segment
}

// SectionPlacement positions a section heading and its table.
type SectionPlacement struct {
	HeadingPage int
	HeadingY    float64
	Table       TablePlacement
}

// Layout holds the page geometry in millimetres.
type Layout struct {
	PageHeight   float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	Width        float64
	RowHeight    float64
	TitleY       float64
	SubtitleY    float64
	HeadingGap   float64 // cursor to heading baseline
	TableGap     float64 // cursor to table top
}

// DefaultLayout is A4 portrait with 20mm margins.
func DefaultLayout() Layout {
	return Layout{
		PageHeight:   297,
		MarginTop:    20,
		MarginBottom: 20,
		MarginLeft:   20,
		Width:        170,
		RowHeight:    8,
		TitleY:       25,
		SubtitleY:    35,
		HeadingGap:   20,
		TableGap:     25,
	}
}

// Start is the cursor after the title block. The first heading lands at
// y=50 and its table at y=55.
func (l Layout) Start() Cursor {
	return Cursor{Page: 1, Y: 30}
}

func (l Layout) bottom() float64 {
	return l.PageHeight - l.MarginBottom
}

// PlaceSection positions a heading and table after c. When the header row
// and the first body row do not fit, the whole section moves to a new page.
func (l Layout) PlaceSection(c Cursor, sec report.Section) (SectionPlacement, Cursor) {
	page := c.Page
	headingY := c.Y + l.HeadingGap
	tableY := c.Y + l.TableGap

	if tableY+2*l.RowHeight > l.bottom() {
		page++
		headingY = l.MarginTop
		tableY = l.MarginTop + (l.TableGap - l.HeadingGap)
	}

	table, next := l.PlaceTable(Cursor{Page: page, Y: tableY}, sec)
	return SectionPlacement{HeadingPage: page, HeadingY: headingY, Table: table}, next
}

// PlaceTable splits sec's rows into per-page segments starting at c. Each
// continuation page repeats the header row at the top margin. The returned
// cursor sits just below the last drawn row.
func (l Layout) PlaceTable(c Cursor, sec report.Section) (TablePlacement, Cursor) {
	cols := len(sec.Columns)
	if cols == 0 {
		cols = 1
	}
	tp := TablePlacement{ColumnWidth: l.Width / float64(cols)}

	n := len(sec.Rows)
	page, y, i := c.Page, c.Y, 0
	for {
		seg := Segment{Page: page, Top: y, Start: i}
		y += l.RowHeight
		for i < n && y+l.RowHeight <= l.bottom() {
			i++
			y += l.RowHeight
		}
		// a fresh page always takes at least one row
		if i == seg.Start && i < n && seg.Top == l.MarginTop {
			i++
			y += l.RowHeight
		}
		seg.End = i
		tp.Segments = append(tp.Segments, seg)
		if i >= n {
			break
		}
		page++
		y = l.MarginTop
	}
	return tp, Cursor{Page: page, Y: y}
}
