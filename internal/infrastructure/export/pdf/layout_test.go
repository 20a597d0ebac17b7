package pdf

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
)

func section(rows int) report.Section {
	sec := report.Section{Key: "T", Heading: "T", Columns: []string{"A", "B"}}
	for i := 0; i < rows; i++ {
		sec.Rows = append(sec.Rows, []string{fmt.Sprint(i), "x"})
	}
	return sec
}

func TestPlaceSection_FirstSectionPositions(t *testing.T) {
	l := DefaultLayout()
	p, next := l.PlaceSection(l.Start(), section(4))

	assert.Equal(t, 1, p.HeadingPage)
	assert.Equal(t, 50.0, p.HeadingY)
	require.Len(t, p.Table.Segments, 1)
	assert.Equal(t, Segment{Page: 1, Top: 55, Start: 0, End: 4}, p.Table.Segments[0])
	assert.Equal(t, 85.0, p.Table.ColumnWidth)
	// header + 4 rows of 8mm
	assert.Equal(t, Cursor{Page: 1, Y: 95}, next)
}

func TestPlaceSection_FollowingSectionOffsets(t *testing.T) {
	l := DefaultLayout()
	p, _ := l.PlaceSection(Cursor{Page: 1, Y: 95}, section(1))

	assert.Equal(t, 115.0, p.HeadingY)
	assert.Equal(t, 120.0, p.Table.Segments[0].Top)
}

func TestPlaceTable_ContinuesOnNewPage(t *testing.T) {
	l := DefaultLayout()
	// from y=55 the page holds the header plus 26 rows (55+8*27=271 <= 277)
	tp, next := l.PlaceTable(Cursor{Page: 1, Y: 55}, section(40))

	require.Len(t, tp.Segments, 2)
	assert.Equal(t, Segment{Page: 1, Top: 55, Start: 0, End: 26}, tp.Segments[0])
	assert.Equal(t, Segment{Page: 2, Top: 20, Start: 26, End: 40}, tp.Segments[1])
	assert.Equal(t, Cursor{Page: 2, Y: 20 + 8*15}, next)
}

func TestPlaceTable_EmptySectionDrawsHeaderOnly(t *testing.T) {
	l := DefaultLayout()
	tp, next := l.PlaceTable(Cursor{Page: 1, Y: 55}, section(0))

	require.Len(t, tp.Segments, 1)
	assert.Equal(t, 0, tp.Segments[0].End)
	assert.Equal(t, Cursor{Page: 1, Y: 63}, next)
}

func TestPlaceSection_MovesToNextPageWhenNoRoom(t *testing.T) {
	l := DefaultLayout()
	p, next := l.PlaceSection(Cursor{Page: 1, Y: 250}, section(2))

	assert.Equal(t, 2, p.HeadingPage)
	assert.Equal(t, 20.0, p.HeadingY)
	assert.Equal(t, 25.0, p.Table.Segments[0].Top)
	assert.Equal(t, Cursor{Page: 2, Y: 49}, next)
}

func TestPlaceTable_IsPure(t *testing.T) {
	l := DefaultLayout()
	c := Cursor{Page: 3, Y: 100}
	a, ca := l.PlaceTable(c, section(50))
	b, cb := l.PlaceTable(c, section(50))
	assert.Equal(t, a, b)
	assert.Equal(t, ca, cb)
	assert.Equal(t, Cursor{Page: 3, Y: 100}, c)
}
