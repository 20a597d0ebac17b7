// Package pdf renders report models as paginated A4 documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

const fontFamily = "Helvetica"

type rgb struct{ r, g, b int }

var (
	accent    = rgb{91, 33, 182}
	muted     = rgb{107, 114, 128}
	headingFg = rgb{31, 41, 55}
	bodyFg    = rgb{17, 24, 39}
	white     = rgb{255, 255, 255}
)

// Serializer renders a report.Model with fpdf. Equal models produce equal
// bytes: document dates are pinned to the model's generation time.
type Serializer struct {
	Layout Layout
	// Brand prefixes the document title, e.g. "LearnHub Progress Report".
	Brand string
}

// NewSerializer creates a PDF serializer using the default A4 layout.
func NewSerializer() *Serializer {
	return &Serializer{Layout: DefaultLayout(), Brand: "LearnHub"}
}

func (s *Serializer) title(m *report.Model) string {
	if s.Brand == "" {
		return m.Title
	}
	return s.Brand + " " + m.Title
}

// Format implements the export serializer contract.
func (s *Serializer) Format() report.Format { return report.FormatPDF }

// Serialize lays out the title block then each section in order.
func (s *Serializer) Serialize(m *report.Model) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("pdf: nil report model")
	}
	l := s.Layout

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCreationDate(m.GeneratedAt)
	doc.SetModificationDate(m.GeneratedAt)
	doc.SetCatalogSort(true)
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(l.MarginLeft, l.MarginTop, l.MarginLeft)
	title := s.title(m)
	doc.SetTitle(title, true)
	doc.SetCreator("LearnHub", true)

	tr := doc.UnicodeTranslatorFromDescriptor("")
	r := &renderer{doc: doc, tr: tr, layout: l}

	doc.AddPage()
	r.color(accent)
	doc.SetFont(fontFamily, "B", 20)
	doc.Text(l.MarginLeft, l.TitleY, tr(title))

	r.color(muted)
	doc.SetFont(fontFamily, "", 12)
	doc.Text(l.MarginLeft, l.SubtitleY, tr("Generated on "+timeutil.ShortDate(m.GeneratedAt)))

	cursor := l.Start()
	for _, sec := range m.Sections() {
		var placement SectionPlacement
		placement, cursor = l.PlaceSection(cursor, sec)
		r.section(sec, placement)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf: render report: %w", err)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: write report: %w", err)
	}
	return buf.Bytes(), nil
}

type renderer struct {
	doc    *fpdf.Fpdf
	tr     func(string) string
	layout Layout
}

func (r *renderer) color(c rgb) {
	r.doc.SetTextColor(c.r, c.g, c.b)
}

func (r *renderer) toPage(page int) {
	for r.doc.PageNo() < page {
		r.doc.AddPage()
	}
}

func (r *renderer) section(sec report.Section, p SectionPlacement) {
	r.toPage(p.HeadingPage)
	r.color(headingFg)
	r.doc.SetFont(fontFamily, "B", 16)
	r.doc.Text(r.layout.MarginLeft, p.HeadingY, r.tr(sec.Heading))

	w := p.Table.ColumnWidth
	h := r.layout.RowHeight
	for _, seg := range p.Table.Segments {
		r.toPage(seg.Page)

		r.doc.SetFillColor(accent.r, accent.g, accent.b)
		r.color(white)
		r.doc.SetFont(fontFamily, "B", 10)
		r.row(sec.Columns, seg.Top, w, h, true)

		r.color(bodyFg)
		r.doc.SetFont(fontFamily, "", 9)
		y := seg.Top + h
		for _, cells := range sec.Rows[seg.Start:seg.End] {
			r.row(cells, y, w, h, false)
			y += h
		}
	}
}

func (r *renderer) row(cells []string, y, w, h float64, fill bool) {
	x := r.layout.MarginLeft
	for _, text := range cells {
		r.doc.SetXY(x, y)
		r.doc.CellFormat(w, h, r.fit(text, w-2), "1", 0, "L", fill, 0, "")
		x += w
	}
}

// fit truncates text with an ellipsis so it stays inside a cell and returns
// it in the document encoding.
func (r *renderer) fit(text string, width float64) string {
	encoded := r.tr(text)
	if r.doc.GetStringWidth(encoded) <= width {
		return encoded
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := r.tr(string(runes) + "...")
		if r.doc.GetStringWidth(candidate) <= width {
			return candidate
		}
	}
	return ""
}
