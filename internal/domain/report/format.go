package report

import (
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Format is an export file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat validates an export format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", shared.ErrUnknownFormat
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// FileName returns "<stem>-YYYY-MM-DD.<ext>" for a report generated at t.
func FileName(kind Kind, format Format, t time.Time) string {
	return kind.FileStem() + "-" + timeutil.ISODate(t) + "." + string(format)
}
