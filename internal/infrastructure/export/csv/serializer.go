// Package csv writes report models as comma-separated text.
package csv

import (
	"bytes"
	gocsv "encoding/csv"
	"fmt"

	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Serializer renders a report.Model as CSV. Quoting follows RFC 4180:
// fields containing a comma, quote or newline are quoted and embedded
// quotes are doubled.
type Serializer struct{}

// NewSerializer creates a CSV serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// Format implements the export serializer contract.
func (s *Serializer) Format() report.Format { return report.FormatCSV }

// Serialize writes the title line, a blank line, then each section as a
// header line, a column line and its rows, separated by blank lines.
func (s *Serializer) Serialize(m *report.Model) ([]byte, error) {
	if m == nil {
		return nil, fmt.Errorf("csv: nil report model")
	}

	var buf bytes.Buffer
	w := gocsv.NewWriter(&buf)

	// An empty record is a blank separator line, which encoding/csv cannot
	// write itself.
	write := func(record ...string) error {
		if len(record) == 0 {
			w.Flush()
			if err := w.Error(); err != nil {
				return err
			}
			return buf.WriteByte('\n')
		}
		return w.Write(record)
	}

	if err := s.writeModel(m, write); err != nil {
		return nil, fmt.Errorf("csv: write report: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv: write report: %w", err)
	}
	return buf.Bytes(), nil
}

// writeModel emits records in document order and stops at the first error.
func (s *Serializer) writeModel(m *report.Model, write func(record ...string) error) error {
	if err := write(fmt.Sprintf("%s - Generated on %s", m.Title, timeutil.ShortDate(m.GeneratedAt))); err != nil {
		return err
	}
	if err := write(); err != nil {
		return err
	}

	sections := m.Sections()
	for i, sec := range sections {
		if err := write(sec.Key); err != nil {
			return err
		}
		if err := write(sec.Columns...); err != nil {
			return err
		}
		for _, row := range sec.Rows {
			if err := write(row...); err != nil {
				return err
			}
		}
		if i < len(sections)-1 {
			if err := write(); err != nil {
				return err
			}
		}
	}
	return nil
}
