// Package report builds the format-neutral report model shared by the CSV and
// PDF serializers. All business rules for report content live here; the
// serializers only lay out Sections.
package report

import (
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Kind selects which report is produced.
type Kind string

const (
	KindProgress Kind = "progress"
	KindGrades   Kind = "grades"
)

// ParseKind validates a report kind name.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(s)) {
	case KindProgress:
		return KindProgress, nil
	case KindGrades:
		return KindGrades, nil
	}
	return "", shared.ErrUnknownReportKind
}

// Title is the document title, e.g. "Progress Report".
func (k Kind) Title() string {
	if k == KindGrades {
		return "Grade Summary"
	}
	return "Progress Report"
}

// FileStem is the download name prefix, e.g. "progress-report".
func (k Kind) FileStem() string {
	if k == KindGrades {
		return "grade-summary"
	}
	return "progress-report"
}

// NotAvailable is rendered for missing grades.
const NotAvailable = "N/A"

// UnknownCourse is rendered when an assignment's course cannot be resolved.
const UnknownCourse = "Unknown"

// CourseRow is one line of the course progress block.
type CourseRow struct {
	Title      string
	Instructor string
	Credits    int
	Completion int    // percent of the course's assignments completed
	Grade      string // stored course grade or N/A
}

// AssignmentRow is one line of the assignment detail block.
type AssignmentRow struct {
	Title   string
	Course  string
	DueDate string
	Status  string
	Grade   string
	Type    string
}

// CourseGradeRow is the per-course average of graded assignments.
type CourseGradeRow struct {
	Title      string
	Instructor string
	Credits    int
	Average    int
	Letter     string
}

// AssignmentGradeRow is one graded assignment.
type AssignmentGradeRow struct {
	Title   string
	Course  string
	Type    string
	DueDate string
	Grade   string
	Letter  string
	Status  string
}

// Model is the hierarchical, format-neutral report. It is built per export
// and discarded after serialization.
type Model struct {
	Kind             Kind
	Title            string
	GeneratedAt      time.Time
	Summary          metrics.Metrics
	CourseRows       []CourseRow
	AssignmentRows   []AssignmentRow
	CourseGrades     []CourseGradeRow
	AssignmentGrades []AssignmentGradeRow
}

// Section is one titled table of a report.
type Section struct {
	Key     string   // CSV header, e.g. "SUMMARY METRICS"
	Heading string   // document heading, e.g. "Summary Metrics"
	Columns []string // column header line
	Rows    [][]string
}
