package report

import (
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Assembler turns a record snapshot plus metrics into a Model.
type Assembler struct {
	Now func() time.Time
}

// NewAssembler returns an assembler stamping reports with the wall clock.
func NewAssembler() *Assembler {
	return &Assembler{Now: time.Now}
}

// Assemble builds every block of the report. Inputs are read, never modified.
func (a *Assembler) Assemble(kind Kind, courses []course.Course, assignments []assignment.Assignment, summary metrics.Metrics) *Model {
	now := time.Now
	if a != nil && a.Now != nil {
		now = a.Now
	}

	titles := make(map[int]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}
	courseTitle := func(id int) string {
		if t, ok := titles[id]; ok {
			return t
		}
		return UnknownCourse
	}

	m := &Model{
		Kind:             kind,
		Title:            kind.Title(),
		GeneratedAt:      now().UTC(),
		Summary:          summary,
		CourseRows:       make([]CourseRow, 0, len(courses)),
		AssignmentRows:   make([]AssignmentRow, 0, len(assignments)),
		CourseGrades:     make([]CourseGradeRow, 0, len(courses)),
		AssignmentGrades: make([]AssignmentGradeRow, 0),
	}

	for _, c := range courses {
		owned := assignment.ByCourse(assignments, c.ID)

		m.CourseRows = append(m.CourseRows, CourseRow{
			Title:      c.Title,
			Instructor: c.Instructor,
			Credits:    c.Credits,
			Completion: completionPercent(owned),
			Grade:      optionalGrade(c.Grade),
		})

		avg := averageGrade(owned)
		m.CourseGrades = append(m.CourseGrades, CourseGradeRow{
			Title:      c.Title,
			Instructor: c.Instructor,
			Credits:    c.Credits,
			Average:    avg,
			Letter:     metrics.LetterGrade(float64(avg)),
		})
	}

	for _, as := range assignments {
		due := timeutil.ShortDate(as.DueDate)
		m.AssignmentRows = append(m.AssignmentRows, AssignmentRow{
			Title:   as.Title,
			Course:  courseTitle(as.CourseID),
			DueDate: due,
			Status:  as.Status.String(),
			Grade:   optionalGrade(as.Grade),
			Type:    as.Type,
		})

		if as.Grade == nil {
			continue
		}
		m.AssignmentGrades = append(m.AssignmentGrades, AssignmentGradeRow{
			Title:   as.Title,
			Course:  courseTitle(as.CourseID),
			Type:    as.Type,
			DueDate: due,
			Grade:   metrics.GradePercent(*as.Grade),
			Letter:  metrics.LetterGrade(*as.Grade),
			Status:  as.Status.String(),
		})
	}

	return m
}

func completionPercent(items []assignment.Assignment) int {
	if len(items) == 0 {
		return 0
	}
	done := 0
	for _, a := range items {
		if a.IsCompleted() {
			done++
		}
	}
	return metrics.RoundHalfUp(float64(done) / float64(len(items)) * 100)
}

// averageGrade is the rounded mean of graded assignments, 0 when none are graded.
func averageGrade(items []assignment.Assignment) int {
	var sum float64
	n := 0
	for _, a := range items {
		if a.Grade != nil {
			sum += *a.Grade
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return metrics.RoundHalfUp(sum / float64(n))
}

func optionalGrade(g *float64) string {
	if g == nil {
		return NotAvailable
	}
	return metrics.GradePercent(*g)
}
