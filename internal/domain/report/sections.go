package report

import (
	"strconv"

	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
)

// Sections returns the report's tables in their fixed output order:
// summary, course block, assignment block.
func (m *Model) Sections() []Section {
	if m.Kind == KindGrades {
		return []Section{m.summarySection(false), m.courseGradesSection(), m.assignmentGradesSection()}
	}
	return []Section{m.summarySection(true), m.courseProgressSection(), m.assignmentDetailsSection()}
}

func (m *Model) summarySection(withDeadlines bool) Section {
	s := Section{
		Key:     "SUMMARY METRICS",
		Heading: "Summary Metrics",
		Columns: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current GPA", m.Summary.GPA},
			{"Completion Rate", metrics.Percent(m.Summary.CompletionRate)},
		},
	}
	if withDeadlines {
		s.Rows = append(s.Rows,
			[]string{"Upcoming Deadlines", strconv.Itoa(m.Summary.UpcomingDeadlines)},
			[]string{"Overdue Assignments", strconv.Itoa(m.Summary.Overdue)},
		)
	} else {
		s.Heading = "Overall Performance"
	}
	return s
}

func (m *Model) courseProgressSection() Section {
	rows := make([][]string, 0, len(m.CourseRows))
	for _, r := range m.CourseRows {
		rows = append(rows, []string{r.Title, r.Instructor, strconv.Itoa(r.Credits), metrics.Percent(r.Completion), r.Grade})
	}
	return Section{
		Key:     "COURSE PROGRESS",
		Heading: "Course Progress",
		Columns: []string{"Course", "Instructor", "Credits", "Progress", "Grade"},
		Rows:    rows,
	}
}

func (m *Model) assignmentDetailsSection() Section {
	rows := make([][]string, 0, len(m.AssignmentRows))
	for _, r := range m.AssignmentRows {
		rows = append(rows, []string{r.Title, r.Course, r.DueDate, r.Status, r.Grade, r.Type})
	}
	return Section{
		Key:     "ASSIGNMENT DETAILS",
		Heading: "Assignment Details",
		Columns: []string{"Assignment", "Course", "Due Date", "Status", "Grade", "Type"},
		Rows:    rows,
	}
}

func (m *Model) courseGradesSection() Section {
	rows := make([][]string, 0, len(m.CourseGrades))
	for _, r := range m.CourseGrades {
		rows = append(rows, []string{r.Title, r.Instructor, strconv.Itoa(r.Credits), metrics.Percent(r.Average), r.Letter})
	}
	return Section{
		Key:     "COURSE GRADES",
		Heading: "Course Grades",
		Columns: []string{"Course", "Instructor", "Credits", "Current Grade", "Letter Grade"},
		Rows:    rows,
	}
}

func (m *Model) assignmentGradesSection() Section {
	rows := make([][]string, 0, len(m.AssignmentGrades))
	for _, r := range m.AssignmentGrades {
		rows = append(rows, []string{r.Title, r.Course, r.Type, r.DueDate, r.Grade, r.Letter, r.Status})
	}
	return Section{
		Key:     "ASSIGNMENT GRADES",
		Heading: "Assignment Grades",
		Columns: []string{"Assignment", "Course", "Type", "Due Date", "Grade", "Letter", "Status"},
		Rows:    rows,
	}
}
