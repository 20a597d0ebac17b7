package csv

import (
	"bytes"
	gocsv "encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
)

func grade(v float64) *float64 { return &v }

func model(kind report.Kind) *report.Model {
	courses := []course.Course{
		{ID: 1, Title: `Intro, "Physics"`, Instructor: "Dr. Chen", Credits: 4, Grade: grade(88)},
	}
	assignments := []assignment.Assignment{
		{ID: 1, Title: "Lab 1", CourseID: 1, DueDate: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), Status: assignment.StatusCompleted, Grade: grade(91), Type: "lab"},
		{ID: 2, Title: "Lab 2", CourseID: 1, DueDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), Status: assignment.StatusPending, Type: "lab"},
	}
	a := &report.Assembler{Now: func() time.Time { return time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC) }}
	summary := metrics.Metrics{GPA: "3.64", CompletionRate: 50, UpcomingDeadlines: 1}
	return a.Assemble(kind, courses, assignments, summary)
}

func TestSerialize_ProgressLayout(t *testing.T) {
	out, err := NewSerializer().Serialize(model(report.KindProgress))
	require.NoError(t, err)

	want := strings.Join([]string{
		`"Progress Report - Generated on Jan 15, 2024"`,
		``,
		`SUMMARY METRICS`,
		`Metric,Value`,
		`Current GPA,3.64`,
		`Completion Rate,50%`,
		`Upcoming Deadlines,1`,
		`Overdue Assignments,0`,
		``,
		`COURSE PROGRESS`,
		`Course,Instructor,Credits,Progress,Grade`,
		`"Intro, ""Physics""",Dr. Chen,4,50%,88%`,
		``,
		`ASSIGNMENT DETAILS`,
		`Assignment,Course,Due Date,Status,Grade,Type`,
		`Lab 1,"Intro, ""Physics""","Jan 5, 2024",completed,91%,lab`,
		`Lab 2,"Intro, ""Physics""","Jan 20, 2024",pending,N/A,lab`,
		``,
	}, "\n")
	assert.Equal(t, want, string(out))
}

func TestSerialize_GradesSections(t *testing.T) {
	out, err := NewSerializer().Serialize(model(report.KindGrades))
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, `"Grade Summary - Generated on Jan 15, 2024"`))
	assert.Contains(t, text, "COURSE GRADES\nCourse,Instructor,Credits,Current Grade,Letter Grade\n")
	assert.Contains(t, text, `"Intro, ""Physics""",Dr. Chen,4,91%,A`)
	assert.Contains(t, text, "ASSIGNMENT GRADES\n")
	assert.NotContains(t, text, "Upcoming Deadlines")
	assert.NotContains(t, text, "Lab 2")
}

func TestSerialize_Deterministic(t *testing.T) {
	s := NewSerializer()
	a, err := s.Serialize(model(report.KindProgress))
	require.NoError(t, err)
	b, err := s.Serialize(model(report.KindProgress))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSerialize_NilModel(t *testing.T) {
	_, err := NewSerializer().Serialize(nil)
	assert.Error(t, err)
}

func TestSerialize_ParsesBackWithQuotedFields(t *testing.T) {
	out, err := NewSerializer().Serialize(model(report.KindProgress))
	require.NoError(t, err)

	r := gocsv.NewReader(bytes.NewReader(out))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	var courseRow []string
	for _, rec := range records {
		if len(rec) == 5 && rec[1] == "Dr. Chen" {
			courseRow = rec
		}
	}
	require.NotNil(t, courseRow)
	assert.Equal(t, `Intro, "Physics"`, courseRow[0])
	assert.Equal(t, []string{"Progress Report - Generated on Jan 15, 2024"}, records[0])
}

func TestWriteModel_StopsAtFirstError(t *testing.T) {
	boom := errors.New("disk full")
	calls := 0
	err := NewSerializer().writeModel(model(report.KindProgress), func(...string) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}
