package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

func day(d int) time.Time { return time.Date(2024, 3, d, 12, 0, 0, 0, time.UTC) }

func ptr[T any](v T) *T { return &v }

func fixtureCourses() []course.Course {
	return []course.Course{
		{ID: 1, Title: "Calculus II", Instructor: "Dr. Sarah Chen", Credits: 4, Progress: 40, Grade: ptr(88.0), NextDeadline: ptr(day(12))},
		{ID: 2, Title: "Organic Chemistry", Instructor: "Prof. Michael Rodriguez", Credits: 3, Progress: 70},
		{ID: 3, Title: "English Literature", Instructor: "Dr. Emily Watson", Credits: 3, Progress: 55, Grade: ptr(92.0), NextDeadline: ptr(day(20))},
	}
}

func fixtureAssignments() []assignment.Assignment {
	return []assignment.Assignment{
		{ID: 1, Title: "Problem Set 4", CourseID: 1, CourseTitle: "Calculus II", DueDate: day(5), Status: assignment.StatusCompleted, Grade: ptr(91.0), Type: "homework"},
		{ID: 2, Title: "Essay: Romantic Poets", CourseID: 3, CourseTitle: "English Literature", DueDate: day(8), Status: assignment.StatusPending, Type: "essay"},
		{ID: 3, Title: "Lab Report 2", CourseID: 2, CourseTitle: "Organic Chemistry", DueDate: day(10), Status: assignment.StatusOverdue, Type: "lab"},
		{ID: 4, Title: "Final Essay Draft", CourseID: 3, CourseTitle: "English Literature", DueDate: day(18), Status: assignment.StatusDraft, Type: "essay"},
		{ID: 5, Title: "essay outline", CourseID: 3, CourseTitle: "English Literature", DueDate: day(25), Status: assignment.StatusPending, Grade: ptr(78.0), Type: "essay"},
		{ID: 6, Title: "Quiz 3", CourseID: 1, CourseTitle: "Calculus II", DueDate: day(8), Status: assignment.StatusCompleted, Grade: ptr(84.0), Type: "quiz"},
	}
}

func ids(items []assignment.Assignment) []int {
	out := make([]int, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}

func TestApplyAssignments_NoCriteriaSortsByDueDate(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyAssignments(fixtureAssignments(), Criteria{}, "", Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 6, 3, 4, 5}, ids(got))
}

func TestApplyAssignments_SearchIsCaseInsensitiveOverTitleOrCourse(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyAssignments(fixtureAssignments(), Criteria{SearchTerm: "ESSAY"}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5}, ids(got))

	got, err = e.ApplyAssignments(fixtureAssignments(), Criteria{SearchTerm: "calculus"}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6}, ids(got))
}

func TestApplyAssignments_CourseResolvedByTitle(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyAssignments(fixtureAssignments(), Criteria{SelectedCourseID: 2}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids(got))

	got, err = e.ApplyAssignments(fixtureAssignments(), Criteria{SelectedCourseID: 99}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApplyAssignments_DateRangeInclusive(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyAssignments(fixtureAssignments(), Criteria{StartDate: ptr(day(8)), EndDate: ptr(day(18))}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 6, 3, 4}, ids(got))

	got, err = e.ApplyAssignments(fixtureAssignments(), Criteria{EndDate: ptr(day(5))}, SortDueDate, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, ids(got))
}

func TestApplyAssignments_ANDCompositionEqualsIntersection(t *testing.T) {
	e := NewEngine(fixtureCourses())
	items := fixtureAssignments()

	search := Criteria{SearchTerm: "Essay"}
	byCourse := Criteria{SelectedCourseID: 3}
	byDate := Criteria{StartDate: ptr(day(1)), EndDate: ptr(day(20))}
	all := Criteria{SearchTerm: "Essay", SelectedCourseID: 3, StartDate: ptr(day(1)), EndDate: ptr(day(20))}

	sets := make([]map[int]bool, 0, 3)
	for _, c := range []Criteria{search, byCourse, byDate} {
		got, err := e.ApplyAssignments(items, c, SortDueDate, Asc)
		require.NoError(t, err)
		set := map[int]bool{}
		for _, id := range ids(got) {
			set[id] = true
		}
		sets = append(sets, set)
	}

	var want []int
	for _, a := range items {
		if sets[0][a.ID] && sets[1][a.ID] && sets[2][a.ID] {
			want = append(want, a.ID)
		}
	}

	got, err := e.ApplyAssignments(items, all, SortDueDate, Asc)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, ids(got))
	assert.Equal(t, []int{2, 4}, ids(got))
}

func TestApplyAssignments_SortKeys(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyAssignments(fixtureAssignments(), Criteria{}, SortTitle, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 2, 4, 3, 1, 6}, ids(got))

	got, err = e.ApplyAssignments(fixtureAssignments(), Criteria{}, SortGrade, Desc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 6, 5, 2, 3, 4}, ids(got))
}

func TestApplyAssignments_EqualKeysKeepInputOrder(t *testing.T) {
	e := NewEngine(fixtureCourses())

	asc, err := e.ApplyAssignments(fixtureAssignments(), Criteria{}, SortType, Asc)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 5, 1, 3, 6}, ids(asc))

	desc, err := e.ApplyAssignments(fixtureAssignments(), Criteria{}, SortType, Desc)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 3, 1, 2, 4, 5}, ids(desc))
}

func TestApplyAssignments_UnknownSortKey(t *testing.T) {
	e := NewEngine(nil)

	_, err := e.ApplyAssignments(fixtureAssignments(), Criteria{}, "color", Asc)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestApplyAssignments_DoesNotMutateInput(t *testing.T) {
	e := NewEngine(fixtureCourses())
	items := fixtureAssignments()

	_, err := e.ApplyAssignments(items, Criteria{}, SortTitle, Desc)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, ids(items))
}

func TestApplyCourses(t *testing.T) {
	e := NewEngine(fixtureCourses())

	got, err := e.ApplyCourses(fixtureCourses(), Criteria{SearchTerm: "dr."}, SortTitle, Asc)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Calculus II", got[0].Title)
	assert.Equal(t, "English Literature", got[1].Title)

	got, err = e.ApplyCourses(fixtureCourses(), Criteria{SelectedCourseID: 2}, "", Asc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got, err = e.ApplyCourses(fixtureCourses(), Criteria{StartDate: ptr(day(15))}, SortNextDeadline, Asc)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].ID)

	got, err = e.ApplyCourses(fixtureCourses(), Criteria{}, SortCredits, Desc)
	require.NoError(t, err)
	assert.Equal(t, 1, got[0].ID)
}

func TestParseOrder(t *testing.T) {
	o, err := ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, Asc, o)
	assert.Equal(t, Desc, o.Toggle())

	_, err = ParseOrder("sideways")
	assert.Error(t, err)
}
