package filter

import (
	"slices"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Assignment sort keys.
const (
	SortDueDate     = "dueDate"
	SortTitle       = "title"
	SortCourseTitle = "courseTitle"
	SortStatus      = "status"
	SortGrade       = "grade"
	SortWeight      = "weight"
	SortType        = "type"
)

// Course sort keys.
const (
	SortInstructor   = "instructor"
	SortCredits      = "credits"
	SortProgress     = "progress"
	SortNextDeadline = "nextDeadline"
)

// DefaultAssignmentSort is the initial dashboard ordering.
const DefaultAssignmentSort = SortDueDate

type comparator[T any] func(a, b T) int

var assignmentComparators = map[string]comparator[assignment.Assignment]{
	SortDueDate:     func(a, b assignment.Assignment) int { return compareTimes(a.DueDate, b.DueDate) },
	SortTitle:       func(a, b assignment.Assignment) int { return compareStrings(a.Title, b.Title) },
	SortCourseTitle: func(a, b assignment.Assignment) int { return compareStrings(a.CourseTitle, b.CourseTitle) },
	SortStatus:      func(a, b assignment.Assignment) int { return compareStrings(string(a.Status), string(b.Status)) },
	SortGrade:       func(a, b assignment.Assignment) int { return compareOptionalFloats(a.Grade, b.Grade) },
	SortWeight:      func(a, b assignment.Assignment) int { return compareFloats(a.Weight, b.Weight) },
	SortType:        func(a, b assignment.Assignment) int { return compareStrings(a.Type, b.Type) },
}

var courseComparators = map[string]comparator[course.Course]{
	SortTitle:        func(a, b course.Course) int { return compareStrings(a.Title, b.Title) },
	SortInstructor:   func(a, b course.Course) int { return compareStrings(a.Instructor, b.Instructor) },
	SortCredits:      func(a, b course.Course) int { return compareInts(a.Credits, b.Credits) },
	SortProgress:     func(a, b course.Course) int { return compareInts(a.Progress, b.Progress) },
	SortGrade:        func(a, b course.Course) int { return compareOptionalFloats(a.Grade, b.Grade) },
	SortNextDeadline: func(a, b course.Course) int { return compareOptionalTimes(a.NextDeadline, b.NextDeadline) },
}

// Engine filters and sorts working sets. Courses is the collection used to
// resolve a selected course ID to its title.
type Engine struct {
	Courses []course.Course
}

// NewEngine creates an engine resolving course selections against courses.
func NewEngine(courses []course.Course) *Engine {
	return &Engine{Courses: courses}
}

// ApplyAssignments returns the assignments matching every active predicate,
// ordered by sortKey. The input slice is not modified.
func (e *Engine) ApplyAssignments(items []assignment.Assignment, c Criteria, sortKey string, order Order) ([]assignment.Assignment, error) {
	if sortKey == "" {
		sortKey = DefaultAssignmentSort
	}
	cmp, ok := assignmentComparators[sortKey]
	if !ok {
		return nil, shared.WrapError("filter", "ApplyAssignments", shared.ErrValidation, "unknown sort key "+sortKey, shared.ErrUnknownSortKey)
	}

	var selectedTitle string
	if c.HasCourse() {
		title, found := course.TitleByID(e.Courses, c.SelectedCourseID)
		if !found {
			return []assignment.Assignment{}, nil
		}
		selectedTitle = title
	}

	out := make([]assignment.Assignment, 0, len(items))
	for _, a := range items {
		if !c.matchesSearch(a.Title, a.CourseTitle) {
			continue
		}
		if c.HasCourse() && a.CourseTitle != selectedTitle {
			continue
		}
		if !c.matchesDate(a.DueDate) {
			continue
		}
		out = append(out, a)
	}

	slices.SortStableFunc(out, func(a, b assignment.Assignment) int {
		return directed(cmp(a, b), order)
	})
	return out, nil
}

// ApplyCourses returns the courses matching every active predicate.
// The date range applies to the next deadline; courses without one are
// excluded only while a bound is set.
func (e *Engine) ApplyCourses(items []course.Course, c Criteria, sortKey string, order Order) ([]course.Course, error) {
	if sortKey == "" {
		sortKey = SortTitle
	}
	cmp, ok := courseComparators[sortKey]
	if !ok {
		return nil, shared.WrapError("filter", "ApplyCourses", shared.ErrValidation, "unknown sort key "+sortKey, shared.ErrUnknownSortKey)
	}

	out := make([]course.Course, 0, len(items))
	for _, crs := range items {
		if !c.matchesSearch(crs.Title, crs.Instructor) {
			continue
		}
		if c.HasCourse() && crs.ID != c.SelectedCourseID {
			continue
		}
		if c.HasDateRange() && (crs.NextDeadline == nil || !c.matchesDate(*crs.NextDeadline)) {
			continue
		}
		out = append(out, crs)
	}

	slices.SortStableFunc(out, func(a, b course.Course) int {
		return directed(cmp(a, b), order)
	})
	return out, nil
}
