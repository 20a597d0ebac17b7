// Package assignment holds the Assignment entity, its status model and
// repository contract.
package assignment

import (
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Status is the lifecycle state of an assignment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusDraft     Status = "draft"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusOverdue, StatusDraft:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string { return string(s) }

// Assignment is a single piece of graded or ungraded coursework.
// CourseTitle and CourseCode are denormalized for display without joins.
type Assignment struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	CourseID    int       `json:"courseId"`
	CourseTitle string    `json:"courseTitle"`
	CourseCode  string    `json:"courseCode"`
	DueDate     time.Time `json:"dueDate"`
	Status      Status    `json:"status"`
	Grade       *float64  `json:"grade,omitempty"`
	LetterGrade *string   `json:"letterGrade,omitempty"`
	Weight      float64   `json:"weight"`
	Type        string    `json:"type"`
}

// IsCompleted reports whether the assignment has been handed in.
func (a Assignment) IsCompleted() bool {
	return a.Status == StatusCompleted
}

// IsGraded reports whether a numeric grade is present.
func (a Assignment) IsGraded() bool {
	return a.Grade != nil
}

// Validate checks field ranges before an assignment is stored.
func (a Assignment) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return shared.WrapError("assignment", "Validate", shared.ErrEmptyValue, "title is required", shared.ErrInvalidAssignment)
	}
	if !a.Status.IsValid() {
		return shared.ErrInvalidStatus
	}
	if a.Grade != nil && (*a.Grade < 0 || *a.Grade > 100) {
		return shared.ErrGradeOutOfRange
	}
	if a.Weight < 0 || a.Weight > 100 {
		return shared.WrapError("assignment", "Validate", shared.ErrValueOutOfRange, "weight must be between 0 and 100", shared.ErrInvalidAssignment)
	}
	return nil
}

// Clone returns a copy that shares no pointers with a.
func (a Assignment) Clone() Assignment {
	if a.Grade != nil {
		g := *a.Grade
		a.Grade = &g
	}
	if a.LetterGrade != nil {
		l := *a.LetterGrade
		a.LetterGrade = &l
	}
	return a
}

// ByCourse returns the assignments belonging to courseID, preserving order.
func ByCourse(items []Assignment, courseID int) []Assignment {
	out := make([]Assignment, 0)
	for _, a := range items {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out
}
