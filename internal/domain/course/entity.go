// Package course holds the Course entity and its repository contract.
// Courses are owned by the record store and read-only to the reporting core.
package course

import (
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Course is a single enrolled course as shown on the dashboard.
type Course struct {
	ID                   int        `json:"id"`
	Title                string     `json:"title"`
	Code                 string     `json:"code"`
	Instructor           string     `json:"instructor"`
	Credits              int        `json:"credits"`
	Progress             int        `json:"progress"`
	Grade                *float64   `json:"grade,omitempty"`
	LetterGrade          *string    `json:"letterGrade,omitempty"`
	NextDeadline         *time.Time `json:"nextDeadline,omitempty"`
	CompletedAssignments int        `json:"completedAssignments"`
	TotalAssignments     int        `json:"totalAssignments"`
}

// Validate checks field ranges before a course is stored.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return shared.WrapError("course", "Validate", shared.ErrEmptyValue, "title is required", shared.ErrInvalidCourse)
	}
	if c.Credits < 0 {
		return shared.WrapError("course", "Validate", shared.ErrValueOutOfRange, "credits cannot be negative", shared.ErrInvalidCourse)
	}
	if c.Progress < 0 || c.Progress > 100 {
		return shared.WrapError("course", "Validate", shared.ErrValueOutOfRange, "progress must be between 0 and 100", shared.ErrInvalidCourse)
	}
	if c.Grade != nil && (*c.Grade < 0 || *c.Grade > 100) {
		return shared.ErrGradeOutOfRange
	}
	return nil
}

// Clone returns a copy that shares no pointers with c.
func (c Course) Clone() Course {
	if c.Grade != nil {
		g := *c.Grade
		c.Grade = &g
	}
	if c.LetterGrade != nil {
		l := *c.LetterGrade
		c.LetterGrade = &l
	}
	if c.NextDeadline != nil {
		d := *c.NextDeadline
		c.NextDeadline = &d
	}
	return c
}

// TitleByID resolves a course title, returning ok=false when the ID is unknown.
func TitleByID(courses []Course, id int) (string, bool) {
	for _, c := range courses {
		if c.ID == id {
			return c.Title, true
		}
	}
	return "", false
}
