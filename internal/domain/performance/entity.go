// Package performance holds per-course performance samples (grade and study
// hours over time) and the chart series derived from them.
package performance

import (
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Sample is one dated observation of a course grade and study effort.
type Sample struct {
	ID         int       `json:"id"`
	CourseID   int       `json:"courseId"`
	Date       time.Time `json:"date"`
	Grade      float64   `json:"grade"`
	StudyHours float64   `json:"studyHours"`
}

// Validate checks field ranges before a sample is stored.
func (s Sample) Validate() error {
	if s.Grade < 0 || s.Grade > 100 {
		return shared.ErrGradeOutOfRange
	}
	if s.StudyHours < 0 {
		return shared.NewDomainError("performance", "Validate", shared.ErrValueOutOfRange, "study hours cannot be negative")
	}
	return nil
}

// InRange reports whether the sample date lies within [start, end].
func (s Sample) InRange(start, end time.Time) bool {
	return !s.Date.Before(start) && !s.Date.After(end)
}
