package metrics

import (
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/pkg/timeutil"
)

// Metrics is the derived dashboard summary. It is recomputed on every load
// and never persisted.
type Metrics struct {
	GPA               string `json:"gpa"`
	CompletionRate    int    `json:"completionRate"`
	UpcomingDeadlines int    `json:"upcomingDeadlines"`
	Overdue           int    `json:"overdue"`
}

// Zero is the value reported for an empty assignment set.
var Zero = Metrics{GPA: "0.00"}

// Calculator computes Metrics. It has no side effects; Now is injectable so
// deadline windows can be tested exactly.
type Calculator struct {
	Now func() time.Time
}

// NewCalculator returns a calculator bound to the wall clock.
func NewCalculator() *Calculator {
	return &Calculator{Now: time.Now}
}

// Compute derives the summary metrics for the given assignments.
func (c *Calculator) Compute(items []assignment.Assignment) Metrics {
	now := time.Now()
	if c != nil && c.Now != nil {
		now = c.Now()
	}

	m := Zero
	if len(items) == 0 {
		return m
	}

	var (
		completed int
		gradeSum  float64
		graded    int
	)
	for _, a := range items {
		if a.IsCompleted() {
			completed++
		} else {
			if a.DueDate.Before(now) {
				m.Overdue++
			}
			if timeutil.InWindow(a.DueDate, now, timeutil.UpcomingWindow) {
				m.UpcomingDeadlines++
			}
		}
		if a.Grade != nil {
			gradeSum += *a.Grade
			graded++
		}
	}

	if graded > 0 {
		m.GPA = ToGPA(gradeSum / float64(graded))
	}
	m.CompletionRate = RoundHalfUp(float64(completed) / float64(len(items)) * 100)

	return m
}
