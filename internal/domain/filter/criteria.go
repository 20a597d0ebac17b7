// Package filter narrows and orders dashboard working sets: search-term,
// course and date-range predicates combined with AND, then a stable sort.
package filter

import (
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Criteria holds the active predicates. Zero values disable a predicate.
type Criteria struct {
	SearchTerm       string
	SelectedCourseID int
	StartDate        *time.Time
	EndDate          *time.Time
}

// HasCourse reports whether a course predicate is active.
func (c Criteria) HasCourse() bool { return c.SelectedCourseID > 0 }

// HasDateRange reports whether at least one date bound is set.
func (c Criteria) HasDateRange() bool { return c.StartDate != nil || c.EndDate != nil }

func (c Criteria) matchesSearch(fields ...string) bool {
	term := strings.ToLower(c.SearchTerm)
	if term == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (c Criteria) matchesDate(t time.Time) bool {
	if c.StartDate != nil && t.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && t.After(*c.EndDate) {
		return false
	}
	return true
}

// Order is the sort direction.
type Order string

const (
	Asc  Order = "asc"
	Desc Order = "desc"
)

// ParseOrder parses a direction; empty input means ascending.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", Asc:
		return Asc, nil
	case Desc:
		return Desc, nil
	}
	return "", shared.NewDomainError("filter", "Validate", shared.ErrValidation, "sort order must be asc or desc")
}

// Toggle flips the direction, as a repeated click on a column header does.
func (o Order) Toggle() Order {
	if o == Asc {
		return Desc
	}
	return Asc
}
