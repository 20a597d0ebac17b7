package query

import (
	"context"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/filter"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET DASHBOARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// DefaultAssignmentLimit is how many assignments the dashboard table shows.
const DefaultAssignmentLimit = 10

// MaxAssignmentLimit caps the limit parameter.
const MaxAssignmentLimit = 500

// GetDashboardQuery carries the filter panel state.
type GetDashboardQuery struct {
	SearchTerm string
	CourseID   int
	StartDate  *time.Time
	EndDate    *time.Time

	// SortKey and Order apply to the assignment table.
	SortKey string
	Order   string

	// CourseSortKey and CourseOrder apply to the course cards.
	CourseSortKey string
	CourseOrder   string

	Window string
	Limit  int
}

// Validate normalizes defaults and rejects invalid values.
func (q *GetDashboardQuery) Validate() error {
	if q.Limit < 0 {
		return shared.NewDomainError("dashboard", "Validate", shared.ErrValidation, "limit cannot be negative")
	}
	if q.Limit == 0 {
		q.Limit = DefaultAssignmentLimit
	}
	if q.Limit > MaxAssignmentLimit {
		q.Limit = MaxAssignmentLimit
	}
	if q.StartDate != nil && q.EndDate != nil && q.EndDate.Before(*q.StartDate) {
		return shared.NewDomainError("dashboard", "Validate", shared.ErrValidation, "end date is before start date")
	}
	if q.CourseID < 0 {
		return shared.ErrInvalidID
	}
	return nil
}

func (q GetDashboardQuery) criteria() filter.Criteria {
	return filter.Criteria{
		SearchTerm:       q.SearchTerm,
		SelectedCourseID: q.CourseID,
		StartDate:        q.StartDate,
		EndDate:          q.EndDate,
	}
}

// DashboardResult is the full dashboard view model.
type DashboardResult struct {
	Metrics          metrics.Metrics         `json:"metrics"`
	Courses          []course.Course         `json:"courses"`
	Assignments      []assignment.Assignment `json:"assignments"`
	MatchingCount    int                     `json:"matchingAssignments"`
	Performance      performance.Series      `json:"performance"`
	TotalCourses     int                     `json:"totalCourses"`
	TotalAssignments int                     `json:"totalAssignments"`
	GeneratedAt      time.Time               `json:"generatedAt"`
}

// GetDashboardHandler builds the dashboard from a fresh snapshot.
type GetDashboardHandler struct {
	loader     *LoadSnapshotHandler
	calculator *metrics.Calculator
}

// NewGetDashboardHandler creates a new handler.
func NewGetDashboardHandler(loader *LoadSnapshotHandler, calculator *metrics.Calculator) *GetDashboardHandler {
	if calculator == nil {
		calculator = metrics.NewCalculator()
	}
	return &GetDashboardHandler{loader: loader, calculator: calculator}
}

// Handle computes metrics over every assignment, then applies the filter
// panel to courses and assignments. The assignment list is truncated to
// query.Limit after sorting; MatchingCount reports the untruncated size.
func (h *GetDashboardHandler) Handle(ctx context.Context, q GetDashboardQuery) (*DashboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	order, err := filter.ParseOrder(q.Order)
	if err != nil {
		return nil, err
	}
	courseOrder, err := filter.ParseOrder(q.CourseOrder)
	if err != nil {
		return nil, err
	}
	window, err := performance.ParseWindow(q.Window)
	if err != nil {
		return nil, err
	}

	snap, err := h.loader.Handle(ctx)
	if err != nil {
		return nil, err
	}

	engine := filter.NewEngine(snap.Courses)
	crit := q.criteria()

	courses, err := engine.ApplyCourses(snap.Courses, crit, q.CourseSortKey, courseOrder)
	if err != nil {
		return nil, err
	}
	assignments, err := engine.ApplyAssignments(snap.Assignments, crit, q.SortKey, order)
	if err != nil {
		return nil, err
	}
	matching := len(assignments)
	if len(assignments) > q.Limit {
		assignments = assignments[:q.Limit]
	}

	samples := snap.Performance
	if q.CourseID > 0 {
		samples = make([]performance.Sample, 0)
		for _, s := range snap.Performance {
			if s.CourseID == q.CourseID {
				samples = append(samples, s)
			}
		}
	}

	now := h.calculator.Now
	if now == nil {
		now = time.Now
	}

	return &DashboardResult{
		Metrics:          h.calculator.Compute(snap.Assignments),
		Courses:          courses,
		Assignments:      assignments,
		MatchingCount:    matching,
		Performance:      performance.BuildSeries(samples, window, now()),
		TotalCourses:     len(snap.Courses),
		TotalAssignments: len(snap.Assignments),
		GeneratedAt:      snap.LoadedAt,
	}, nil
}
