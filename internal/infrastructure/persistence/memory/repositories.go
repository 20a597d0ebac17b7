package memory

import (
	"context"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// CourseRepository implements course.Repository.
type CourseRepository struct {
	t *table[course.Course]
}

var _ course.Repository = (*CourseRepository)(nil)

// NewCourseRepository creates an empty course store.
func NewCourseRepository(latency Latency) *CourseRepository {
	return &CourseRepository{t: newTable(latency,
		func(c course.Course) int { return c.ID },
		func(c *course.Course, id int) { c.ID = id },
		course.Course.Clone,
		shared.ErrCourseNotFound,
	)}
}

func (r *CourseRepository) GetAll(ctx context.Context) ([]course.Course, error) {
	return r.t.all(ctx)
}

func (r *CourseRepository) GetByID(ctx context.Context, id int) (course.Course, error) {
	return r.t.get(ctx, id)
}

func (r *CourseRepository) Create(ctx context.Context, c course.Course) (course.Course, error) {
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}
	return r.t.create(ctx, c)
}

func (r *CourseRepository) Update(ctx context.Context, id int, c course.Course) (course.Course, error) {
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}
	return r.t.update(ctx, id, c)
}

func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	return r.t.remove(ctx, id)
}

// AssignmentRepository implements assignment.Repository.
type AssignmentRepository struct {
	t *table[assignment.Assignment]
}

var _ assignment.Repository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates an empty assignment store.
func NewAssignmentRepository(latency Latency) *AssignmentRepository {
	return &AssignmentRepository{t: newTable(latency,
		func(a assignment.Assignment) int { return a.ID },
		func(a *assignment.Assignment, id int) { a.ID = id },
		assignment.Assignment.Clone,
		shared.ErrAssignmentNotFound,
	)}
}

func (r *AssignmentRepository) GetAll(ctx context.Context) ([]assignment.Assignment, error) {
	return r.t.all(ctx)
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id int) (assignment.Assignment, error) {
	return r.t.get(ctx, id)
}

func (r *AssignmentRepository) GetByCourse(ctx context.Context, courseID int) ([]assignment.Assignment, error) {
	return r.t.where(ctx, func(a assignment.Assignment) bool { return a.CourseID == courseID })
}

func (r *AssignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	return r.t.create(ctx, a)
}

func (r *AssignmentRepository) Update(ctx context.Context, id int, a assignment.Assignment) (assignment.Assignment, error) {
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	return r.t.update(ctx, id, a)
}

func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	return r.t.remove(ctx, id)
}

// PerformanceRepository implements performance.Repository.
type PerformanceRepository struct {
	t *table[performance.Sample]
}

var _ performance.Repository = (*PerformanceRepository)(nil)

// NewPerformanceRepository creates an empty performance store.
func NewPerformanceRepository(latency Latency) *PerformanceRepository {
	return &PerformanceRepository{t: newTable(latency,
		func(s performance.Sample) int { return s.ID },
		func(s *performance.Sample, id int) { s.ID = id },
		func(s performance.Sample) performance.Sample { return s },
		shared.ErrPerformanceNotFound,
	)}
}

func (r *PerformanceRepository) GetAll(ctx context.Context) ([]performance.Sample, error) {
	return r.t.all(ctx)
}

func (r *PerformanceRepository) GetByID(ctx context.Context, id int) (performance.Sample, error) {
	return r.t.get(ctx, id)
}

func (r *PerformanceRepository) GetByCourse(ctx context.Context, courseID int) ([]performance.Sample, error) {
	return r.t.where(ctx, func(s performance.Sample) bool { return s.CourseID == courseID })
}

func (r *PerformanceRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]performance.Sample, error) {
	return r.t.where(ctx, func(s performance.Sample) bool { return s.InRange(start, end) })
}

func (r *PerformanceRepository) Create(ctx context.Context, s performance.Sample) (performance.Sample, error) {
	if err := s.Validate(); err != nil {
		return performance.Sample{}, err
	}
	return r.t.create(ctx, s)
}

func (r *PerformanceRepository) Update(ctx context.Context, id int, s performance.Sample) (performance.Sample, error) {
	if err := s.Validate(); err != nil {
		return performance.Sample{}, err
	}
	return r.t.update(ctx, id, s)
}

func (r *PerformanceRepository) Delete(ctx context.Context, id int) error {
	return r.t.remove(ctx, id)
}
