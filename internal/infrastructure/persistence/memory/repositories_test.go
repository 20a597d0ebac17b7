package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore(Latency{})
	s.Seed(now)
	return s
}

func TestCourseRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(Latency{})

	created, err := repo.Create(ctx, course.Course{Title: "Linear Algebra", Credits: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)

	got, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", got.Title)

	updated, err := repo.Update(ctx, 1, course.Course{ID: 42, Title: "Linear Algebra II", Credits: 4})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.ID, "update keeps the stored ID")
	assert.Equal(t, 4, updated.Credits)

	require.NoError(t, repo.Delete(ctx, 1))
	_, err = repo.GetByID(ctx, 1)
	assert.True(t, shared.IsNotFound(err))
	assert.ErrorIs(t, repo.Delete(ctx, 1), shared.ErrNotFound)

	_, err = repo.Update(ctx, 99, course.Course{Title: "x"})
	assert.ErrorIs(t, err, shared.ErrCourseNotFound)
}

func TestCourseRepository_RejectsInvalid(t *testing.T) {
	_, err := NewCourseRepository(Latency{}).Create(context.Background(), course.Course{Title: " "})
	assert.True(t, shared.IsValidation(err))
}

func TestRepository_IDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	all, err := s.Assignments.GetAll(ctx)
	require.NoError(t, err)
	last := all[len(all)-1].ID

	require.NoError(t, s.Assignments.Delete(ctx, last))
	created, err := s.Assignments.Create(ctx, assignment.Assignment{Title: "New", CourseID: 1, Status: assignment.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, last+1, created.ID)
}

func TestRepository_ReadsAreIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	a, err := s.Assignments.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, a.Grade)
	*a.Grade = 12
	a.Title = "changed"

	again, err := s.Assignments.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 94.0, *again.Grade)
	assert.NotEqual(t, "changed", again.Title)

	list, err := s.Courses.GetAll(ctx)
	require.NoError(t, err)
	list[0].Title = "mutated"
	fresh, err := s.Courses.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Calculus II", fresh[0].Title)
}

func TestRepository_WritesCopyInput(t *testing.T) {
	ctx := context.Background()
	repo := NewAssignmentRepository(Latency{})
	g := 70.0
	in := assignment.Assignment{Title: "Essay", Status: assignment.StatusCompleted, Grade: &g}

	created, err := repo.Create(ctx, in)
	require.NoError(t, err)
	g = 10

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 70.0, *stored.Grade)
}

func TestAssignmentRepository_GetByCourse(t *testing.T) {
	s := seeded(t)
	items, err := s.Assignments.GetByCourse(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, a := range items {
		assert.Equal(t, 2, a.CourseID)
		assert.Equal(t, "Organic Chemistry", a.CourseTitle)
	}

	none, err := s.Assignments.GetByCourse(context.Background(), 404)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPerformanceRepository_Queries(t *testing.T) {
	ctx := context.Background()
	s := seeded(t)

	byCourse, err := s.Performance.GetByCourse(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, byCourse, 12)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := s.Performance.GetByDateRange(ctx, start, now)
	require.NoError(t, err)
	for _, smp := range ranged {
		assert.True(t, smp.InRange(start, now))
	}
	// three weekly samples (days -14, -7, 0) for each of the four courses
	assert.Len(t, ranged, 12)

	_, err = s.Performance.Create(ctx, performance.Sample{CourseID: 1, Grade: 120})
	assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
}

func TestLatency_HonorsContext(t *testing.T) {
	repo := NewCourseRepository(Latency{Read: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.GetAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewCourseRepository(Latency{})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.Create(ctx, course.Course{Title: "C"})
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.GetAll(ctx)
		}()
	}
	wg.Wait()

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
	seen := map[int]bool{}
	for _, c := range all {
		assert.False(t, seen[c.ID])
		seen[c.ID] = true
	}
}
