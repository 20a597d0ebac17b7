package performance

import (
	"context"
	"time"
)

// Repository is the record-store contract for performance samples.
type Repository interface {
	GetAll(ctx context.Context) ([]Sample, error)

	// GetByID returns ErrPerformanceNotFound when the ID is unknown.
	GetByID(ctx context.Context, id int) (Sample, error)

	GetByCourse(ctx context.Context, courseID int) ([]Sample, error)

	// GetByDateRange returns samples dated within [start, end].
	GetByDateRange(ctx context.Context, start, end time.Time) ([]Sample, error)

	Create(ctx context.Context, s Sample) (Sample, error)
	Update(ctx context.Context, id int, s Sample) (Sample, error)
	Delete(ctx context.Context, id int) error
}
