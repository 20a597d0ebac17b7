package course

import "context"

// Repository is the record-store contract for courses.
// Implementations own their state; every read returns a point-in-time copy.
type Repository interface {
	// GetAll returns a snapshot of every course.
	GetAll(ctx context.Context) ([]Course, error)

	// GetByID returns ErrCourseNotFound when the ID is unknown.
	GetByID(ctx context.Context, id int) (Course, error)

	// Create assigns the next ID and echoes the stored course.
	Create(ctx context.Context, c Course) (Course, error)

	// Update replaces every field except the ID and echoes the result.
	// Returns ErrCourseNotFound when the ID is unknown.
	Update(ctx context.Context, id int, c Course) (Course, error)

	// Delete returns ErrCourseNotFound when the ID is unknown.
	Delete(ctx context.Context, id int) error
}
