package assignment

import "context"

// Repository is the record-store contract for assignments.
type Repository interface {
	GetAll(ctx context.Context) ([]Assignment, error)

	// GetByID returns ErrAssignmentNotFound when the ID is unknown.
	GetByID(ctx context.Context, id int) (Assignment, error)

	// GetByCourse returns every assignment of a course (possibly empty).
	GetByCourse(ctx context.Context, courseID int) ([]Assignment, error)

	Create(ctx context.Context, a Assignment) (Assignment, error)
	Update(ctx context.Context, id int, a Assignment) (Assignment, error)
	Delete(ctx context.Context, id int) error
}
