package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// CourseRepository implements course.Repository for PostgreSQL.
type CourseRepository struct {
	conn *Connection
}

var _ course.Repository = (*CourseRepository)(nil)

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(conn *Connection) *CourseRepository {
	return &CourseRepository{conn: conn}
}

const courseColumns = `id, title, code, instructor, credits, progress, grade, letter_grade,
	next_deadline, completed_assignments, total_assignments`

func scanCourse(row pgx.Row) (course.Course, error) {
	var c course.Course
	err := row.Scan(
		&c.ID, &c.Title, &c.Code, &c.Instructor, &c.Credits, &c.Progress,
		&c.Grade, &c.LetterGrade, &c.NextDeadline,
		&c.CompletedAssignments, &c.TotalAssignments,
	)
	if err != nil {
		if IsNoRows(err) {
			return course.Course{}, shared.ErrCourseNotFound
		}
		if verr := checkViolation("course", err); verr != nil {
			return course.Course{}, verr
		}
		return course.Course{}, fmt.Errorf("failed to scan course: %w", err)
	}
	return c, nil
}

// GetAll returns every course in ID order.
func (r *CourseRepository) GetAll(ctx context.Context) ([]course.Course, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+courseColumns+` FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	out := make([]course.Course, 0)
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByID returns a course by ID.
func (r *CourseRepository) GetByID(ctx context.Context, id int) (course.Course, error) {
	return scanCourse(r.conn.QueryRow(ctx, `SELECT `+courseColumns+` FROM courses WHERE id = $1`, id))
}

// Create inserts a course and echoes it with the generated ID.
func (r *CourseRepository) Create(ctx context.Context, c course.Course) (course.Course, error) {
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}
	query := `
		INSERT INTO courses (
			title, code, instructor, credits, progress, grade, letter_grade,
			next_deadline, completed_assignments, total_assignments
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + courseColumns

	return scanCourse(r.conn.QueryRow(ctx, query,
		c.Title, c.Code, c.Instructor, c.Credits, c.Progress, c.Grade, c.LetterGrade,
		c.NextDeadline, c.CompletedAssignments, c.TotalAssignments,
	))
}

// Update replaces every column except the ID.
func (r *CourseRepository) Update(ctx context.Context, id int, c course.Course) (course.Course, error) {
	if err := c.Validate(); err != nil {
		return course.Course{}, err
	}
	query := `
		UPDATE courses SET
			title = $1,
			code = $2,
			instructor = $3,
			credits = $4,
			progress = $5,
			grade = $6,
			letter_grade = $7,
			next_deadline = $8,
			completed_assignments = $9,
			total_assignments = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING ` + courseColumns

	return scanCourse(r.conn.QueryRow(ctx, query,
		c.Title, c.Code, c.Instructor, c.Credits, c.Progress, c.Grade, c.LetterGrade,
		c.NextDeadline, c.CompletedAssignments, c.TotalAssignments, id,
	))
}

// Delete removes a course. Its assignments are kept.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrCourseNotFound
	}
	return nil
}
