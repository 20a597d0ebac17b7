package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASSIGNMENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// AssignmentRepository implements assignment.Repository for PostgreSQL.
type AssignmentRepository struct {
	conn *Connection
}

var _ assignment.Repository = (*AssignmentRepository)(nil)

// NewAssignmentRepository creates a new AssignmentRepository.
func NewAssignmentRepository(conn *Connection) *AssignmentRepository {
	return &AssignmentRepository{conn: conn}
}

const assignmentColumns = `id, title, course_id, course_title, course_code, due_date,
	status, grade, letter_grade, weight, type`

func scanAssignment(row pgx.Row) (assignment.Assignment, error) {
	var (
		a      assignment.Assignment
		status string
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.CourseID, &a.CourseTitle, &a.CourseCode, &a.DueDate,
		&status, &a.Grade, &a.LetterGrade, &a.Weight, &a.Type,
	)
	if err != nil {
		if IsNoRows(err) {
			return assignment.Assignment{}, shared.ErrAssignmentNotFound
		}
		if verr := checkViolation("assignment", err); verr != nil {
			return assignment.Assignment{}, verr
		}
		return assignment.Assignment{}, fmt.Errorf("failed to scan assignment: %w", err)
	}
	a.Status = assignment.Status(status)
	a.DueDate = a.DueDate.UTC()
	return a, nil
}

func (r *AssignmentRepository) list(ctx context.Context, where string, args ...any) ([]assignment.Assignment, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+assignmentColumns+` FROM assignments `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	out := make([]assignment.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAll returns every assignment in ID order.
func (r *AssignmentRepository) GetAll(ctx context.Context) ([]assignment.Assignment, error) {
	return r.list(ctx, "")
}

// GetByCourse returns the assignments of one course.
func (r *AssignmentRepository) GetByCourse(ctx context.Context, courseID int) ([]assignment.Assignment, error) {
	return r.list(ctx, "WHERE course_id = $1", courseID)
}

// GetByID returns an assignment by ID.
func (r *AssignmentRepository) GetByID(ctx context.Context, id int) (assignment.Assignment, error) {
	return scanAssignment(r.conn.QueryRow(ctx, `SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
}

// Create inserts an assignment and echoes it with the generated ID.
func (r *AssignmentRepository) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	query := `
		INSERT INTO assignments (
			title, course_id, course_title, course_code, due_date,
			status, grade, letter_grade, weight, type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + assignmentColumns

	return scanAssignment(r.conn.QueryRow(ctx, query,
		a.Title, a.CourseID, a.CourseTitle, a.CourseCode, a.DueDate,
		string(a.Status), a.Grade, a.LetterGrade, a.Weight, a.Type,
	))
}

// Update replaces every column except the ID.
func (r *AssignmentRepository) Update(ctx context.Context, id int, a assignment.Assignment) (assignment.Assignment, error) {
	if err := a.Validate(); err != nil {
		return assignment.Assignment{}, err
	}
	query := `
		UPDATE assignments SET
			title = $1,
			course_id = $2,
			course_title = $3,
			course_code = $4,
			due_date = $5,
			status = $6,
			grade = $7,
			letter_grade = $8,
			weight = $9,
			type = $10,
			updated_at = NOW()
		WHERE id = $11
		RETURNING ` + assignmentColumns

	return scanAssignment(r.conn.QueryRow(ctx, query,
		a.Title, a.CourseID, a.CourseTitle, a.CourseCode, a.DueDate,
		string(a.Status), a.Grade, a.LetterGrade, a.Weight, a.Type, id,
	))
}

// Delete removes an assignment.
func (r *AssignmentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrAssignmentNotFound
	}
	return nil
}
