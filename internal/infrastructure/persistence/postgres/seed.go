package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
)

// SeedIfEmpty loads the given dataset when the courses table is empty.
// Source IDs are remapped to the generated identity values.
func SeedIfEmpty(ctx context.Context, conn *Connection, courses []course.Course, assignments []assignment.Assignment, samples []performance.Sample) (bool, error) {
	var n int
	if err := conn.QueryRow(ctx, `SELECT count(*) FROM courses`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count courses: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	err := conn.WithTx(ctx, func(tx pgx.Tx) error {
		ids := make(map[int]int, len(courses))
		for _, c := range courses {
			var id int
			err := tx.QueryRow(ctx, `
				INSERT INTO courses (title, code, instructor, credits, progress, grade, letter_grade,
					next_deadline, completed_assignments, total_assignments)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`,
				c.Title, c.Code, c.Instructor, c.Credits, c.Progress, c.Grade, c.LetterGrade,
				c.NextDeadline, c.CompletedAssignments, c.TotalAssignments,
			).Scan(&id)
			if err != nil {
				return fmt.Errorf("seed course %q: %w", c.Title, err)
			}
			ids[c.ID] = id
		}

		batch := &pgx.Batch{}
		for _, a := range assignments {
			batch.Queue(`
				INSERT INTO assignments (title, course_id, course_title, course_code, due_date,
					status, grade, letter_grade, weight, type)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				a.Title, ids[a.CourseID], a.CourseTitle, a.CourseCode, a.DueDate,
				string(a.Status), a.Grade, a.LetterGrade, a.Weight, a.Type)
		}
		for _, s := range samples {
			batch.Queue(`INSERT INTO performance_samples (course_id, sampled_at, grade, study_hours) VALUES ($1, $2, $3, $4)`,
				ids[s.CourseID], s.Date, s.Grade, s.StudyHours)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
