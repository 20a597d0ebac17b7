package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// PerformanceRepository implements performance.Repository for PostgreSQL.
type PerformanceRepository struct {
	conn *Connection
}

var _ performance.Repository = (*PerformanceRepository)(nil)

// NewPerformanceRepository creates a new PerformanceRepository.
func NewPerformanceRepository(conn *Connection) *PerformanceRepository {
	return &PerformanceRepository{conn: conn}
}

const sampleColumns = `id, course_id, sampled_at, grade, study_hours`

func scanSample(row pgx.Row) (performance.Sample, error) {
	var s performance.Sample
	if err := row.Scan(&s.ID, &s.CourseID, &s.Date, &s.Grade, &s.StudyHours); err != nil {
		if IsNoRows(err) {
			return performance.Sample{}, shared.ErrPerformanceNotFound
		}
		if verr := checkViolation("performance", err); verr != nil {
			return performance.Sample{}, verr
		}
		return performance.Sample{}, fmt.Errorf("failed to scan performance sample: %w", err)
	}
	s.Date = s.Date.UTC()
	return s, nil
}

func (r *PerformanceRepository) list(ctx context.Context, where string, args ...any) ([]performance.Sample, error) {
	rows, err := r.conn.Query(ctx, `SELECT `+sampleColumns+` FROM performance_samples `+where+` ORDER BY sampled_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list performance samples: %w", err)
	}
	defer rows.Close()

	out := make([]performance.Sample, 0)
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *PerformanceRepository) GetAll(ctx context.Context) ([]performance.Sample, error) {
	return r.list(ctx, "")
}

func (r *PerformanceRepository) GetByCourse(ctx context.Context, courseID int) ([]performance.Sample, error) {
	return r.list(ctx, "WHERE course_id = $1", courseID)
}

// GetByDateRange returns samples with start <= sampled_at <= end.
func (r *PerformanceRepository) GetByDateRange(ctx context.Context, start, end time.Time) ([]performance.Sample, error) {
	return r.list(ctx, "WHERE sampled_at BETWEEN $1 AND $2", start, end)
}

func (r *PerformanceRepository) GetByID(ctx context.Context, id int) (performance.Sample, error) {
	return scanSample(r.conn.QueryRow(ctx, `SELECT `+sampleColumns+` FROM performance_samples WHERE id = $1`, id))
}

func (r *PerformanceRepository) Create(ctx context.Context, s performance.Sample) (performance.Sample, error) {
	if err := s.Validate(); err != nil {
		return performance.Sample{}, err
	}
	return scanSample(r.conn.QueryRow(ctx, `
		INSERT INTO performance_samples (course_id, sampled_at, grade, study_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING `+sampleColumns,
		s.CourseID, s.Date, s.Grade, s.StudyHours,
	))
}

func (r *PerformanceRepository) Update(ctx context.Context, id int, s performance.Sample) (performance.Sample, error) {
	if err := s.Validate(); err != nil {
		return performance.Sample{}, err
	}
	return scanSample(r.conn.QueryRow(ctx, `
		UPDATE performance_samples SET course_id = $1, sampled_at = $2, grade = $3, study_hours = $4
		WHERE id = $5
		RETURNING `+sampleColumns,
		s.CourseID, s.Date, s.Grade, s.StudyHours, id,
	))
}

func (r *PerformanceRepository) Delete(ctx context.Context, id int) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM performance_samples WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete performance sample: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrPerformanceNotFound
	}
	return nil
}
