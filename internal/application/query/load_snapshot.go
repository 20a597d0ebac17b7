// Package query contains the read side of the dashboard: snapshot loading
// and the dashboard view model.
package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/performance"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOAD SNAPSHOT
// Reads all three collections concurrently and returns point-in-time copies.
// Consumers (dashboard, exports) never touch the repositories directly.
// ══════════════════════════════════════════════════════════════════════════════

// Snapshot is an immutable copy of every record collection.
type Snapshot struct {
	Courses     []course.Course
	Assignments []assignment.Assignment
	Performance []performance.Sample
	LoadedAt    time.Time
}

// Records is the total number of records in the snapshot.
func (s *Snapshot) Records() int {
	return len(s.Courses) + len(s.Assignments) + len(s.Performance)
}

// LoadSnapshotHandler loads snapshots from the repositories.
type LoadSnapshotHandler struct {
	courses     course.Repository
	assignments assignment.Repository
	performance performance.Repository
	log         *logger.Logger
	now         func() time.Time
}

// NewLoadSnapshotHandler creates a new snapshot loader.
func NewLoadSnapshotHandler(
	courses course.Repository,
	assignments assignment.Repository,
	performance performance.Repository,
	log *logger.Logger,
) *LoadSnapshotHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LoadSnapshotHandler{
		courses:     courses,
		assignments: assignments,
		performance: performance,
		log:         log.With(logger.Component("snapshot")),
		now:         time.Now,
	}
}

// Handle loads the three collections. Any repository failure is reported
// as a connection failure; nothing is retried.
func (h *LoadSnapshotHandler) Handle(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Courses, err = h.courses.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Assignments, err = h.assignments.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		snap.Performance, err = h.performance.GetAll(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		h.log.Error("snapshot load failed", logger.Err(err), logger.Latency(time.Since(start)))
		return nil, shared.WrapError("connection", "Load", shared.ErrConnectionFailure, "failed to load data", err)
	}

	snap.LoadedAt = h.now().UTC()
	h.log.Debug("snapshot loaded", logger.Records(snap.Records()), logger.Latency(time.Since(start)))
	return snap, nil
}
