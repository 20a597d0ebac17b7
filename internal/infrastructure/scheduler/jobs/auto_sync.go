// Package jobs contains the dashboard's scheduled jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/scheduler"
)

// Syncer is implemented by command.ConnectionTracker.
type Syncer interface {
	State() connection.State
	Sync(ctx context.Context) (*command.SyncResult, error)
}

// AutoSyncJob reloads the records of a connected spreadsheet.
type AutoSyncJob struct {
	tracker Syncer
}

// NewAutoSyncJob creates the job.
func NewAutoSyncJob(tracker Syncer) *AutoSyncJob {
	return &AutoSyncJob{tracker: tracker}
}

func (j *AutoSyncJob) Name() string { return "auto_sync" }

func (j *AutoSyncJob) Description() string {
	return "Reload every record collection while a spreadsheet is connected"
}

// Run skips unless the connection is currently connected.
func (j *AutoSyncJob) Run(ctx context.Context) error {
	st := j.tracker.State()
	if st.Status != connection.StatusConnected {
		return fmt.Errorf("%w: connection is %s", scheduler.ErrSkipped, st.Status)
	}
	_, err := j.tracker.Sync(ctx)
	return err
}
