package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/scheduler"
)

// Exporter is implemented by command.ExportCoordinator.
type Exporter interface {
	Run(ctx context.Context, cmd command.RunExportCommand) (*command.ExportResult, error)
}

// ScheduledExportJob writes a fixed set of reports on every run.
type ScheduledExportJob struct {
	exporter Exporter
	exports  []command.RunExportCommand
}

// NewScheduledExportJob creates the job. exports run in order.
func NewScheduledExportJob(exporter Exporter, exports []command.RunExportCommand) *ScheduledExportJob {
	return &ScheduledExportJob{exporter: exporter, exports: exports}
}

func (j *ScheduledExportJob) Name() string { return "scheduled_export" }

func (j *ScheduledExportJob) Description() string {
	return fmt.Sprintf("Export %d report(s) to the output directory", len(j.exports))
}

// Run stops early, as a skip, when a user-triggered export holds the
// single-flight guard. Other failures are collected and the rest still run.
func (j *ScheduledExportJob) Run(ctx context.Context) error {
	var errs []error
	for _, cmd := range j.exports {
		_, err := j.exporter.Run(ctx, cmd)
		switch {
		case err == nil:
		case shared.IsExportInProgress(err):
			return fmt.Errorf("%w: another export is running", scheduler.ErrSkipped)
		default:
			errs = append(errs, fmt.Errorf("%s/%s: %w", cmd.Kind, cmd.Format, err))
		}
	}
	return errors.Join(errs...)
}
