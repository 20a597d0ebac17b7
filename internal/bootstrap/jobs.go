package bootstrap

import (
	"github.com/learnhub/learnhub-dashboard/config"
	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/scheduler"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/scheduler/jobs"
)

// ExportPlan lists every report kind in every enabled format.
func ExportPlan(features *config.Features) []command.RunExportCommand {
	var out []command.RunExportCommand
	for _, k := range []report.Kind{report.KindProgress, report.KindGrades} {
		for _, f := range []report.Format{report.FormatCSV, report.FormatPDF} {
			if features.ExportFormatEnabled(string(f)) {
				out = append(out, command.RunExportCommand{Kind: string(k), Format: string(f)})
			}
		}
	}
	return out
}

// NewScheduler registers the configured background jobs. It returns nil
// when no job has a positive interval.
func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	sc := a.Config.Scheduler
	if !sc.Enabled() {
		return nil, nil
	}

	s := scheduler.New(scheduler.Config{Logger: a.Log})
	if sc.SyncInterval > 0 && a.Config.Features.IsEnabled(config.FeatureSheetSync) {
		if err := s.Register(jobs.NewAutoSyncJob(a.Connection), scheduler.Every(sc.SyncInterval)); err != nil {
			return nil, err
		}
	}
	if sc.ExportInterval > 0 {
		job := jobs.NewScheduledExportJob(a.Exports, ExportPlan(a.Config.Features))
		if err := s.Register(job, scheduler.Every(sc.ExportInterval)); err != nil {
			return nil, err
		}
	}
	return s, nil
}
