package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/application/command"
	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/scheduler"
)

type fakeSyncer struct {
	state connection.State
	syncs int
}

func (f *fakeSyncer) State() connection.State { return f.state }

func (f *fakeSyncer) Sync(context.Context) (*command.SyncResult, error) {
	f.syncs++
	return &command.SyncResult{State: f.state}, nil
}

func TestAutoSync(t *testing.T) {
	s := &fakeSyncer{state: connection.Disconnected()}
	job := NewAutoSyncJob(s)

	err := job.Run(context.Background())
	assert.ErrorIs(t, err, scheduler.ErrSkipped)
	assert.Zero(t, s.syncs)

	s.state.Status = connection.StatusConnected
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, s.syncs)
}

type fakeExporter struct {
	errs map[string]error
	ran  []string
}

func (f *fakeExporter) Run(_ context.Context, cmd command.RunExportCommand) (*command.ExportResult, error) {
	key := cmd.Kind + "/" + cmd.Format
	f.ran = append(f.ran, key)
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return &command.ExportResult{FileName: key}, nil
}

var plan = []command.RunExportCommand{
	{Kind: "progress", Format: "csv"},
	{Kind: "grades", Format: "pdf"},
}

func TestScheduledExport_CollectsFailures(t *testing.T) {
	exp := &fakeExporter{errs: map[string]error{"progress/csv": errors.New("disk full")}}
	err := NewScheduledExportJob(exp, plan).Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "progress/csv: disk full")
	assert.Equal(t, []string{"progress/csv", "grades/pdf"}, exp.ran)
}

func TestScheduledExport_SkipsWhenBusy(t *testing.T) {
	exp := &fakeExporter{errs: map[string]error{"progress/csv": shared.ErrExportBusy}}
	err := NewScheduledExportJob(exp, plan).Run(context.Background())

	assert.ErrorIs(t, err, scheduler.ErrSkipped)
	assert.Equal(t, []string{"progress/csv"}, exp.ran)
}
