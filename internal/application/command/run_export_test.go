package command

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/assignment"
	"github.com/learnhub/learnhub-dashboard/internal/domain/course"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/delivery"
	csvexport "github.com/learnhub/learnhub-dashboard/internal/infrastructure/export/csv"
	pdfexport "github.com/learnhub/learnhub-dashboard/internal/infrastructure/export/pdf"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/persistence/memory"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return now }

type fixture struct {
	store  *memory.Store
	loader *query.LoadSnapshotHandler
	sink   *delivery.MemorySink
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore(memory.Latency{})
	store.Seed(now)
	return fixture{
		store:  store,
		loader: query.NewLoadSnapshotHandler(store.Courses, store.Assignments, store.Performance, logger.Nop()),
		sink:   delivery.NewMemorySink(),
	}
}

func (f fixture) coordinator(sink Sink, serializers []Serializer, cfg ExportCoordinatorConfig) *ExportCoordinator {
	if sink == nil {
		sink = f.sink
	}
	if serializers == nil {
		serializers = []Serializer{csvexport.NewSerializer(), pdfexport.NewSerializer()}
	}
	cfg.Calculator = &metrics.Calculator{Now: fixedClock}
	cfg.Assembler = &report.Assembler{Now: fixedClock}
	return NewExportCoordinator(f.loader, sink, serializers, cfg)
}

func TestRunExport_CSVProgress(t *testing.T) {
	f := newFixture(t)
	c := f.coordinator(nil, nil, ExportCoordinatorConfig{})

	res, err := c.Run(context.Background(), RunExportCommand{Kind: "progress", Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, "progress-report-2024-01-15.csv", res.FileName)
	assert.Equal(t, "text/csv", res.ContentType)
	assert.NotEmpty(t, res.ExportID)
	assert.Equal(t, delivery.Checksum(res.Content), res.Receipt.Checksum)
	assert.False(t, c.InProgress())

	doc, err := f.sink.Get(res.FileName)
	require.NoError(t, err)
	text := string(doc.Content)
	assert.True(t, strings.HasPrefix(text, `"Progress Report - Generated on Jan 15, 2024"`))
	assert.Contains(t, text, "Current GPA,3.54\n")
	assert.Contains(t, text, "Completion Rate,50%\n")
	assert.Contains(t, text, "Upcoming Deadlines,2\n")
	assert.Contains(t, text, "Overdue Assignments,1\n")
}

func TestRunExport_TwoCourseScenario(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(memory.Latency{})

	physics, err := store.Courses.Create(ctx, course.Course{Title: "Physics", Code: "PHY 101", Credits: 4})
	require.NoError(t, err)
	history, err := store.Courses.Create(ctx, course.Course{Title: "History", Code: "HIS 210", Credits: 3})
	require.NoError(t, err)

	g85, g95 := 85.0, 95.0
	day := 24 * time.Hour
	for _, a := range []assignment.Assignment{
		{Title: "Lab 1", CourseID: physics.ID, CourseTitle: "Physics", DueDate: now.Add(-10 * day), Status: assignment.StatusCompleted, Grade: &g85},
		{Title: "Essay", CourseID: history.ID, CourseTitle: "History", DueDate: now.Add(-8 * day), Status: assignment.StatusCompleted, Grade: &g95},
		{Title: "Quiz 1", CourseID: physics.ID, CourseTitle: "Physics", DueDate: now.Add(-5 * day), Status: assignment.StatusCompleted},
		{Title: "Lab 2", CourseID: physics.ID, CourseTitle: "Physics", DueDate: now.Add(-2 * day), Status: assignment.StatusOverdue},
		{Title: "Source Review", CourseID: history.ID, CourseTitle: "History", DueDate: now.Add(3 * day), Status: assignment.StatusPending},
	} {
		_, err := store.Assignments.Create(ctx, a)
		require.NoError(t, err)
	}

	sink := delivery.NewMemorySink()
	loader := query.NewLoadSnapshotHandler(store.Courses, store.Assignments, store.Performance, logger.Nop())
	c := NewExportCoordinator(loader, sink, []Serializer{csvexport.NewSerializer()}, ExportCoordinatorConfig{
		Calculator: &metrics.Calculator{Now: fixedClock},
		Assembler:  &report.Assembler{Now: fixedClock},
	})

	res, err := c.Run(ctx, RunExportCommand{Kind: "progress", Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Records)
	assert.Equal(t, 1, sink.Len())

	doc, err := sink.Get(res.FileName)
	require.NoError(t, err)
	text := string(doc.Content)
	assert.Contains(t, text, "SUMMARY METRICS\n")
	assert.Contains(t, text, "Current GPA,3.60\n")
	assert.Contains(t, text, "Completion Rate,60%\n")
	assert.Contains(t, text, "Upcoming Deadlines,1\n")
	assert.Contains(t, text, "Overdue Assignments,1\n")
}

func TestRunExport_PDFGrades(t *testing.T) {
	f := newFixture(t)
	c := f.coordinator(nil, nil, ExportCoordinatorConfig{})

	res, err := c.Run(context.Background(), RunExportCommand{Kind: "grades", Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "grade-summary-2024-01-15.pdf", res.FileName)
	assert.Equal(t, "application/pdf", res.ContentType)
	assert.True(t, strings.HasPrefix(string(res.Content), "%PDF-"))
}

func TestRunExport_ValidationErrorsAreNotWrapped(t *testing.T) {
	f := newFixture(t)
	c := f.coordinator(nil, nil, ExportCoordinatorConfig{})

	_, err := c.Run(context.Background(), RunExportCommand{Kind: "attendance", Format: "csv"})
	assert.True(t, shared.IsValidation(err))
	assert.False(t, errors.Is(err, shared.ErrExportFailure))

	_, err = c.Run(context.Background(), RunExportCommand{Kind: "progress", Format: "xlsx"})
	assert.True(t, shared.IsValidation(err))

	only := f.coordinator(nil, []Serializer{csvexport.NewSerializer()}, ExportCoordinatorConfig{})
	_, err = only.Run(context.Background(), RunExportCommand{Kind: "progress", Format: "pdf"})
	assert.ErrorIs(t, err, shared.ErrUnknownFormat)
}

// blockingSink holds every delivery until release is closed.
type blockingSink struct {
	entered   chan struct{}
	release   chan struct{}
	delivered atomic.Int32
}

func (s *blockingSink) Deliver(ctx context.Context, doc delivery.Document) (delivery.Receipt, error) {
	if s.delivered.Add(1) == 1 {
		close(s.entered)
	}
	<-s.release
	return delivery.Receipt{Location: doc.FileName, Size: len(doc.Content)}, nil
}

func TestRunExport_SingleFlight(t *testing.T) {
	f := newFixture(t)
	sink := &blockingSink{entered: make(chan struct{}), release: make(chan struct{})}
	c := f.coordinator(sink, nil, ExportCoordinatorConfig{})

	done := make(chan error, 1)
	go func() {
		_, err := c.Run(context.Background(), RunExportCommand{Kind: "progress", Format: "csv"})
		done <- err
	}()

	<-sink.entered
	assert.True(t, c.InProgress())

	_, err := c.Run(context.Background(), RunExportCommand{Kind: "grades", Format: "csv"})
	assert.True(t, shared.IsExportInProgress(err))
	assert.ErrorIs(t, err, shared.ErrExportBusy)

	close(sink.release)
	require.NoError(t, <-done)
	assert.False(t, c.InProgress())
	assert.Equal(t, int32(1), sink.delivered.Load())

	// the flag is cleared, so a new export may start
	_, err = f.coordinator(nil, nil, ExportCoordinatorConfig{}).Run(context.Background(), RunExportCommand{Kind: "grades", Format: "csv"})
	assert.NoError(t, err)
}

type failingSerializer struct{ err error }

func (s failingSerializer) Format() report.Format { return report.FormatPDF }
func (s failingSerializer) Serialize(*report.Model) ([]byte, error) {
	return nil, s.err
}

func TestRunExport_FailureIsWrappedWithKind(t *testing.T) {
	f := newFixture(t)
	cause := errors.New("font table corrupt")
	c := f.coordinator(nil, []Serializer{failingSerializer{err: cause}}, ExportCoordinatorConfig{})

	_, err := c.Run(context.Background(), RunExportCommand{Kind: "grades", Format: "pdf"})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrExportFailure)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "failed to export grades report")
	assert.False(t, c.InProgress())
	assert.Equal(t, 0, f.sink.Len())
}

func TestRunExport_FileSinkFailureLeavesNoFile(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "progress-report-2024-01-15.csv"), 0o755))

	c := f.coordinator(delivery.NewFileSink(dir), nil, ExportCoordinatorConfig{})
	_, err := c.Run(context.Background(), RunExportCommand{Kind: "progress", Format: "csv"})
	require.ErrorIs(t, err, shared.ErrExportFailure)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRunExport_CanceledContext(t *testing.T) {
	f := newFixture(t)
	c := f.coordinator(nil, nil, ExportCoordinatorConfig{ProcessingDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Run(ctx, RunExportCommand{Kind: "progress", Format: "csv"})
	assert.ErrorIs(t, err, shared.ErrExportFailure)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, f.sink.Len())
}

func TestRunExport_DoesNotMutateStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.loader.Handle(ctx)
	require.NoError(t, err)

	c := f.coordinator(nil, nil, ExportCoordinatorConfig{})
	_, err = c.Run(ctx, RunExportCommand{Kind: "grades", Format: "csv"})
	require.NoError(t, err)

	after, err := f.loader.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.Courses, after.Courses)
	assert.Equal(t, before.Assignments, after.Assignments)
}

type fakeLock struct {
	acquire  bool
	held     bool
	err      error
	released int
}

func (l *fakeLock) TryAcquire(context.Context) (bool, error) { return l.acquire, l.err }
func (l *fakeLock) Held(context.Context) (bool, error)       { return l.held, l.err }
func (l *fakeLock) Release(context.Context) error {
	l.released++
	return nil
}

func TestRunExport_DistributedLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cmd := RunExportCommand{Kind: "progress", Format: "csv"}

	held := &fakeLock{acquire: false}
	_, err := f.coordinator(nil, nil, ExportCoordinatorConfig{Lock: held}).Run(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrExportInProgress)
	assert.Equal(t, 0, held.released)

	down := &fakeLock{err: errors.New("redis down")}
	_, err = f.coordinator(nil, nil, ExportCoordinatorConfig{Lock: down}).Run(ctx, cmd)
	assert.ErrorIs(t, err, shared.ErrExportFailure)

	free := &fakeLock{acquire: true}
	_, err = f.coordinator(nil, nil, ExportCoordinatorConfig{Lock: free}).Run(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, free.released)
}

func TestExportCoordinator_BusyConsultsLock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.False(t, f.coordinator(nil, nil, ExportCoordinatorConfig{}).Busy(ctx))

	elsewhere := f.coordinator(nil, nil, ExportCoordinatorConfig{Lock: &fakeLock{held: true}})
	assert.False(t, elsewhere.InProgress())
	assert.True(t, elsewhere.Busy(ctx))

	down := f.coordinator(nil, nil, ExportCoordinatorConfig{Lock: &fakeLock{held: true, err: errors.New("redis down")}})
	assert.False(t, down.Busy(ctx))
}
