// Package command contains the write side of the dashboard: report exports
// and the spreadsheet connection flow.
package command

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/metrics"
	"github.com/learnhub/learnhub-dashboard/internal/domain/report"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/internal/infrastructure/delivery"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RUN EXPORT COMMAND
// Produces a progress or grade report as CSV or PDF from a snapshot of the
// record store and hands it to a delivery sink. At most one export runs at
// a time; concurrent requests are rejected, not queued.
// ══════════════════════════════════════════════════════════════════════════════

// RunExportCommand selects the report and file format.
type RunExportCommand struct {
	Kind   string
	Format string
}

// ExportResult describes a delivered export.
type ExportResult struct {
	ExportID    string           `json:"exportId"`
	Kind        report.Kind      `json:"kind"`
	Format      report.Format    `json:"format"`
	FileName    string           `json:"fileName"`
	ContentType string           `json:"contentType"`
	Content     []byte           `json:"-"`
	Receipt     delivery.Receipt `json:"receipt"`
	Records     int              `json:"records"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// Serializer renders a report model in one file format.
type Serializer interface {
	Format() report.Format
	Serialize(m *report.Model) ([]byte, error)
}

// Sink delivers a finished document.
type Sink interface {
	Deliver(ctx context.Context, doc delivery.Document) (delivery.Receipt, error)
}

// SnapshotLoader supplies read-only record copies.
type SnapshotLoader interface {
	Handle(ctx context.Context) (*query.Snapshot, error)
}

// Lock extends single-flight across processes, e.g. a Redis lock.
type Lock interface {
	TryAcquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
	// Held reports whether any holder, in any process, has the lock.
	Held(ctx context.Context) (bool, error)
}

// ExportCoordinatorConfig holds optional collaborators and tuning.
type ExportCoordinatorConfig struct {
	// ProcessingDelay is waited between serialization and delivery.
	ProcessingDelay time.Duration

	// Lock is consulted after the in-process guard. Nil disables it.
	Lock Lock

	Calculator *metrics.Calculator
	Assembler  *report.Assembler
	Logger     *logger.Logger
}

// ExportCoordinator runs exports one at a time.
type ExportCoordinator struct {
	loader      SnapshotLoader
	sink        Sink
	serializers map[report.Format]Serializer
	lock        Lock
	calculator  *metrics.Calculator
	assembler   *report.Assembler
	delay       time.Duration
	log         *logger.Logger
	newID       func() string

	inFlight atomic.Bool
}

// NewExportCoordinator wires a coordinator. Serializers are keyed by their
// own Format.
func NewExportCoordinator(loader SnapshotLoader, sink Sink, serializers []Serializer, cfg ExportCoordinatorConfig) *ExportCoordinator {
	byFormat := make(map[report.Format]Serializer, len(serializers))
	for _, s := range serializers {
		byFormat[s.Format()] = s
	}
	if cfg.Calculator == nil {
		cfg.Calculator = metrics.NewCalculator()
	}
	if cfg.Assembler == nil {
		cfg.Assembler = report.NewAssembler()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &ExportCoordinator{
		loader:      loader,
		sink:        sink,
		serializers: byFormat,
		lock:        cfg.Lock,
		calculator:  cfg.Calculator,
		assembler:   cfg.Assembler,
		delay:       cfg.ProcessingDelay,
		log:         cfg.Logger.With(logger.Component("export")),
		newID:       uuid.NewString,
	}
}

// InProgress reports whether an export is currently running in this process.
func (c *ExportCoordinator) InProgress() bool {
	return c.inFlight.Load()
}

// Busy also asks the distributed lock, so it sees exports started by other
// instances. A lock lookup error is logged and treated as not held.
func (c *ExportCoordinator) Busy(ctx context.Context) bool {
	if c.InProgress() {
		return true
	}
	if c.lock == nil {
		return false
	}
	held, err := c.lock.Held(ctx)
	if err != nil {
		c.log.Warn("export lock lookup failed", logger.Err(err))
		return false
	}
	return held
}

// Run executes assemble, serialize, delay and deliver strictly in order.
// Invalid kinds or formats are validation errors. A call made while another
// export runs returns ErrExportBusy. Any later failure is wrapped as
// ErrExportFailure with the report kind in the message.
func (c *ExportCoordinator) Run(ctx context.Context, cmd RunExportCommand) (*ExportResult, error) {
	kind, err := report.ParseKind(cmd.Kind)
	if err != nil {
		return nil, err
	}
	format, err := report.ParseFormat(cmd.Format)
	if err != nil {
		return nil, err
	}
	serializer, ok := c.serializers[format]
	if !ok {
		return nil, shared.ErrUnknownFormat
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		c.log.Warn("export rejected, another export is running", logger.ReportKind(string(kind)))
		return nil, shared.ErrExportBusy
	}
	defer c.inFlight.Store(false)

	exportID := c.newID()
	log := c.log.With(logger.ExportID(exportID), logger.ReportKind(string(kind)), logger.ExportFormat(string(format)))
	start := time.Now()

	fail := func(err error) (*ExportResult, error) {
		log.Error("export failed", logger.Err(err), logger.Latency(time.Since(start)))
		return nil, shared.WrapError("export", "Run", shared.ErrExportFailure, fmt.Sprintf("failed to export %s report", kind), err)
	}

	if c.lock != nil {
		acquired, err := c.lock.TryAcquire(ctx)
		if err != nil {
			return fail(err)
		}
		if !acquired {
			log.Warn("export rejected, lock held elsewhere")
			return nil, shared.ErrExportBusy
		}
		defer func() {
			if err := c.lock.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn("export lock release failed", logger.Err(err))
			}
		}()
	}

	snap, err := c.loader.Handle(ctx)
	if err != nil {
		return fail(err)
	}

	model := c.assembler.Assemble(kind, snap.Courses, snap.Assignments, c.calculator.Compute(snap.Assignments))

	content, err := serializer.Serialize(model)
	if err != nil {
		return fail(err)
	}

	if err := sleep(ctx, c.delay); err != nil {
		return fail(err)
	}

	doc := delivery.Document{
		FileName:    report.FileName(kind, format, model.GeneratedAt),
		ContentType: format.ContentType(),
		Content:     content,
	}
	receipt, err := c.sink.Deliver(ctx, doc)
	if err != nil {
		return fail(err)
	}

	log.Info("export delivered",
		logger.FileName(doc.FileName),
		logger.Int("bytes", receipt.Size),
		logger.String("checksum", receipt.Checksum),
		logger.Latency(time.Since(start)),
	)

	return &ExportResult{
		ExportID:    exportID,
		Kind:        kind,
		Format:      format,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Content:     content,
		Receipt:     receipt,
		Records:     len(snap.Courses) + len(snap.Assignments),
		GeneratedAt: model.GeneratedAt,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
