package command

import (
	"context"
	"sync"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
	"github.com/learnhub/learnhub-dashboard/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONNECT / SYNC COMMANDS
// The tracker moves disconnected -> syncing -> connected. A failed load
// drops back to disconnected; recovery is a new Connect or Sync call.
// ══════════════════════════════════════════════════════════════════════════════

// ConnectCommand links a spreadsheet by ID or URL.
type ConnectCommand struct {
	Spreadsheet string
}

// SyncResult summarizes a successful reload.
type SyncResult struct {
	State       connection.State `json:"state"`
	Courses     int              `json:"courses"`
	Assignments int              `json:"assignments"`
	Samples     int              `json:"samples"`
}

// ConnectionTracker owns the connection state.
type ConnectionTracker struct {
	mu     sync.RWMutex
	state  connection.State
	loader SnapshotLoader
	store  connection.Store
	log    *logger.Logger
	now    func() time.Time
}

// NewConnectionTracker creates a tracker. store may be nil.
func NewConnectionTracker(loader SnapshotLoader, store connection.Store, log *logger.Logger) *ConnectionTracker {
	if log == nil {
		log = logger.Nop()
	}
	return &ConnectionTracker{
		state:  connection.Disconnected(),
		loader: loader,
		store:  store,
		log:    log.With(logger.Component("connection")),
		now:    time.Now,
	}
}

// Restore loads the persisted state. A state saved mid-sync is restored
// as disconnected.
func (t *ConnectionTracker) Restore(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	st, err := t.store.Load(ctx)
	if err != nil {
		return err
	}
	if st.Status == connection.StatusSyncing {
		st.Status = connection.StatusDisconnected
	}
	t.mu.Lock()
	t.state = st
	t.mu.Unlock()
	return nil
}

// State returns the current connection state.
func (t *ConnectionTracker) State() connection.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Connect validates the spreadsheet reference and performs a first sync.
// An invalid reference leaves the state unchanged.
func (t *ConnectionTracker) Connect(ctx context.Context, cmd ConnectCommand) (*SyncResult, error) {
	id, err := connection.ExtractSpreadsheetID(cmd.Spreadsheet)
	if err != nil {
		return nil, err
	}
	return t.sync(ctx, id)
}

// Sync reloads every record collection using the current spreadsheet.
// A tracker that was never connected rejects it with ErrNotConnected.
func (t *ConnectionTracker) Sync(ctx context.Context) (*SyncResult, error) {
	id := t.State().SpreadsheetID
	if id == "" {
		return nil, shared.ErrNotConnected
	}
	return t.sync(ctx, id)
}

func (t *ConnectionTracker) sync(ctx context.Context, spreadsheetID string) (*SyncResult, error) {
	t.mu.Lock()
	if t.state.Status == connection.StatusSyncing {
		t.mu.Unlock()
		return nil, shared.NewDomainError("connection", "Sync", shared.ErrValidation, "a sync is already running")
	}
	t.state = connection.State{Status: connection.StatusSyncing, SpreadsheetID: spreadsheetID, LastSync: t.state.LastSync}
	t.mu.Unlock()

	log := t.log.With(logger.String("spreadsheet_id", spreadsheetID))
	snap, err := t.loader.Handle(ctx)

	t.mu.Lock()
	if err != nil {
		t.state.Status = connection.StatusDisconnected
		t.state.LastError = err.Error()
	} else {
		synced := t.now().UTC()
		t.state.Status = connection.StatusConnected
		t.state.LastSync = &synced
		t.state.LastError = ""
	}
	st := t.state
	t.mu.Unlock()

	t.persist(ctx, st)

	if err != nil {
		log.Error("sync failed", logger.Err(err))
		if shared.IsConnectionFailure(err) {
			return nil, err
		}
		return nil, shared.WrapError("connection", "Sync", shared.ErrConnectionFailure, "failed to load data", err)
	}

	log.Info("sync completed", logger.Records(snap.Records()))
	return &SyncResult{
		State:       st,
		Courses:     len(snap.Courses),
		Assignments: len(snap.Assignments),
		Samples:     len(snap.Performance),
	}, nil
}

func (t *ConnectionTracker) persist(ctx context.Context, st connection.State) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(context.WithoutCancel(ctx), st); err != nil {
		t.log.Warn("connection state not saved", logger.Err(err))
	}
}
