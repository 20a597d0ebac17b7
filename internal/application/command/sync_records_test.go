package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/application/query"
	"github.com/learnhub/learnhub-dashboard/internal/domain/connection"
	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

type stubLoader struct {
	snap *query.Snapshot
	err  error
}

func (l *stubLoader) Handle(context.Context) (*query.Snapshot, error) {
	return l.snap, l.err
}

type memoryStateStore struct {
	saved []connection.State
	load  connection.State
}

func (s *memoryStateStore) Load(context.Context) (connection.State, error) { return s.load, nil }
func (s *memoryStateStore) Save(_ context.Context, st connection.State) error {
	s.saved = append(s.saved, st)
	return nil
}

func newTracker(loader SnapshotLoader, store connection.Store) *ConnectionTracker {
	t := NewConnectionTracker(loader, store, nil)
	t.now = fixedClock
	return t
}

func TestConnectionTracker_ConnectSucceeds(t *testing.T) {
	f := newFixture(t)
	store := &memoryStateStore{}
	tr := newTracker(f.loader, store)

	res, err := tr.Connect(context.Background(), ConnectCommand{Spreadsheet: "https://docs.google.com/spreadsheets/d/abc123/edit"})
	require.NoError(t, err)

	assert.Equal(t, connection.StatusConnected, res.State.Status)
	assert.Equal(t, "abc123", res.State.SpreadsheetID)
	require.NotNil(t, res.State.LastSync)
	assert.Equal(t, now, *res.State.LastSync)
	assert.Equal(t, 4, res.Courses)
	assert.Equal(t, 10, res.Assignments)
	assert.Equal(t, tr.State(), res.State)
	require.Len(t, store.saved, 1)
}

func TestConnectionTracker_InvalidSpreadsheetKeepsState(t *testing.T) {
	tr := newTracker(&stubLoader{}, nil)

	_, err := tr.Connect(context.Background(), ConnectCommand{Spreadsheet: ""})
	assert.ErrorIs(t, err, shared.ErrInvalidSpreadsheet)
	assert.Equal(t, connection.StatusDisconnected, tr.State().Status)
}

func TestConnectionTracker_SyncBeforeConnectIsRejected(t *testing.T) {
	f := newFixture(t)
	store := &memoryStateStore{}
	tr := newTracker(f.loader, store)

	res, err := tr.Sync(context.Background())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, shared.ErrNotConnected)
	assert.True(t, shared.IsValidation(err))

	st := tr.State()
	assert.Equal(t, connection.StatusDisconnected, st.Status)
	assert.Empty(t, st.SpreadsheetID)
	assert.Nil(t, st.LastSync)
	assert.Empty(t, store.saved)
}

func TestConnectionTracker_LoadFailureDisconnects(t *testing.T) {
	loader := &stubLoader{err: errors.New("quota exceeded")}
	tr := newTracker(loader, nil)

	_, err := tr.Connect(context.Background(), ConnectCommand{Spreadsheet: "sheet1"})
	require.Error(t, err)
	assert.True(t, shared.IsConnectionFailure(err))

	st := tr.State()
	assert.Equal(t, connection.StatusDisconnected, st.Status)
	assert.Contains(t, st.LastError, "quota exceeded")

	// recovery is a plain retry by the user
	loader.err = nil
	loader.snap = &query.Snapshot{}
	res, err := tr.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, connection.StatusConnected, res.State.Status)
	assert.Equal(t, "sheet1", res.State.SpreadsheetID)
	assert.Empty(t, res.State.LastError)
}

func TestConnectionTracker_RestoreDemotesSyncing(t *testing.T) {
	last := now.Add(-time.Hour)
	store := &memoryStateStore{load: connection.State{Status: connection.StatusSyncing, SpreadsheetID: "s", LastSync: &last}}
	tr := newTracker(&stubLoader{}, store)

	require.NoError(t, tr.Restore(context.Background()))
	st := tr.State()
	assert.Equal(t, connection.StatusDisconnected, st.Status)
	assert.Equal(t, "s", st.SpreadsheetID)
	assert.Equal(t, &last, st.LastSync)
}
