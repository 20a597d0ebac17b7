// Package connection tracks the link between the dashboard and its external
// spreadsheet source.
package connection

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

// Status is the connection lifecycle: disconnected -> syncing -> connected.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusSyncing      Status = "syncing"
	StatusConnected    Status = "connected"
)

// State is the persisted connection snapshot.
type State struct {
	Status        Status     `json:"status"`
	SpreadsheetID string     `json:"spreadsheetId,omitempty"`
	LastSync      *time.Time `json:"lastSync,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}

// Disconnected is the initial state.
func Disconnected() State {
	return State{Status: StatusDisconnected}
}

// Store persists the connection state between restarts.
type Store interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

var (
	sheetPath = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
	sheetID   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// ExtractSpreadsheetID accepts a bare Google Sheets ID or any URL containing
// "/spreadsheets/d/<id>" and returns the ID.
func ExtractSpreadsheetID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", shared.ErrInvalidSpreadsheet
	}
	if m := sheetPath.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	if u, err := url.Parse(input); err == nil && u.Scheme != "" {
		return "", shared.ErrInvalidSpreadsheet
	}
	if !sheetID.MatchString(input) {
		return "", shared.ErrInvalidSpreadsheet
	}
	return input, nil
}
