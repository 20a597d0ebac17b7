package connection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/learnhub-dashboard/internal/domain/shared"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "bare id", input: "1AbC_d-9", want: "1AbC_d-9"},
		{name: "trimmed", input: "  1AbC  ", want: "1AbC"},
		{name: "edit url", input: "https://docs.google.com/spreadsheets/d/1XyZ-42_q/edit#gid=0", want: "1XyZ-42_q"},
		{name: "path only", input: "/spreadsheets/d/abc123", want: "abc123"},
		{name: "empty", input: "   ", wantErr: true},
		{name: "other url", input: "https://example.com/file", wantErr: true},
		{name: "spaces inside", input: "not an id", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSpreadsheetID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, shared.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisconnected(t *testing.T) {
	s := Disconnected()
	assert.Equal(t, StatusDisconnected, s.Status)
	assert.Nil(t, s.LastSync)
}
