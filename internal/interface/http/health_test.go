package http

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_ReportsDetails(t *testing.T) {
	h := NewHealthChecker("test")
	h.AddDetailedCheck("database", func(context.Context) (any, error) {
		return map[string]int{"totalConns": 3}, nil
	})

	st := h.Check(context.Background())
	require.True(t, st.Healthy)
	assert.Equal(t, map[string]int{"totalConns": 3}, st.Checks["database"].Details)
	assert.Equal(t, "All checks passed", st.Message)
}

func TestHealthChecker_TimeoutFailsSlowCheck(t *testing.T) {
	h := NewHealthChecker("test")
	h.SetTimeout(10 * time.Millisecond)
	h.AddCheck("redis", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	st := h.Check(context.Background())
	assert.False(t, st.Healthy)
	assert.Contains(t, st.Checks["redis"].Message, "deadline exceeded")
	assert.Nil(t, st.Checks["redis"].Details)
}

func TestHealthChecker_NoChecks(t *testing.T) {
	st := NewHealthChecker("test").Check(context.Background())
	assert.True(t, st.Healthy)
	assert.Equal(t, "No health checks registered", st.Message)
}
