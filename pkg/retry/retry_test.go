package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast(attempts int) *Retrier {
	return New(
		WithMaxAttempts(attempts),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(2*time.Millisecond),
		WithJitter(0),
	)
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := fast(5).Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	calls := 0
	boom := errors.New("bad credentials")
	err := fast(5).Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(boom)
	})

	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	refused := errors.New("refused")
	err := fast(4).Do(context.Background(), func(context.Context) error {
		calls++
		return refused
	})

	assert.Equal(t, refused, err)
	assert.Equal(t, 4, calls)
}

func TestDo_StopsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := fast(10).Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("dial tcp: refused")
	})

	assert.EqualError(t, err, "dial tcp: refused")
	assert.Equal(t, 1, calls)
}

func TestStartupRetrier_ReportsEachRetry(t *testing.T) {
	var retried []int
	r := StartupRetrier(3, func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	})
	r.config.InitialDelay = time.Millisecond
	r.config.MaxDelay = time.Millisecond

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return errors.New("connection refused")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestStartupRetrier_StopsOnPermanent(t *testing.T) {
	r := StartupRetrier(5, nil)
	r.config.InitialDelay = time.Millisecond

	calls := 0
	bad := errors.New("invalid dsn")
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return Permanent(bad)
	})

	assert.Equal(t, bad, err)
	assert.Equal(t, 1, calls)
	assert.True(t, IsPermanent(Permanent(bad)))
	assert.Nil(t, Permanent(nil))
}

func TestCalculateDelay_Capped(t *testing.T) {
	r := New(WithInitialDelay(10*time.Millisecond), WithMaxDelay(25*time.Millisecond), WithJitter(0))
	assert.Equal(t, 10*time.Millisecond, r.calculateDelay(1))
	assert.Equal(t, 20*time.Millisecond, r.calculateDelay(2))
	assert.Equal(t, 25*time.Millisecond, r.calculateDelay(3))
}
