package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sitefinder/pkg/ratelimit"
)

func TestFirstSlotImmediate(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{MinInterval: time.Second})

	start := time.Now()
	require.NoError(t, l.WaitForSlot(context.Background(), "engine-a"))
	require.Less(t, time.Since(start), 100*time.Millisecond, "first slot should not block")
}

func TestSourcesAreIndependent(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{MinInterval: time.Hour})

	require.NoError(t, l.WaitForSlot(context.Background(), "engine-a"))

	// engine-a's bucket is now empty, engine-b's is not.
	start := time.Now()
	require.NoError(t, l.WaitForSlot(context.Background(), "engine-b"))
	require.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestFailureWidensInterval(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{
		MinInterval:   time.Second,
		MaxInterval:   8 * time.Second,
		FailureStreak: 2,
	})

	require.Equal(t, time.Second, l.Interval("engine-a"))

	l.ReportFailure("engine-a")
	require.Equal(t, time.Second, l.Interval("engine-a"), "one failure below streak keeps interval")

	l.ReportFailure("engine-a")
	require.Equal(t, 2*time.Second, l.Interval("engine-a"), "streak doubles interval")

	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	require.Equal(t, 8*time.Second, l.Interval("engine-a"), "interval capped at MaxInterval")
}

func TestSuccessNarrowsInterval(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{
		MinInterval:   time.Second,
		MaxInterval:   8 * time.Second,
		FailureStreak: 1,
	})

	l.ReportFailure("engine-a")
	l.ReportFailure("engine-a")
	require.Equal(t, 4*time.Second, l.Interval("engine-a"))

	l.ReportSuccess("engine-a")
	require.Equal(t, 2*time.Second, l.Interval("engine-a"))
	l.ReportSuccess("engine-a")
	require.Equal(t, time.Second, l.Interval("engine-a"))
	l.ReportSuccess("engine-a")
	require.Equal(t, time.Second, l.Interval("engine-a"), "never below MinInterval")
}

func TestBoundedWaitProceeds(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{
		MinInterval: time.Hour,
		MaxWait:     50 * time.Millisecond,
	})

	// Drain the bucket, then the next wait must give up within MaxWait and
	// let the caller proceed instead of blocking for an hour.
	require.NoError(t, l.WaitForSlot(context.Background(), "slow"))

	start := time.Now()
	require.NoError(t, l.WaitForSlot(context.Background(), "slow"))
	require.Less(t, time.Since(start), time.Second)
}

func TestCallerCancellationWins(t *testing.T) {
	l := ratelimit.New(ratelimit.Options{
		MinInterval: time.Hour,
		MaxWait:     time.Hour,
	})
	require.NoError(t, l.WaitForSlot(context.Background(), "slow"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.WaitForSlot(ctx, "slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
