package cleanup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu      sync.Mutex
	calls   int
	cutoffs []time.Time
	deleted int64
	err     error
}

func (f *fakePurger) PurgeCancelled(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.deleted, f.err
}

func (f *fakePurger) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

func TestWorker_PurgesImmediatelyOnStart(t *testing.T) {
	purger := &fakePurger{deleted: 3}
	w := NewWorker(purger, time.Hour, 30*24*time.Hour, noopLogger{})

	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return purger.callCount() >= 1
	}, time.Second, 10*time.Millisecond)
}

func TestWorker_PurgesOnTicker(t *testing.T) {
	purger := &fakePurger{}
	w := NewWorker(purger, 20*time.Millisecond, time.Hour, noopLogger{})

	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return purger.callCount() >= 3
	}, time.Second, 5*time.Millisecond)
}

func TestWorker_CutoffRespectsRetention(t *testing.T) {
	purger := &fakePurger{}
	retention := 30 * 24 * time.Hour
	now := time.Date(2025, time.June, 16, 12, 0, 0, 0, time.UTC)

	w := NewWorker(purger, time.Hour, retention, noopLogger{})
	w.timeProvider = &fixedTimeProvider{now: now}

	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return purger.callCount() >= 1
	}, time.Second, 10*time.Millisecond)

	purger.mu.Lock()
	cutoff := purger.cutoffs[0]
	purger.mu.Unlock()

	assert.Equal(t, now.Add(-retention), cutoff)
}

func TestWorker_StopWaitsForCompletion(t *testing.T) {
	purger := &fakePurger{}
	w := NewWorker(purger, time.Hour, time.Hour, noopLogger{})

	w.Start(context.Background())

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestWorker_PurgeErrorDoesNotStopWorker(t *testing.T) {
	purger := &fakePurger{err: assert.AnError}
	w := NewWorker(purger, 20*time.Millisecond, time.Hour, noopLogger{})

	w.Start(context.Background())
	defer w.Stop()

	require.Eventually(t, func() bool {
		return purger.callCount() >= 2
	}, time.Second, 5*time.Millisecond)
}
