package housekeeping

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPurger struct {
	calls   atomic.Int32
	removed int64
	err     error
}

func (p *countingPurger) PurgeExpiredSessions(context.Context) (int64, error) {
	p.calls.Add(1)
	return p.removed, p.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRejectsInvalidSchedule(t *testing.T) {
	t.Parallel()

	_, err := New("every hour", &countingPurger{}, quietLogger())
	assert.Error(t, err)

	_, err = New("@every 1h", nil, quietLogger())
	assert.Error(t, err)
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	purger := &countingPurger{removed: 3}
	s, err := New("@every 1h", purger, quietLogger())
	require.NoError(t, err)

	removed, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
	assert.Equal(t, int32(1), purger.calls.Load())

	failing := &countingPurger{err: errors.New("database is locked")}
	s, err = New("@every 1h", failing, quietLogger())
	require.NoError(t, err)
	_, err = s.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	s, err := New("@every 1h", &countingPurger{}, quietLogger())
	require.NoError(t, err)

	assert.True(t, s.NextRun().IsZero())
	s.Start()
	next := s.NextRun()
	assert.WithinDuration(t, time.Now().Add(time.Hour), next, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestScheduledPurgeRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for a cron tick")
	}
	t.Parallel()

	purger := &countingPurger{}
	s, err := New("@every 1s", purger, quietLogger())
	require.NoError(t, err)
	s.Start()
	defer func() { _ = s.Stop(context.Background()) }()

	require.Eventually(t, func() bool { return purger.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}
