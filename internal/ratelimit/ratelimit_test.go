package ratelimit

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/timebox/internal/db"
	"github.com/alexanderramin/timebox/internal/testutil"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSQLiteLimiter_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	l := NewSQLiteLimiter(testutil.NewTestDB(t), WithClock(clock.Now))

	for i := 0; i < DefaultLimit; i++ {
		res, err := l.Check(ctx, "sam", "schedule")
		require.NoError(t, err)
		assert.True(t, res.Allowed, "request %d", i+1)
		clock.Advance(10 * time.Second)
	}

	res, err := l.Check(ctx, "sam", "schedule")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.NotEmpty(t, res.Reason)

	// The first hit (t=0) leaves the window at t=60s.
	clock.Advance(30 * time.Second)
	res, err = l.Check(ctx, "sam", "schedule")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestSQLiteLimiter_BucketsAreIndependent(t *testing.T) {
	ctx := context.Background()
	l := NewSQLiteLimiter(testutil.NewTestDB(t), WithPolicy(1, time.Minute))

	first, _ := l.Check(ctx, "sam", "schedule")
	otherAction, _ := l.Check(ctx, "sam", "top-goals")
	otherUser, _ := l.Check(ctx, "alex", "schedule")
	again, _ := l.Check(ctx, "sam", "schedule")

	assert.True(t, first.Allowed)
	assert.True(t, otherAction.Allowed)
	assert.True(t, otherUser.Allowed)
	assert.False(t, again.Allowed)
}

func TestSQLiteLimiter_DeniedRequestsAreNotRecorded(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Unix(0, 0)}
	l := NewSQLiteLimiter(testutil.NewTestDB(t), WithPolicy(1, time.Minute), WithClock(clock.Now))

	res, _ := l.Check(ctx, "sam", "schedule")
	require.True(t, res.Allowed)
	for i := 0; i < 5; i++ {
		clock.Advance(10 * time.Second)
		res, _ = l.Check(ctx, "sam", "schedule")
		assert.False(t, res.Allowed)
	}

	clock.Advance(15 * time.Second)
	res, _ = l.Check(ctx, "sam", "schedule")
	assert.True(t, res.Allowed)
}

func TestSQLiteLimiter_FailsOpen(t *testing.T) {
	database := testutil.NewTestDB(t)
	var buf bytes.Buffer
	l := NewSQLiteLimiter(database, WithLogger(log.New(&buf)))
	require.NoError(t, database.Close())

	res, err := l.Check(context.Background(), "sam", "schedule")

	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Contains(t, buf.String(), "rate limit check failed")
}

func TestSQLiteLimiter_ConcurrentProcessesShareTheLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timebox.db")
	limiters := make([]*SQLiteLimiter, 2)
	for i := range limiters {
		conn, err := db.OpenDB(path)
		require.NoError(t, err)
		t.Cleanup(func() { conn.Close() })
		limiters[i] = NewSQLiteLimiter(conn, WithPolicy(3, time.Minute))
	}

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(l *SQLiteLimiter) {
			defer wg.Done()
			res, err := l.Check(context.Background(), "sam", "schedule")
			if err == nil && res.Allowed {
				allowed.Add(1)
			}
		}(limiters[i%2])
	}
	wg.Wait()

	assert.Equal(t, int32(3), allowed.Load())
}

func TestErrRateLimited_Text(t *testing.T) {
	assert.Equal(t, "rate limit exceeded, try again later", ErrRateLimited.Error())
}

func TestNoop(t *testing.T) {
	res, err := Noop{}.Check(context.Background(), "", "")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
