package services

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLock(t *testing.T) (*RefreshLock, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRefreshLock(rdb), mr
}

func TestRefreshLockAcquireRelease(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx))

	err := lock.Acquire(ctx)
	assert.ErrorIs(t, err, ErrRefreshInProgress)

	lock.Release(ctx)
	assert.NoError(t, lock.Acquire(ctx))
}

func TestRefreshLockExpires(t *testing.T) {
	lock, mr := newTestLock(t)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx))
	assert.ErrorIs(t, lock.Acquire(ctx), ErrRefreshInProgress)

	// A crashed holder never calls Release; the TTL frees the lock.
	mr.FastForward(refreshLockTTL)
	assert.NoError(t, lock.Acquire(ctx))
}

func TestRefreshLockReleaseAfterCancel(t *testing.T) {
	lock, _ := newTestLock(t)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, lock.Acquire(ctx))

	// The request context is gone by the time the deferred release runs.
	cancel()
	lock.Release(ctx)

	assert.NoError(t, lock.Acquire(context.Background()))
}

func TestRefreshLockNonBlocking(t *testing.T) {
	lock, _ := newTestLock(t)
	ctx := context.Background()

	require.NoError(t, lock.Acquire(ctx))

	// A held lock fails immediately rather than queueing.
	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, lock.Acquire(ctx), ErrRefreshInProgress)
	}
}
