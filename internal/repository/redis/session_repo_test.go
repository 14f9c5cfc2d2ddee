package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	Client = goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	return mr
}

func TestSessionTokenLifecycle(t *testing.T) {
	setupRedis(t)
	repo := &SessionRepository{}
	ctx := context.Background()

	_, err := repo.GetToken(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, repo.AddToken(ctx, 1, "token-a"))
	got, err := repo.GetToken(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "token-a", got)

	// 新登录顶掉旧 token
	require.NoError(t, repo.AddToken(ctx, 1, "token-b"))
	got, err = repo.GetToken(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "token-b", got)

	require.NoError(t, repo.ExtendToken(ctx, 1))

	require.NoError(t, repo.DeleteToken(ctx, 1))
	_, err = repo.GetToken(ctx, 1)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestSeatsCacheLifecycle(t *testing.T) {
	setupRedis(t)
	cache := NewRosterCacheRepository()
	ctx := context.Background()

	_, ok, err := cache.GetSeatsCached(ctx, "locker", 1)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.SetSeats(ctx, "locker", 1, 2))
	val, ok, err := cache.GetSeatsCached(ctx, "locker", 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.EqualValues(t, 2, val)

	require.NoError(t, cache.DeleteSeats(ctx, "locker", 1))
	_, ok, err = cache.GetSeatsCached(ctx, "locker", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDistLockMutualExclusion(t *testing.T) {
	setupRedis(t)
	lock := &DistLock{RDB: Client}
	ctx := context.Background()

	got, err := lock.Acquire(ctx, "locker", 1, "holder-a")
	require.NoError(t, err)
	assert.True(t, got)

	got, err = lock.Acquire(ctx, "locker", 1, "holder-b")
	require.NoError(t, err)
	assert.False(t, got)

	// 别人的 token 释放不掉
	require.NoError(t, lock.Release(ctx, "locker", 1, "holder-b"))
	got, err = lock.Acquire(ctx, "locker", 1, "holder-b")
	require.NoError(t, err)
	assert.False(t, got)

	require.NoError(t, lock.Release(ctx, "locker", 1, "holder-a"))
	got, err = lock.Acquire(ctx, "locker", 1, "holder-b")
	require.NoError(t, err)
	assert.True(t, got)
}
