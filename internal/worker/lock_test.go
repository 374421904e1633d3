package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	data   map[string]string
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if f.setErr != nil {
		return false, f.setErr
	}
	if _, ok := f.data[key]; ok {
		return false, nil
	}
	f.data[key] = value.(string)
	return true, nil
}

func (f *fakeRedis) Get(_ context.Context, key string) (string, error) {
	if f.getErr != nil {
		return "", f.getErr
	}
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeRedis) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
	}
	return nil
}

func TestLockAcquireAndRelease(t *testing.T) {
	store := newFakeRedis()
	lock, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, store.data["test-lock"])

	require.NoError(t, lock.Release(context.Background()))
	assert.Empty(t, store.data)
}

func TestLockContention(t *testing.T) {
	store := newFakeRedis()
	first, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)
	second, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)

	ok, err := first.Acquire(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLockReleaseSkipsForeignOwner(t *testing.T) {
	store := newFakeRedis()
	lock, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	// Another instance took over after our TTL expired.
	store.data["test-lock"] = "someone-else"

	require.NoError(t, lock.Release(context.Background()))
	assert.Equal(t, "someone-else", store.data["test-lock"])
}

func TestLockReleaseToleratesExpiredKey(t *testing.T) {
	store := newFakeRedis()
	lock, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)

	ok, err := lock.Acquire(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	delete(store.data, "test-lock")
	require.NoError(t, lock.Release(context.Background()))
}

func TestLockReleaseWithoutAcquireIsNoop(t *testing.T) {
	store := newFakeRedis()
	lock, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)
	require.NoError(t, lock.Release(context.Background()))
}

func TestLockAcquirePropagatesStoreError(t *testing.T) {
	store := newFakeRedis()
	store.setErr = errors.New("connection refused")
	lock, err := NewRedisLock(store, "test-lock", time.Minute)
	require.NoError(t, err)

	_, err = lock.Acquire(context.Background())
	require.Error(t, err)
}

func TestNewRedisLockValidation(t *testing.T) {
	_, err := NewRedisLock(nil, "key", time.Minute)
	require.Error(t, err)

	_, err = NewRedisLock(newFakeRedis(), "", time.Minute)
	require.Error(t, err)
}
