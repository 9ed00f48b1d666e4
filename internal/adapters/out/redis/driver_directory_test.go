package redis_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/adapters/out/redis"
	"dispatch/internal/core/domain/model/kernel"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) *goredis.StringCmd {
	args := m.Called(ctx, key)
	return args.Get(0).(*goredis.StringCmd)
}

func (m *MockStore) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(*goredis.StatusCmd)
}

func (m *MockStore) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	args := m.Called(ctx, keys)
	return args.Get(0).(*goredis.IntCmd)
}

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) IsActive(ctx context.Context, driverID kernel.UUID) (bool, error) {
	args := m.Called(ctx, driverID)
	return args.Bool(0), args.Error(1)
}

const ttl = time.Minute

func newDirectory(store *MockStore, next *MockDirectory) *redis.CachedDriverDirectory {
	return redis.NewCachedDriverDirectory(store, next, ttl, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCachedDriverDirectory_Hit(t *testing.T) {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	store, next := new(MockStore), new(MockDirectory)
	store.On("Get", ctx, "driver:status:"+driverID.String()).Return(goredis.NewStringResult("0", nil))

	isActive, err := newDirectory(store, next).IsActive(ctx, driverID)

	require.NoError(t, err)
	assert.False(t, isActive)
	next.AssertNotCalled(t, "IsActive", mock.Anything, mock.Anything)
}

func TestCachedDriverDirectory_MissFillsCache(t *testing.T) {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	key := "driver:status:" + driverID.String()
	store, next := new(MockStore), new(MockDirectory)
	store.On("Get", ctx, key).Return(goredis.NewStringResult("", goredis.Nil))
	next.On("IsActive", ctx, driverID).Return(true, nil)
	store.On("Set", ctx, key, "1", ttl).Return(goredis.NewStatusResult("OK", nil))

	isActive, err := newDirectory(store, next).IsActive(ctx, driverID)

	require.NoError(t, err)
	assert.True(t, isActive)
	store.AssertExpectations(t)
}

func TestCachedDriverDirectory_OutageFallsThrough(t *testing.T) {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	down := errors.New("connection refused")
	store, next := new(MockStore), new(MockDirectory)
	store.On("Get", ctx, mock.Anything).Return(goredis.NewStringResult("", down))
	store.On("Set", ctx, mock.Anything, "1", ttl).Return(goredis.NewStatusResult("", down))
	next.On("IsActive", ctx, driverID).Return(true, nil)

	isActive, err := newDirectory(store, next).IsActive(ctx, driverID)

	require.NoError(t, err)
	assert.True(t, isActive)
}

func TestCachedDriverDirectory_SourceError(t *testing.T) {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	store, next := new(MockStore), new(MockDirectory)
	store.On("Get", ctx, mock.Anything).Return(goredis.NewStringResult("", goredis.Nil))
	next.On("IsActive", ctx, driverID).Return(false, errors.New("db down"))

	_, err := newDirectory(store, next).IsActive(ctx, driverID)

	require.Error(t, err)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCachedDriverDirectory_Forget(t *testing.T) {
	ctx := context.Background()
	driverID := kernel.NewUUID()
	store := new(MockStore)
	store.On("Del", ctx, []string{"driver:status:" + driverID.String()}).Return(goredis.NewIntResult(1, nil)).Once()
	store.On("Del", ctx, mock.Anything).Return(goredis.NewIntResult(0, errors.New("timeout")))
	directory := newDirectory(store, new(MockDirectory))

	require.NoError(t, directory.Forget(ctx, driverID))
	require.Error(t, directory.Forget(ctx, driverID))
}
