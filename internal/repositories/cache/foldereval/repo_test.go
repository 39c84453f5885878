package cachefolderevalrepo

import (
	"context"
	"errors"
	"testing"
	"time"

	"docvault/internal/models"
	cacherepo "docvault/internal/repositories/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockCache struct {
	mock.Mock
}

type mockResponse[T any] struct {
	val T
	err error
}

func (m *mockCache) Get(ctx context.Context, key string) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) cacherepo.CacheResponse[string] {
	args := m.Called(ctx, key, value, expiration)
	return args.Get(0).(cacherepo.CacheResponse[string])
}

func (m *mockCache) Del(ctx context.Context, keys ...string) cacherepo.CacheResponse[int64] {
	args := m.Called(ctx, keys)
	return args.Get(0).(cacherepo.CacheResponse[int64])
}

func (m *mockCache) DelByPattern(ctx context.Context, pattern string) cacherepo.CacheResponse[int64] {
	args := m.Called(ctx, pattern)
	return args.Get(0).(cacherepo.CacheResponse[int64])
}

func (r *mockResponse[T]) Err() error {
	return r.err
}

func (r *mockResponse[T]) Result() (T, error) {
	return r.val, r.err
}

func TestGet_Hit(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{val: `{"items":[]}`, err: nil}

	mockCache.On("Get", mock.Anything, "folder:eval:f1:u1:1:20").
		Return(mockResp)

	repo := New(mockCache, time.Minute)

	pageJSON, err := repo.Get(context.Background(), "f1", "u1", 1, 20)
	assert.NoError(t, err)
	assert.Equal(t, `{"items":[]}`, pageJSON)
}

func TestGet_Miss(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{val: "", err: nil}

	mockCache.On("Get", mock.Anything, "folder:eval:f1:u1:1:20").
		Return(mockResp)

	repo := New(mockCache, time.Minute)

	pageJSON, err := repo.Get(context.Background(), "f1", "u1", 1, 20)
	assert.ErrorIs(t, err, models.ErrNoRows)
	assert.Empty(t, pageJSON)
}

func TestGet_Error(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{val: "", err: errors.New("connection error")}

	mockCache.On("Get", mock.Anything, "folder:eval:f1:u1:1:20").
		Return(mockResp)

	repo := New(mockCache, time.Minute)

	_, err := repo.Get(context.Background(), "f1", "u1", 1, 20)
	assert.Error(t, err)
}

func TestSet_Success(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[string]{err: nil}

	mockCache.On("Set", mock.Anything, "folder:eval:f1:u1:2:10", `{"items":[]}`, time.Minute).
		Return(mockResp)

	repo := New(mockCache, time.Minute)

	err := repo.Set(context.Background(), "f1", "u1", 2, 10, `{"items":[]}`)
	assert.NoError(t, err)
}

func TestInvalidateFolder_DropsAllPages(t *testing.T) {
	t.Parallel()

	mockCache := new(mockCache)
	mockResp := &mockResponse[int64]{val: 3, err: nil}

	mockCache.On("DelByPattern", mock.Anything, "folder:eval:f1:*").
		Return(mockResp)

	repo := New(mockCache, time.Minute)

	err := repo.InvalidateFolder(context.Background(), "f1")
	assert.NoError(t, err)
	mockCache.AssertCalled(t, "DelByPattern", mock.Anything, "folder:eval:f1:*")
}
