package services

import (
	"context"
	"testing"
	"time"

	"essaydesk/internal/entities"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCatalogRepo struct {
	snapshot  *entities.CatalogSnapshot
	loadCount int
}

func (r *fakeCatalogRepo) LoadSnapshot(ctx context.Context) (*entities.CatalogSnapshot, error) {
	r.loadCount++
	return r.snapshot, nil
}

type memoryCacheRepo struct {
	values map[string]string
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: make(map[string]string)}
}

func (c *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	c.values[key] = value.(string)
	return nil
}

func (c *memoryCacheRepo) Get(ctx context.Context, key string) (string, error) {
	v, ok := c.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (c *memoryCacheRepo) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func TestGetSnapshotUsesCache(t *testing.T) {
	repo := &fakeCatalogRepo{snapshot: testCatalog()}
	cache := newMemoryCacheRepo()
	svc := NewCatalogService(repo, cache, time.Minute, zap.NewNop())

	first, err := svc.GetSnapshot(context.Background())
	require.NoError(t, err)
	second, err := svc.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.loadCount)
	assert.Equal(t, first.BasePricePerPage.String(), second.BasePricePerPage.String())
	assert.Len(t, second.Levels, len(first.Levels))
}

func TestGetSnapshotSurvivesCorruptCache(t *testing.T) {
	repo := &fakeCatalogRepo{snapshot: testCatalog()}
	cache := newMemoryCacheRepo()
	cache.values[catalogSnapshotCacheKey] = "{не json"
	svc := NewCatalogService(repo, cache, time.Minute, zap.NewNop())

	snapshot, err := svc.GetSnapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.loadCount)
	assert.Equal(t, "10.00", snapshot.BasePricePerPage.StringFixed(2))
}

func TestInvalidateCacheForcesReload(t *testing.T) {
	repo := &fakeCatalogRepo{snapshot: testCatalog()}
	cache := newMemoryCacheRepo()
	svc := NewCatalogService(repo, cache, time.Minute, zap.NewNop())

	_, err := svc.GetSnapshot(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.InvalidateCache(context.Background()))
	_, err = svc.GetSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.loadCount)
}

// Витрина каталога отдаёт только активные позиции.
func TestGetCatalogFiltersInactive(t *testing.T) {
	repo := &fakeCatalogRepo{snapshot: testCatalog()}
	svc := NewCatalogService(repo, newMemoryCacheRepo(), time.Minute, zap.NewNop())

	catalog, err := svc.GetCatalog(context.Background())
	require.NoError(t, err)

	assert.Len(t, catalog.Levels, 2)
	assert.Len(t, catalog.Deadlines, 1)
	assert.Len(t, catalog.Addons, 2)
	assert.Len(t, catalog.Spacings, 2)
	for _, level := range catalog.Levels {
		assert.NotEqual(t, uint64(3), level.ID)
	}
}
