package cachefolderevalrepo

import (
	"context"
	"fmt"
	"time"

	"docvault/internal/models"
	cacherepo "docvault/internal/repositories/cache"
)

// repository caches smart-folder evaluation pages per (folder, user, page).
// Invalidation is per folder: every mutation of a folder drops all of its
// cached pages for all users before the mutation returns.
type repository struct {
	cache   cacherepo.Cache
	evalTTL time.Duration
}

func New(cache cacherepo.Cache, evalTTL time.Duration) *repository {
	return &repository{
		cache:   cache,
		evalTTL: evalTTL,
	}
}

func key(folderID, userID string, page, pageSize int) string {
	return fmt.Sprintf("folder:eval:%s:%s:%d:%d", folderID, userID, page, pageSize)
}

func (r *repository) Get(ctx context.Context, folderID, userID string, page, pageSize int) (string, error) {
	pageJSON, err := r.cache.Get(ctx, key(folderID, userID, page, pageSize)).Result()
	if err != nil {
		return "", err
	}

	if pageJSON == "" {
		return "", models.ErrNoRows
	}

	return pageJSON, nil
}

func (r *repository) Set(ctx context.Context, folderID, userID string, page, pageSize int, pageJSON string) error {
	return r.cache.Set(ctx, key(folderID, userID, page, pageSize), pageJSON, r.evalTTL).Err()
}

func (r *repository) InvalidateFolder(ctx context.Context, folderID string) error {
	return r.cache.DelByPattern(ctx, fmt.Sprintf("folder:eval:%s:*", folderID)).Err()
}
