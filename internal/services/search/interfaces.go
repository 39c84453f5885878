package searchservice

import (
	"context"

	"docvault/internal/models"
)

type IndexRepository interface {
	Search(ctx context.Context, query models.SearchQuery, scopeDept string) ([]*models.IndexRecord, int64, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	Stats(ctx context.Context) (*models.IndexStats, error)
	Count(ctx context.Context) (int64, error)
}

type DocumentRepository interface {
	CountActive(ctx context.Context) (int64, error)
}
