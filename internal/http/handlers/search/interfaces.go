package search

import (
	"context"

	"docvault/internal/models"
)

const pkg = "searchHandler/"

type Searcher interface {
	Search(ctx context.Context, user *models.User, query models.SearchQuery) (*models.SearchPage, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	Stats(ctx context.Context) (*models.IndexStats, error)
}
