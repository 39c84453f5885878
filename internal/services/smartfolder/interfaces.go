package smartfolderservice

import (
	"context"

	"docvault/internal/models"
)

type FolderRepository interface {
	Create(ctx context.Context, folder *models.SmartFolder) error
	FolderByID(ctx context.Context, id string) (*models.SmartFolder, error)
	ListVisible(ctx context.Context, userID string, department string, isAdmin bool) ([]*models.SmartFolder, error)
	Update(ctx context.Context, id string, name string, definition string, isActive bool) error
	SetScope(ctx context.Context, id string, scope models.FolderScope) error
	Deactivate(ctx context.Context, id string) error
}

type Searcher interface {
	Search(ctx context.Context, user *models.User, query models.SearchQuery) (*models.SearchPage, error)
}

type EvalCache interface {
	Get(ctx context.Context, folderID, userID string, page, pageSize int) (string, error)
	Set(ctx context.Context, folderID, userID string, page, pageSize int, pageJSON string) error
	InvalidateFolder(ctx context.Context, folderID string) error
}
