package folders

import (
	"context"

	"docvault/internal/models"
)

const pkg = "foldersHandler/"

type FolderManager interface {
	CreateFolder(ctx context.Context, user *models.User, name string, definition string, scope models.FolderScope) (*models.SmartFolder, error)
	FolderByID(ctx context.Context, user *models.User, folderID string) (*models.SmartFolder, error)
	ListFolders(ctx context.Context, user *models.User) ([]*models.SmartFolder, error)
	UpdateFolder(ctx context.Context, user *models.User, folderID string, name *string, definition *string, isActive *bool) (*models.SmartFolder, error)
	ShareFolder(ctx context.Context, user *models.User, folderID string, scope models.FolderScope) (*models.SmartFolder, error)
	DeleteFolder(ctx context.Context, user *models.User, folderID string) error
	Evaluate(ctx context.Context, user *models.User, folderID string, page, pageSize int) (*models.SearchPage, error)
}
