package server

import (
	"context"
	"io"

	"docvault/internal/models"
	documentservice "docvault/internal/services/document"
)

type AuthService interface {
	Register(ctx context.Context, login, password, department string, isAdmin bool, token string) (string, error)
	Login(ctx context.Context, login string, password string) (string, error)
	UserByToken(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
}

type DocumentService interface {
	Upload(ctx context.Context, requester *models.User, req *documentservice.UploadRequest) (*models.Document, error)
	ResolveDuplicate(ctx context.Context, requester *models.User, existingID string, action string, req *documentservice.UploadRequest) (*models.Document, error)
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
	ArchiveDocument(ctx context.Context, docID string, requester *models.User) error
	RestoreDocument(ctx context.Context, docID string, requester *models.User) error
	Versions(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentVersion, error)
	CreateRelationship(ctx context.Context, requester *models.User, sourceID, targetID, relationType string) (*models.DocumentRelationship, error)
	Relationships(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentRelationship, error)
}

type SearchService interface {
	Search(ctx context.Context, user *models.User, query models.SearchQuery) (*models.SearchPage, error)
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
	Stats(ctx context.Context) (*models.IndexStats, error)
}

type FolderService interface {
	CreateFolder(ctx context.Context, user *models.User, name string, definition string, scope models.FolderScope) (*models.SmartFolder, error)
	FolderByID(ctx context.Context, user *models.User, folderID string) (*models.SmartFolder, error)
	ListFolders(ctx context.Context, user *models.User) ([]*models.SmartFolder, error)
	UpdateFolder(ctx context.Context, user *models.User, folderID string, name *string, definition *string, isActive *bool) (*models.SmartFolder, error)
	ShareFolder(ctx context.Context, user *models.User, folderID string, scope models.FolderScope) (*models.SmartFolder, error)
	DeleteFolder(ctx context.Context, user *models.User, folderID string) error
	Evaluate(ctx context.Context, user *models.User, folderID string, page, pageSize int) (*models.SearchPage, error)
}

type Reindexer interface {
	RebuildAll(ctx context.Context) (int64, error)
}
