package docs

import (
	"context"
	"io"

	"docvault/internal/models"
	documentservice "docvault/internal/services/document"
)

const pkg = "docsHandler/"

type DocumentUploader interface {
	Upload(ctx context.Context, requester *models.User, req *documentservice.UploadRequest) (*models.Document, error)
	ResolveDuplicate(ctx context.Context, requester *models.User, existingID string, action string, req *documentservice.UploadRequest) (*models.Document, error)
}

type DocumentProvider interface {
	DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error)
}

type DocumentLifecycle interface {
	DeleteDocument(ctx context.Context, docID string, requester *models.User) error
	ArchiveDocument(ctx context.Context, docID string, requester *models.User) error
	RestoreDocument(ctx context.Context, docID string, requester *models.User) error
}

type VersionProvider interface {
	Versions(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentVersion, error)
}

type RelationshipManager interface {
	CreateRelationship(ctx context.Context, requester *models.User, sourceID, targetID, relationType string) (*models.DocumentRelationship, error)
	Relationships(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentRelationship, error)
}
