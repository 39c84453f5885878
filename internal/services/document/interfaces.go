package documentservice

import (
	"context"
	"io"

	"docvault/internal/models"
)

type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *models.Document) error
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ActiveByHash(ctx context.Context, hash string) (*models.Document, error)
	UpdateContent(ctx context.Context, id string, hash string, path string, size int64, mime string) error
	SetLifecycle(ctx context.Context, id string, active, archived, deleted bool) error
	AppendVersion(ctx context.Context, version *models.DocumentVersion) error
	VersionsByDocument(ctx context.Context, docID string) ([]*models.DocumentVersion, error)
}

type MetadataRepository interface {
	Upsert(ctx context.Context, entry *models.MetadataEntry) error
}

type RelationshipRepository interface {
	Create(ctx context.Context, rel *models.DocumentRelationship) error
	ByDocument(ctx context.Context, docID string) ([]*models.DocumentRelationship, error)
}

type FileStorage interface {
	Save(digest string, r io.Reader) (path string, err error)
	Open(path string) (io.ReadCloser, error)
}

type RequiredValidator interface {
	ValidateRequired(ctx context.Context, documentType string, values map[string]string) error
}

type Enqueuer interface {
	Enqueue(docID string)
}

type Projector interface {
	Project(ctx context.Context, docID string) error
	Remove(ctx context.Context, docID string) error
}

// AuditSink is a fire-and-forget event sink; failures are never surfaced to
// the caller.
type AuditSink interface {
	Record(ctx context.Context, action string, docID string, userID string)
}
