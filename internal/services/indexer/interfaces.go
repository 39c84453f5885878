package indexerservice

import (
	"context"

	"docvault/internal/models"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	ActiveDocuments(ctx context.Context) ([]*models.Document, error)
}

type MetadataRepository interface {
	ByDocument(ctx context.Context, docID string) ([]*models.MetadataEntry, error)
}

type IndexRepository interface {
	Upsert(ctx context.Context, rec *models.IndexRecord) error
	Delete(ctx context.Context, docID string) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}
