package extractionservice

import (
	"context"

	"docvault/internal/models"
)

type FieldMappingProvider interface {
	ActiveByType(ctx context.Context, documentType string) ([]*models.FieldMapping, error)
}

type MetadataRepository interface {
	Upsert(ctx context.Context, entry *models.MetadataEntry) error
	ByDocument(ctx context.Context, docID string) ([]*models.MetadataEntry, error)
}
