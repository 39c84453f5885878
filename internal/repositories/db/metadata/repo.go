package metadatarepo

import (
	"context"
	"fmt"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "metadataRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Upsert writes a metadata entry keyed by (document, field). A manual entry
// is never overwritten by an automated source; a manual write always wins.
func (r *repository) Upsert(ctx context.Context, entry *models.MetadataEntry) error {
	op := pkg + "Upsert"

	now := time.Now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_metadata (document_id, field_key, field_value, source, confidence, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (document_id, field_key) DO UPDATE
		SET field_value = EXCLUDED.field_value,
			source = EXCLUDED.source,
			confidence = EXCLUDED.confidence,
			updated_at = EXCLUDED.updated_at
		WHERE document_metadata.source <> 'manual' OR EXCLUDED.source = 'manual'`,
		entry.DocumentID, entry.Key, entry.Value, entry.Source, entry.Confidence, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) ByDocument(ctx context.Context, docID string) ([]*models.MetadataEntry, error) {
	op := pkg + "ByDocument"

	rawEntries := make([]entities.MetadataEntry, 0)

	err := r.db.SelectContext(ctx, &rawEntries,
		`SELECT
			m.document_id AS document_id,
			m.field_key AS field_key,
			m.field_value AS field_value,
			m.source AS source,
			m.confidence AS confidence,
			m.created_at AS created_at,
			m.updated_at AS updated_at
		FROM document_metadata m
		WHERE m.document_id = $1
		ORDER BY m.field_key ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]*models.MetadataEntry, 0, len(rawEntries))
	for _, raw := range rawEntries {
		entries = append(entries, &models.MetadataEntry{
			DocumentID: raw.DocumentID,
			Key:        raw.FieldKey,
			Value:      raw.FieldValue,
			Source:     raw.Source,
			Confidence: raw.Confidence,
			CreatedAt:  raw.CreatedAt,
			UpdatedAt:  raw.UpdatedAt,
		})
	}

	return entries, nil
}
