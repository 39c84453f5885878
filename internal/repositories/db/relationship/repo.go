package relationshiprepo

import (
	"context"
	"errors"
	"fmt"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "relationshipRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rel *models.DocumentRelationship) error {
	op := pkg + "Create"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO document_relationships (id, source_id, target_id, relation_type, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rel.ID, rel.SourceID, rel.TargetID, rel.RelationType, rel.CreatedBy, rel.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, models.ErrRelationExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ByDocument returns edges in both directions for a document.
func (r *repository) ByDocument(ctx context.Context, docID string) ([]*models.DocumentRelationship, error) {
	op := pkg + "ByDocument"

	rawRels := make([]entities.DocumentRelationship, 0)

	err := r.db.SelectContext(ctx, &rawRels,
		`SELECT
			rel.id AS id,
			rel.source_id AS source_id,
			rel.target_id AS target_id,
			rel.relation_type AS relation_type,
			rel.created_by AS created_by,
			rel.created_at AS created_at
		FROM document_relationships rel
		WHERE rel.source_id = $1 OR rel.target_id = $1
		ORDER BY rel.created_at ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rels := make([]*models.DocumentRelationship, 0, len(rawRels))
	for _, raw := range rawRels {
		rels = append(rels, &models.DocumentRelationship{
			ID:           raw.ID,
			SourceID:     raw.SourceID,
			TargetID:     raw.TargetID,
			RelationType: raw.RelationType,
			CreatedBy:    raw.CreatedBy,
			CreatedAt:    raw.CreatedAt,
		})
	}

	return rels, nil
}
