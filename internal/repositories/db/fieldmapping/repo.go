package fieldmappingrepo

import (
	"context"
	"fmt"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "fieldMappingRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// ActiveByType loads the extraction rules for a document type in display
// order. The rules are data, edited at runtime; the extractor interprets
// them on every call.
func (r *repository) ActiveByType(ctx context.Context, documentType string) ([]*models.FieldMapping, error) {
	op := pkg + "ActiveByType"

	rawMappings := make([]entities.FieldMapping, 0)

	err := r.db.SelectContext(ctx, &rawMappings,
		`SELECT
			f.id AS id,
			f.document_type AS document_type,
			f.field_key AS field_key,
			f.field_label AS field_label,
			f.field_type AS field_type,
			f.is_required AS is_required,
			f.is_ocr_mappable AS is_ocr_mappable,
			f.ocr_pattern AS ocr_pattern,
			f.default_value AS default_value,
			f.validation_rule AS validation_rule,
			f.display_order AS display_order,
			f.is_active AS is_active
		FROM document_type_fields f
		WHERE f.document_type = $1 AND f.is_active = TRUE
		ORDER BY f.display_order ASC`,
		documentType)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	mappings := make([]*models.FieldMapping, 0, len(rawMappings))
	for _, raw := range rawMappings {
		mappings = append(mappings, &models.FieldMapping{
			ID:             raw.ID,
			DocumentType:   raw.DocumentType,
			Key:            raw.FieldKey,
			Label:          raw.FieldLabel,
			Type:           raw.FieldType,
			Required:       raw.IsRequired,
			OCRMappable:    raw.IsOCRMappable,
			Pattern:        raw.OCRPattern.String,
			DefaultValue:   raw.DefaultValue.String,
			ValidationRule: raw.ValidationRule.String,
			DisplayOrder:   raw.DisplayOrder,
			IsActive:       raw.IsActive,
		})
	}

	return mappings, nil
}
