package entities

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Document struct {
	ID             string          `db:"id"`
	ContentHash    string          `db:"content_hash"`
	StoragePath    string          `db:"storage_path"`
	FileSize       int64           `db:"file_size"`
	Mime           string          `db:"mime_type"`
	DocumentType   string          `db:"document_type"`
	Department     string          `db:"department"`
	OwnerID        string          `db:"owner_id"`
	OwnerLogin     string          `db:"owner_login"`
	FileName       string          `db:"file_name"`
	Description    string          `db:"description"`
	Tags           pq.StringArray  `db:"tags"`
	ExtractedText  sql.NullString  `db:"extracted_text"`
	OCRConfidence  sql.NullFloat64 `db:"ocr_confidence"`
	PipelineStatus string          `db:"pipeline_status"`
	IsCanonical    bool            `db:"is_canonical"`
	IsActive       bool            `db:"is_active"`
	IsArchived     bool            `db:"is_archived"`
	IsDeleted      bool            `db:"is_deleted"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

type DocumentVersion struct {
	ID          string    `db:"id"`
	DocumentID  string    `db:"document_id"`
	VersionNo   int       `db:"version_no"`
	ContentHash string    `db:"content_hash"`
	StoragePath string    `db:"storage_path"`
	FileSize    int64     `db:"file_size"`
	IsCurrent   bool      `db:"is_current"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}

type MetadataEntry struct {
	DocumentID string    `db:"document_id"`
	FieldKey   string    `db:"field_key"`
	FieldValue string    `db:"field_value"`
	Source     string    `db:"source"`
	Confidence float64   `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type FieldMapping struct {
	ID             string         `db:"id"`
	DocumentType   string         `db:"document_type"`
	FieldKey       string         `db:"field_key"`
	FieldLabel     string         `db:"field_label"`
	FieldType      string         `db:"field_type"`
	IsRequired     bool           `db:"is_required"`
	IsOCRMappable  bool           `db:"is_ocr_mappable"`
	OCRPattern     sql.NullString `db:"ocr_pattern"`
	DefaultValue   sql.NullString `db:"default_value"`
	ValidationRule sql.NullString `db:"validation_rule"`
	DisplayOrder   int            `db:"display_order"`
	IsActive       bool           `db:"is_active"`
}

type DocumentRelationship struct {
	ID           string    `db:"id"`
	SourceID     string    `db:"source_id"`
	TargetID     string    `db:"target_id"`
	RelationType string    `db:"relation_type"`
	CreatedBy    string    `db:"created_by"`
	CreatedAt    time.Time `db:"created_at"`
}
