package models

import "time"

// Metadata sources in ascending automation order. Manual entries are never
// overwritten by automated extraction.
const (
	SourceManual    = "manual"
	SourceOCR       = "ocr"
	SourceStructure = "structure"
)

type MetadataEntry struct {
	DocumentID string    `json:"document_id"`
	Key        string    `json:"key"`
	Value      string    `json:"value"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FieldMapping is one runtime-editable extraction rule for a document type.
// The extractor interprets these rows; nothing is compiled in.
type FieldMapping struct {
	ID             string `json:"id"`
	DocumentType   string `json:"document_type"`
	Key            string `json:"field_key"`
	Label          string `json:"field_label"`
	Type           string `json:"field_type"` // text, number, date, select
	Required       bool   `json:"is_required"`
	OCRMappable    bool   `json:"is_ocr_mappable"`
	Pattern        string `json:"ocr_pattern"`
	DefaultValue   string `json:"default_value"`
	ValidationRule string `json:"validation_rule"`
	DisplayOrder   int    `json:"display_order"`
	IsActive       bool   `json:"is_active"`
}
