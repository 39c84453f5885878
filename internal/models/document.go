package models

import "time"

// Pipeline statuses, in the order the enrichment stages run.
const (
	StatusUploaded          = "uploaded"
	StatusTextExtracted     = "text_extracted"
	StatusTextSkipped       = "text_skipped"
	StatusMetadataExtracted = "metadata_extracted"
	StatusMetadataSkipped   = "metadata_skipped"
	StatusIndexed           = "indexed"
	StatusIndexFailed       = "index_failed"
)

// Duplicate resolution actions accepted by the follow-up upload call.
const (
	ActionVersion  = "version"
	ActionReplace  = "replace"
	ActionForceNew = "force-new"
)

type Document struct {
	ID             string    `json:"id"`
	ContentHash    string    `json:"content_hash"`
	StoragePath    string    `json:"-"`
	FileSize       int64     `json:"file_size"`
	Mime           string    `json:"mime"`
	DocumentType   string    `json:"document_type"`
	Department     string    `json:"department"`
	OwnerID        string    `json:"owner_id"`
	OwnerLogin     string    `json:"owner_login"`
	FileName       string    `json:"file_name"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	ExtractedText  string    `json:"-"`
	OCRConfidence  float64   `json:"ocr_confidence"`
	PipelineStatus string    `json:"pipeline_status"`
	IsCanonical    bool      `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsArchived     bool      `json:"is_archived"`
	IsDeleted      bool      `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Searchable reports whether the document has reached the index.
func (d *Document) Searchable() bool {
	return d.PipelineStatus == StatusIndexed
}

type DocumentVersion struct {
	ID          string    `json:"id"`
	DocumentID  string    `json:"document_id"`
	VersionNo   int       `json:"version_no"`
	ContentHash string    `json:"content_hash"`
	StoragePath string    `json:"-"`
	FileSize    int64     `json:"file_size"`
	IsCurrent   bool      `json:"is_current"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type DocumentRelationship struct {
	ID           string    `json:"id"`
	SourceID     string    `json:"source_id"`
	TargetID     string    `json:"target_id"`
	RelationType string    `json:"relation_type"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
}
