package dto

import (
	"docvault/internal/models"
	"time"
)

type UploadMeta struct {
	FileName     string            `json:"name"`
	Mime         string            `json:"mime"`
	DocumentType string            `json:"document_type"`
	Description  string            `json:"description"`
	Tags         []string          `json:"tags"`
	Metadata     map[string]string `json:"metadata"`
}

type DocumentResponse struct {
	ID             string    `json:"id"`
	FileName       string    `json:"name"`
	Mime           string    `json:"mime"`
	DocumentType   string    `json:"document_type"`
	Department     string    `json:"department"`
	OwnerLogin     string    `json:"owner"`
	Description    string    `json:"description"`
	Tags           []string  `json:"tags"`
	FileSize       int64     `json:"size"`
	PipelineStatus string    `json:"pipeline_status"`
	Searchable     bool      `json:"searchable"`
	IsArchived     bool      `json:"archived"`
	CreatedAt      time.Time `json:"created"`
}

func NewDocumentResponse(doc *models.Document) DocumentResponse {
	return DocumentResponse{
		ID:             doc.ID,
		FileName:       doc.FileName,
		Mime:           doc.Mime,
		DocumentType:   doc.DocumentType,
		Department:     doc.Department,
		OwnerLogin:     doc.OwnerLogin,
		Description:    doc.Description,
		Tags:           doc.Tags,
		FileSize:       doc.FileSize,
		PipelineStatus: doc.PipelineStatus,
		Searchable:     doc.Searchable(),
		IsArchived:     doc.IsArchived,
		CreatedAt:      doc.CreatedAt,
	}
}

type DuplicateResponse struct {
	Kind     string               `json:"kind"`
	Message  string               `json:"message"`
	Existing models.DuplicateInfo `json:"existing"`
}

type ResolveDuplicateMeta struct {
	ExistingID string `json:"existing_id"`
	Action     string `json:"action"`
	UploadMeta
}

type VersionResponse struct {
	ID          string    `json:"id"`
	VersionNo   int       `json:"version_no"`
	ContentHash string    `json:"content_hash"`
	FileSize    int64     `json:"size"`
	IsCurrent   bool      `json:"current"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created"`
}

type RelationshipRequest struct {
	TargetID     string `json:"target_id"`
	RelationType string `json:"relation_type"`
}
