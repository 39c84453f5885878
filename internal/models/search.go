package models

import "time"

// SearchQuery is the structured filter shape shared by ad-hoc search and
// smart-folder evaluation. An unset field imposes no constraint; set fields
// are conjunctive.
type SearchQuery struct {
	Text          string
	Types         []string
	Departments   []string
	Uploaders     []string
	Tags          []string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
	MinConfidence *float64
	Active        *bool
	Page          int
	PageSize      int
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Normalize clamps pagination to sane bounds.
func (q *SearchQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
}

// IndexRecord is the denormalized projection of a document used only for
// querying; the documents table stays authoritative.
type IndexRecord struct {
	DocumentID    string            `json:"document_id"`
	FileName      string            `json:"file_name"`
	DocumentType  string            `json:"document_type"`
	Department    string            `json:"department"`
	OwnerID       string            `json:"owner_id"`
	OwnerLogin    string            `json:"owner_login"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	ExtractedText string            `json:"-"`
	OCRConfidence float64           `json:"ocr_confidence"`
	Metadata      map[string]string `json:"metadata"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	IndexedAt     time.Time         `json:"indexed_at"`
}

type SearchPage struct {
	Items    []*IndexRecord `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

type IndexStats struct {
	ByType       map[string]int64 `json:"by_type"`
	ByDepartment map[string]int64 `json:"by_department"`
	Active       int64            `json:"active"`
	Total        int64            `json:"total"`
}
