package dto

import (
	"docvault/internal/models"
	"time"
)

type SearchResultItem struct {
	DocumentID    string            `json:"id"`
	FileName      string            `json:"name"`
	DocumentType  string            `json:"document_type"`
	Department    string            `json:"department"`
	OwnerLogin    string            `json:"owner"`
	Description   string            `json:"description"`
	Tags          []string          `json:"tags"`
	OCRConfidence float64           `json:"ocr_confidence"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     time.Time         `json:"created"`
}

type SearchResponse struct {
	Items    []SearchResultItem `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func NewSearchResponse(page *models.SearchPage) SearchResponse {
	items := make([]SearchResultItem, 0, len(page.Items))
	for _, rec := range page.Items {
		items = append(items, SearchResultItem{
			DocumentID:    rec.DocumentID,
			FileName:      rec.FileName,
			DocumentType:  rec.DocumentType,
			Department:    rec.Department,
			OwnerLogin:    rec.OwnerLogin,
			Description:   rec.Description,
			Tags:          rec.Tags,
			OCRConfidence: rec.OCRConfidence,
			Metadata:      rec.Metadata,
			CreatedAt:     rec.CreatedAt,
		})
	}

	return SearchResponse{
		Items:    items,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}

type ReindexResponse struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}
