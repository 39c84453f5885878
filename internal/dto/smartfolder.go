package dto

import (
	"docvault/internal/models"
	"encoding/json"
	"time"
)

type CreateFolderRequest struct {
	Name       string          `json:"name"`
	Definition json.RawMessage `json:"definition"`
	Scope      string          `json:"scope"`
}

type UpdateFolderRequest struct {
	Name       *string          `json:"name"`
	Definition *json.RawMessage `json:"definition"`
	IsActive   *bool            `json:"is_active"`
}

type ShareFolderRequest struct {
	Scope string `json:"scope"`
}

type FolderResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	OwnerLogin string          `json:"owner"`
	Definition json.RawMessage `json:"definition"`
	Scope      string          `json:"scope"`
	IsActive   bool            `json:"is_active"`
	CreatedAt  time.Time       `json:"created"`
	UpdatedAt  time.Time       `json:"updated"`
}

func NewFolderResponse(f *models.SmartFolder) FolderResponse {
	return FolderResponse{
		ID:         f.ID,
		Name:       f.Name,
		OwnerLogin: f.OwnerLogin,
		Definition: json.RawMessage(f.Definition),
		Scope:      string(f.Scope),
		IsActive:   f.IsActive,
		CreatedAt:  f.CreatedAt,
		UpdatedAt:  f.UpdatedAt,
	}
}
