package models

import "time"

type FolderScope string

const (
	ScopePrivate    FolderScope = "PRIVATE"
	ScopeDepartment FolderScope = "DEPARTMENT"
	ScopeShared     FolderScope = "SHARED"
)

func (s FolderScope) Valid() bool {
	switch s {
	case ScopePrivate, ScopeDepartment, ScopeShared:
		return true
	}
	return false
}

// SmartFolder is a saved query: a JSON filter definition plus a visibility
// scope governing who may evaluate it.
type SmartFolder struct {
	ID         string      `json:"id"`
	OwnerID    string      `json:"owner_id"`
	OwnerLogin string      `json:"owner_login"`
	OwnerDept  string      `json:"owner_department"`
	Name       string      `json:"name"`
	Definition string      `json:"definition"`
	Scope      FolderScope `json:"scope"`
	IsActive   bool        `json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
