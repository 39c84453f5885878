package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrNoRows                 = errors.New("no rows")
	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
	ErrInternal               = errors.New("internal server error")
	ErrMethodNotAllowed       = errors.New("method not allowed")
	ErrForbidden              = errors.New("access denied")
	ErrInvalidParams          = errors.New("invalid params")
	ErrUserNotFound           = errors.New("user not found")
	ErrUserExists             = errors.New("user already exists")
	ErrSessionNotFound        = errors.New("sessions not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrDocumentNotFound       = errors.New("document not found")
	ErrDuplicateContent       = errors.New("duplicate content")
	ErrFolderNotFound         = errors.New("smart folder not found")
	ErrBadDefinition          = errors.New("malformed folder definition")
	ErrRelationExists         = errors.New("relationship already exists")
	ErrFileTooLarge           = errors.New("file exceeds size limit")
	ErrReindexRunning         = errors.New("reindex already in progress")
	ErrTransient              = errors.New("temporary failure, retry later")
)

type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}

// DuplicateInfo describes the active document already holding an uploaded
// content digest. The caller resolves the upload explicitly (version,
// replace, force-new) instead of a second record being created silently.
type DuplicateInfo struct {
	DocumentID   string    `json:"document_id"`
	FileName     string    `json:"file_name"`
	FileSize     int64     `json:"file_size"`
	DocumentType string    `json:"document_type"`
	OwnerLogin   string    `json:"owner_login"`
	CreatedAt    time.Time `json:"created_at"`
}

type DuplicateError struct {
	Existing DuplicateInfo
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%v: already held by document %s", ErrDuplicateContent, e.Existing.DocumentID)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateContent
}

// ValidationError carries the keys of required fields that are missing or
// blank for a document type.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: missing required fields: %s", ErrInvalidParams, strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}
