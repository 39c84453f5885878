package utils

import (
	"docvault/internal/models"
	"encoding/json"
	"errors"
	"net/http"
)

// Machine-distinguishable outcome kinds. Clients branch on kind, never on
// message text.
const (
	KindValidation = "validation"
	KindDuplicate  = "duplicate"
	KindPermission = "permission"
	KindTransient  = "transient"
	KindNotFound   = "not_found"
	KindInternal   = "internal"
)

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func WriteJSONError(w http.ResponseWriter, status int, kind string, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": errorBody{Kind: kind, Message: msg},
	})
}

// FromError maps a service error to its HTTP status and outcome kind.
func FromError(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusForbidden, KindPermission
	case errors.Is(err, models.ErrDuplicateContent):
		return http.StatusConflict, KindDuplicate
	case errors.Is(err, models.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, KindValidation
	case errors.Is(err, models.ErrInvalidParams), errors.Is(err, models.ErrBadDefinition):
		return http.StatusBadRequest, KindValidation
	case errors.Is(err, models.ErrDocumentNotFound),
		errors.Is(err, models.ErrFolderNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, KindNotFound
	case errors.Is(err, models.ErrRelationExists), errors.Is(err, models.ErrUserExists):
		return http.StatusConflict, KindValidation
	case errors.Is(err, models.ErrTransient), errors.Is(err, models.ErrReindexRunning):
		return http.StatusServiceUnavailable, KindTransient
	default:
		return http.StatusInternalServerError, KindInternal
	}
}

// WriteError is the common path: map, then write.
func WriteError(w http.ResponseWriter, err error) {
	status, kind := FromError(err)
	WriteJSONError(w, status, kind, err.Error())
}
