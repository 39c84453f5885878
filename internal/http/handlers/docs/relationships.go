package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	utils "docvault/internal/utils/http_errors"
)

func CreateRelationship(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, manager RelationshipManager) {
	op := pkg + "CreateRelationship"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var req dto.RelationshipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	rel, err := manager.CreateRelationship(ctx, requester, docID, req.TargetID, req.RelationType)
	if err != nil {
		log.Warn("failed to create relationship", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, rel)
}

func Relationships(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, manager RelationshipManager) {
	op := pkg + "Relationships"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	rels, err := manager.Relationships(ctx, docID, requester)
	if err != nil {
		log.Warn("failed to list relationships", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, rels)
}
