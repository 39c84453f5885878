package docs

import (
	"context"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	utils "docvault/internal/utils/http_errors"
)

func Versions(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, provider VersionProvider) {
	op := pkg + "Versions"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	versions, err := provider.Versions(ctx, docID, requester)
	if err != nil {
		log.Warn("failed to list versions", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	response := make([]dto.VersionResponse, 0, len(versions))
	for _, v := range versions {
		response = append(response, dto.VersionResponse{
			ID:          v.ID,
			VersionNo:   v.VersionNo,
			ContentHash: v.ContentHash,
			FileSize:    v.FileSize,
			IsCurrent:   v.IsCurrent,
			CreatedBy:   v.CreatedBy,
			CreatedAt:   v.CreatedAt,
		})
	}

	writeJSON(log, w, http.StatusOK, response)
}
