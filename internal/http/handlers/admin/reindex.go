package admin

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	utils "docvault/internal/utils/http_errors"
)

// Reindex drops and rebuilds the search projection. Admin-only; a rebuild
// already in flight yields a transient conflict rather than a second run.
func Reindex(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, reindexer Reindexer) {
	op := pkg + "Reindex"

	log = log.With(slog.String("op", op))

	count, err := reindexer.RebuildAll(ctx)
	if err != nil {
		log.Warn("reindex failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(dto.ReindexResponse{Status: "completed", Count: count}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
