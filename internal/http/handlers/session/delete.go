package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, token string, auth AuthService) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op))

	// Logging out a session that is already gone is still a logout.
	if err := auth.Logout(ctx, token); err != nil && !errors.Is(err, models.ErrSessionNotFound) {
		log.Warn("logout failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]bool{"logout": true}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
