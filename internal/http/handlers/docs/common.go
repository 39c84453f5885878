package docs

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

func requesterFrom(ctx context.Context, w http.ResponseWriter) *models.User {
	requester := middleware.RequesterFromContext(ctx)
	if requester == nil {
		utils.WriteJSONError(w, http.StatusForbidden, utils.KindPermission, models.ErrForbidden.Error())
	}
	return requester
}

func writeJSON(log *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
