package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	utils "docvault/internal/utils/http_errors"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, auth AuthService) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	token, err := auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		log.Warn("login failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"token": token}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
