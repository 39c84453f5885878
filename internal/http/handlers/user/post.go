package user

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	utils "docvault/internal/utils/http_errors"
)

type registerRequest struct {
	Token      string `json:"token"`
	Login      string `json:"login"`
	Password   string `json:"pswd"`
	Department string `json:"department"`
	IsAdmin    bool   `json:"is_admin"`
}

func Add(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, auth AuthService) {
	op := pkg + "Add"

	log = log.With(slog.String("op", op))

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	login, err := auth.Register(ctx, req.Login, req.Password, req.Department, req.IsAdmin, req.Token)
	if err != nil {
		log.Warn("registration failed", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"login": login}); err != nil {
		log.Error("failed to write response", slog.String("error", err.Error()))
	}
}
