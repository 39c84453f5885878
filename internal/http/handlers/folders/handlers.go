package folders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/http/middleware"
	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
	parseutil "docvault/internal/utils/parseLimit"
)

func Create(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, manager FolderManager) {
	op := pkg + "Create"

	log = log.With(slog.String("op", op))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var req dto.CreateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	folder, err := manager.CreateFolder(ctx, requester, req.Name, string(req.Definition), models.FolderScope(req.Scope))
	if err != nil {
		log.Warn("failed to create folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, dto.NewFolderResponse(folder))
}

func Get(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, folderID string, manager FolderManager) {
	op := pkg + "Get"

	log = log.With(slog.String("op", op), slog.String("folder_id", folderID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	folder, err := manager.FolderByID(ctx, requester, folderID)
	if err != nil {
		log.Warn("failed to get folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dto.NewFolderResponse(folder))
}

func List(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, manager FolderManager) {
	op := pkg + "List"

	log = log.With(slog.String("op", op))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	folderList, err := manager.ListFolders(ctx, requester)
	if err != nil {
		log.Error("failed to list folders", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	response := make([]dto.FolderResponse, 0, len(folderList))
	for _, folder := range folderList {
		response = append(response, dto.NewFolderResponse(folder))
	}

	writeJSON(log, w, http.StatusOK, response)
}

func Update(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, folderID string, manager FolderManager) {
	op := pkg + "Update"

	log = log.With(slog.String("op", op), slog.String("folder_id", folderID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var req dto.UpdateFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	var definition *string
	if req.Definition != nil {
		raw := string(*req.Definition)
		definition = &raw
	}

	folder, err := manager.UpdateFolder(ctx, requester, folderID, req.Name, definition, req.IsActive)
	if err != nil {
		log.Warn("failed to update folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dto.NewFolderResponse(folder))
}

func Share(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, folderID string, manager FolderManager) {
	op := pkg + "Share"

	log = log.With(slog.String("op", op), slog.String("folder_id", folderID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var req dto.ShareFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to decode request", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid json body")
		return
	}

	folder, err := manager.ShareFolder(ctx, requester, folderID, models.FolderScope(req.Scope))
	if err != nil {
		log.Warn("failed to share folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dto.NewFolderResponse(folder))
}

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, folderID string, manager FolderManager) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op), slog.String("folder_id", folderID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	if err := manager.DeleteFolder(ctx, requester, folderID); err != nil {
		log.Warn("failed to delete folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func Evaluate(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, folderID string, manager FolderManager) {
	op := pkg + "Evaluate"

	log = log.With(slog.String("op", op), slog.String("folder_id", folderID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	page := parseutil.ParsePage(r.URL.Query().Get("page"))
	pageSize := parseutil.ParseLimit(r.URL.Query().Get("page_size"))

	result, err := manager.Evaluate(ctx, requester, folderID, page, pageSize)
	if err != nil {
		log.Warn("failed to evaluate folder", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, dto.NewSearchResponse(result))
}

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
