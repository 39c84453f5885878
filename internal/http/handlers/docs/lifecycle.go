package docs

import (
	"context"
	"log/slog"
	"net/http"

	utils "docvault/internal/utils/http_errors"
)

func Delete(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lifecycle DocumentLifecycle) {
	op := pkg + "Delete"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	if err := lifecycle.DeleteDocument(ctx, docID, requester); err != nil {
		log.Warn("failed to delete document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func Archive(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lifecycle DocumentLifecycle) {
	op := pkg + "Archive"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	if err := lifecycle.ArchiveDocument(ctx, docID, requester); err != nil {
		log.Warn("failed to archive document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]string{"status": "archived"})
}

func Restore(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, lifecycle DocumentLifecycle) {
	op := pkg + "Restore"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	if err := lifecycle.RestoreDocument(ctx, docID, requester); err != nil {
		log.Warn("failed to restore document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}

	writeJSON(log, w, http.StatusOK, map[string]string{"status": "restored"})
}
