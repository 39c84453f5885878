package docs

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	utils "docvault/internal/utils/http_errors"
)

// GetByID returns the document's metadata as JSON.
func GetByID(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, provider DocumentProvider) {
	op := pkg + "GetByID"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	doc, content, err := provider.DocumentByID(ctx, docID, requester)
	if err != nil {
		log.Warn("failed to get document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}
	content.Close()

	writeJSON(log, w, http.StatusOK, dto.NewDocumentResponse(doc))
}

// Download streams the stored bytes with the original mime and file name.
func Download(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, docID string, provider DocumentProvider) {
	op := pkg + "Download"

	log = log.With(slog.String("op", op), slog.String("doc_id", docID))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	doc, content, err := provider.DocumentByID(ctx, docID, requester)
	if err != nil {
		log.Warn("failed to get document", slog.String("error", err.Error()))
		utils.WriteError(w, err)
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", doc.Mime)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)

	if _, err := io.Copy(w, content); err != nil {
		log.Error("failed to stream document", slog.String("error", err.Error()))
	}
}
