package docs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"docvault/internal/dto"
	"docvault/internal/models"
	documentservice "docvault/internal/services/document"
	utils "docvault/internal/utils/http_errors"
)

const maxMultipartMemory = 32 << 20

// Upload accepts a multipart form with a "meta" JSON part and a "file"
// part. A duplicate outcome is a structured 409, not a failure: the body
// names the existing document and the accepted resolution actions.
func Upload(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, uploader DocumentUploader) {
	op := pkg + "Upload"

	log = log.With(slog.String("op", op))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var meta dto.UploadMeta

	req, ok := parseUploadForm(log, w, r, &meta)
	if !ok {
		return
	}

	doc, err := uploader.Upload(ctx, requester, req)
	if err != nil {
		writeUploadError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, dto.NewDocumentResponse(doc))
}

// ResolveDuplicate re-submits content after a duplicate outcome, with the
// chosen action. Rejecting the upload happens client-side and needs no
// call.
func ResolveDuplicate(ctx context.Context, log *slog.Logger, w http.ResponseWriter, r *http.Request, uploader DocumentUploader) {
	op := pkg + "ResolveDuplicate"

	log = log.With(slog.String("op", op))

	requester := requesterFrom(ctx, w)
	if requester == nil {
		return
	}

	var meta dto.ResolveDuplicateMeta

	req, ok := parseResolveForm(log, w, r, &meta)
	if !ok {
		return
	}

	doc, err := uploader.ResolveDuplicate(ctx, requester, meta.ExistingID, meta.Action, req)
	if err != nil {
		writeUploadError(log, w, err)
		return
	}

	writeJSON(log, w, http.StatusCreated, dto.NewDocumentResponse(doc))
}

func parseUploadForm(log *slog.Logger, w http.ResponseWriter, r *http.Request, meta *dto.UploadMeta) (*documentservice.UploadRequest, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "failed to parse multipart form")
		return nil, false
	}

	if err := json.Unmarshal([]byte(r.FormValue("meta")), meta); err != nil {
		log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid meta json")
		return nil, false
	}

	data, ok := readFilePart(log, w, r)
	if !ok {
		return nil, false
	}

	return &documentservice.UploadRequest{
		FileName:     meta.FileName,
		Mime:         meta.Mime,
		DocumentType: meta.DocumentType,
		Description:  meta.Description,
		Tags:         meta.Tags,
		Metadata:     meta.Metadata,
		Data:         data,
	}, true
}

func parseResolveForm(log *slog.Logger, w http.ResponseWriter, r *http.Request, meta *dto.ResolveDuplicateMeta) (*documentservice.UploadRequest, bool) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Warn("failed to parse multipart form", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "failed to parse multipart form")
		return nil, false
	}

	if err := json.Unmarshal([]byte(r.FormValue("meta")), meta); err != nil {
		log.Warn("failed to unmarshal meta", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "invalid meta json")
		return nil, false
	}

	data, ok := readFilePart(log, w, r)
	if !ok {
		return nil, false
	}

	return &documentservice.UploadRequest{
		FileName:     meta.FileName,
		Mime:         meta.Mime,
		DocumentType: meta.DocumentType,
		Description:  meta.Description,
		Tags:         meta.Tags,
		Metadata:     meta.Metadata,
		Data:         data,
	}, true
}

func readFilePart(log *slog.Logger, w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	file, _, err := r.FormFile("file")
	if err != nil {
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "missing file part")
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read file part", slog.String("error", err.Error()))
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, "failed to read file part")
		return nil, false
	}

	return data, true
}

// writeUploadError special-cases the duplicate outcome so the client gets
// the existing document's description alongside the conflict status.
func writeUploadError(log *slog.Logger, w http.ResponseWriter, err error) {
	var dup *models.DuplicateError
	if errors.As(err, &dup) {
		writeJSON(log, w, http.StatusConflict, dto.DuplicateResponse{
			Kind:     utils.KindDuplicate,
			Message:  "identical content already stored",
			Existing: dup.Existing,
		})
		return
	}

	var verr *models.ValidationError
	if errors.As(err, &verr) {
		utils.WriteJSONError(w, http.StatusBadRequest, utils.KindValidation, verr.Error())
		return
	}

	log.Warn("upload failed", slog.String("error", err.Error()))
	utils.WriteError(w, err)
}
