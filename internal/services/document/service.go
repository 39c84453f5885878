package documentservice

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"docvault/internal/hasher"
	"docvault/internal/models"

	uuid "github.com/satori/go.uuid"
)

const pkg = "documentService/"

// UploadRequest is a fully read upload. The digest is computed over the
// complete content before anything touches storage.
type UploadRequest struct {
	FileName     string
	Mime         string
	DocumentType string
	Description  string
	Tags         []string
	Metadata     map[string]string
	Data         []byte
}

type DocumentService struct {
	log           *slog.Logger
	docRepo       DocumentRepository
	metadataRepo  MetadataRepository
	relationRepo  RelationshipRepository
	fileStorage   FileStorage
	validator     RequiredValidator
	pipeline      Enqueuer
	indexer       Projector
	audit         AuditSink
	maxUploadSize int64
	hashLocks     *keyedMutex
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	metadataRepo MetadataRepository,
	relationRepo RelationshipRepository,
	fileStorage FileStorage,
	validator RequiredValidator,
	pipeline Enqueuer,
	indexer Projector,
	audit AuditSink,
	maxUploadSize int64,
) *DocumentService {
	return &DocumentService{
		log:           log,
		docRepo:       docRepo,
		metadataRepo:  metadataRepo,
		relationRepo:  relationRepo,
		fileStorage:   fileStorage,
		validator:     validator,
		pipeline:      pipeline,
		indexer:       indexer,
		audit:         audit,
		maxUploadSize: maxUploadSize,
		hashLocks:     newKeyedMutex(),
	}
}

// Upload runs the synchronous ingestion path: validate, hash, dedup-check,
// store. Enrichment runs asynchronously after the document is durable; the
// caller does not wait for indexing.
func (ds *DocumentService) Upload(ctx context.Context, requester *models.User, req *UploadRequest) (*models.Document, error) {
	op := pkg + "Upload"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to upload document",
		slog.String("name", req.FileName),
		slog.String("document_type", req.DocumentType),
		slog.Int("size", len(req.Data)))

	if err := ds.validateUpload(ctx, req); err != nil {
		log.Warn("upload rejected", slog.String("error", err.Error()))
		return nil, err
	}

	digest := hasher.SumBytes(req.Data)

	unlock := ds.hashLocks.Lock(digest)
	defer unlock()

	if existing, err := ds.findActiveByHash(ctx, digest); err != nil {
		return nil, err
	} else if existing != nil {
		log.Debug("duplicate content detected", slog.String("existing_id", existing.ID))
		return nil, duplicateOf(existing)
	}

	doc, err := ds.store(ctx, requester, req, digest, true)
	if err != nil {
		return nil, err
	}

	ds.audit.Record(ctx, "document.uploaded", doc.ID, requester.ID)

	log.Debug("document uploaded successfully", slog.String("doc_id", doc.ID))

	return doc, nil
}

// ResolveDuplicate handles the follow-up call after a duplicate outcome.
// "reject" never reaches the server; the accepted actions are version,
// replace and force-new.
func (ds *DocumentService) ResolveDuplicate(ctx context.Context, requester *models.User, existingID string, action string, req *UploadRequest) (*models.Document, error) {
	op := pkg + "ResolveDuplicate"

	log := ds.log.With(slog.String("op", op))

	log.Debug("attempting to resolve duplicate",
		slog.String("existing_id", existingID),
		slog.String("action", action))

	if err := ds.validateUpload(ctx, req); err != nil {
		log.Warn("resolution rejected", slog.String("error", err.Error()))
		return nil, err
	}

	existing, err := ds.docRepo.DocumentByID(ctx, existingID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to load existing document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if existing.IsDeleted || !existing.IsActive {
		return nil, models.ErrDocumentNotFound
	}

	if !requester.CanSee(existing.OwnerID, existing.Department) {
		log.Warn("requester cannot resolve against this document",
			slog.String("doc_id", existingID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	digest := hasher.SumBytes(req.Data)

	unlock := ds.hashLocks.Lock(digest)
	defer unlock()

	switch action {
	case models.ActionVersion:
		return ds.appendAsVersion(ctx, requester, existing, req, digest)
	case models.ActionReplace:
		return ds.replaceContent(ctx, requester, existing, req, digest)
	case models.ActionForceNew:
		return ds.forceNew(ctx, requester, req, digest)
	default:
		return nil, fmt.Errorf("%s: unknown action %q: %w", op, action, models.ErrInvalidParams)
	}
}

func (ds *DocumentService) DocumentByID(ctx context.Context, docID string, requester *models.User) (*models.Document, io.ReadCloser, error) {
	op := pkg + "DocumentByID"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	if doc.IsDeleted {
		return nil, nil, models.ErrDocumentNotFound
	}

	if !requester.CanSee(doc.OwnerID, doc.Department) {
		log.Warn("user doesn't have access for document",
			slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, nil, models.ErrForbidden
	}

	file, err := ds.fileStorage.Open(doc.StoragePath)
	if err != nil {
		log.Error("failed to load file from storage", slog.String("error", err.Error()))
		return nil, nil, models.ErrInternal
	}

	return doc, file, nil
}

// DeleteDocument soft-deletes: the record is kept for audit, excluded from
// listings and dedup lookups, and dropped from the index.
func (ds *DocumentService) DeleteDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "DeleteDocument"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.visibleForManage(ctx, docID, requester)
	if err != nil {
		return err
	}

	if err := ds.docRepo.SetLifecycle(ctx, doc.ID, false, doc.IsArchived, true); err != nil {
		log.Error("failed to soft-delete document", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.indexer.Remove(ctx, doc.ID); err != nil {
		log.Error("failed to remove document from index", slog.String("error", err.Error()))
	}

	ds.audit.Record(ctx, "document.deleted", doc.ID, requester.ID)

	log.Debug("document soft-deleted", slog.String("doc_id", docID))

	return nil
}

func (ds *DocumentService) ArchiveDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "ArchiveDocument"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.visibleForManage(ctx, docID, requester)
	if err != nil {
		return err
	}

	if err := ds.docRepo.SetLifecycle(ctx, doc.ID, false, true, false); err != nil {
		log.Error("failed to archive document", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.indexer.Remove(ctx, doc.ID); err != nil {
		log.Error("failed to remove archived document from index", slog.String("error", err.Error()))
	}

	ds.audit.Record(ctx, "document.archived", doc.ID, requester.ID)

	return nil
}

func (ds *DocumentService) RestoreDocument(ctx context.Context, docID string, requester *models.User) error {
	op := pkg + "RestoreDocument"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.visibleForManage(ctx, docID, requester)
	if err != nil {
		return err
	}

	if err := ds.docRepo.SetLifecycle(ctx, doc.ID, true, false, false); err != nil {
		log.Error("failed to restore document", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	if err := ds.indexer.Project(ctx, doc.ID); err != nil {
		log.Error("failed to reproject restored document", slog.String("error", err.Error()))
	}

	ds.audit.Record(ctx, "document.restored", doc.ID, requester.ID)

	return nil
}

func (ds *DocumentService) Versions(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentVersion, error) {
	op := pkg + "Versions"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if doc.IsDeleted || !requester.CanSee(doc.OwnerID, doc.Department) {
		return nil, models.ErrForbidden
	}

	versions, err := ds.docRepo.VersionsByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list versions", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return versions, nil
}

func (ds *DocumentService) CreateRelationship(ctx context.Context, requester *models.User, sourceID, targetID, relationType string) (*models.DocumentRelationship, error) {
	op := pkg + "CreateRelationship"

	log := ds.log.With(slog.String("op", op))

	if sourceID == "" || targetID == "" || strings.TrimSpace(relationType) == "" || sourceID == targetID {
		return nil, models.ErrInvalidParams
	}

	for _, id := range []string{sourceID, targetID} {
		doc, err := ds.docRepo.DocumentByID(ctx, id)
		if err != nil {
			if errors.Is(err, models.ErrDocumentNotFound) {
				return nil, models.ErrDocumentNotFound
			}
			log.Error("failed to load relationship endpoint", slog.String("error", err.Error()))
			return nil, models.ErrInternal
		}
		if doc.IsDeleted || !requester.CanSee(doc.OwnerID, doc.Department) {
			return nil, models.ErrForbidden
		}
	}

	rel := &models.DocumentRelationship{
		ID:           uuid.NewV4().String(),
		SourceID:     sourceID,
		TargetID:     targetID,
		RelationType: relationType,
		CreatedBy:    requester.ID,
		CreatedAt:    time.Now(),
	}

	if err := ds.relationRepo.Create(ctx, rel); err != nil {
		if errors.Is(err, models.ErrRelationExists) {
			return nil, models.ErrRelationExists
		}
		log.Error("failed to create relationship", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	ds.audit.Record(ctx, "document.related", sourceID, requester.ID)

	return rel, nil
}

func (ds *DocumentService) Relationships(ctx context.Context, docID string, requester *models.User) ([]*models.DocumentRelationship, error) {
	op := pkg + "Relationships"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if doc.IsDeleted || !requester.CanSee(doc.OwnerID, doc.Department) {
		return nil, models.ErrForbidden
	}

	rels, err := ds.relationRepo.ByDocument(ctx, docID)
	if err != nil {
		log.Error("failed to list relationships", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return rels, nil
}

func (ds *DocumentService) validateUpload(ctx context.Context, req *UploadRequest) error {
	if strings.TrimSpace(req.FileName) == "" || strings.TrimSpace(req.DocumentType) == "" {
		return models.ErrInvalidParams
	}
	if len(req.Data) == 0 {
		return models.ErrInvalidParams
	}
	if int64(len(req.Data)) > ds.maxUploadSize {
		return models.ErrFileTooLarge
	}

	// Required fields that automation can never fill must be present now;
	// OCR-mappable ones are validated after extraction.
	return ds.validator.ValidateRequired(ctx, req.DocumentType, req.Metadata)
}

// findActiveByHash is the dedup lookup: retried once, and never silently
// skipped — a failing lookup fails the upload as transient.
func (ds *DocumentService) findActiveByHash(ctx context.Context, digest string) (*models.Document, error) {
	op := pkg + "findActiveByHash"

	log := ds.log.With(slog.String("op", op))

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := ds.docRepo.ActiveByHash(ctx, digest)
		if err == nil {
			return existing, nil
		}
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, nil
		}
		log.Warn("dedup lookup failed", slog.Int("attempt", attempt+1), slog.String("error", err.Error()))
	}

	return nil, models.ErrTransient
}

func (ds *DocumentService) store(ctx context.Context, requester *models.User, req *UploadRequest, digest string, canonical bool) (*models.Document, error) {
	op := pkg + "store"

	log := ds.log.With(slog.String("op", op))

	path, err := ds.fileStorage.Save(digest, bytes.NewReader(req.Data))
	if err != nil {
		log.Error("failed to save file", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	now := time.Now()

	doc := &models.Document{
		ID:             uuid.NewV4().String(),
		ContentHash:    digest,
		StoragePath:    path,
		FileSize:       int64(len(req.Data)),
		Mime:           req.Mime,
		DocumentType:   req.DocumentType,
		Department:     requester.Department,
		OwnerID:        requester.ID,
		OwnerLogin:     requester.Login,
		FileName:       req.FileName,
		Description:    req.Description,
		Tags:           req.Tags,
		PipelineStatus: models.StatusUploaded,
		IsCanonical:    canonical,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := ds.docRepo.CreateDocument(ctx, doc); err != nil {
		var uniqueErr *models.UniqueConstraintError
		if errors.As(err, &uniqueErr) {
			// Lost a race on the digest despite the lock (e.g. another
			// instance); surface it as a duplicate, not a conflict.
			if existing, lookupErr := ds.docRepo.ActiveByHash(ctx, digest); lookupErr == nil {
				return nil, duplicateOf(existing)
			}
			return nil, models.ErrTransient
		}
		log.Error("failed to persist document", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	version := &models.DocumentVersion{
		ID:          uuid.NewV4().String(),
		DocumentID:  doc.ID,
		ContentHash: digest,
		StoragePath: path,
		FileSize:    doc.FileSize,
		IsCurrent:   true,
		CreatedBy:   requester.ID,
		CreatedAt:   now,
	}

	if err := ds.docRepo.AppendVersion(ctx, version); err != nil {
		log.Error("failed to create initial version", slog.String("error", err.Error()))
		_ = ds.docRepo.SetLifecycle(ctx, doc.ID, false, false, true)
		return nil, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	ds.saveManualMetadata(ctx, doc.ID, req.Metadata)

	ds.pipeline.Enqueue(doc.ID)

	return doc, nil
}

func (ds *DocumentService) appendAsVersion(ctx context.Context, requester *models.User, existing *models.Document, req *UploadRequest, digest string) (*models.Document, error) {
	op := pkg + "appendAsVersion"

	log := ds.log.With(slog.String("op", op))

	path, err := ds.fileStorage.Save(digest, bytes.NewReader(req.Data))
	if err != nil {
		log.Error("failed to save version content", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	// The snapshot is appended under the existing document; the document's
	// own digest and current version stay untouched.
	version := &models.DocumentVersion{
		ID:          uuid.NewV4().String(),
		DocumentID:  existing.ID,
		ContentHash: digest,
		StoragePath: path,
		FileSize:    int64(len(req.Data)),
		IsCurrent:   false,
		CreatedBy:   requester.ID,
		CreatedAt:   time.Now(),
	}

	if err := ds.docRepo.AppendVersion(ctx, version); err != nil {
		log.Error("failed to append version", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	ds.audit.Record(ctx, "document.versioned", existing.ID, requester.ID)

	return existing, nil
}

func (ds *DocumentService) replaceContent(ctx context.Context, requester *models.User, existing *models.Document, req *UploadRequest, digest string) (*models.Document, error) {
	op := pkg + "replaceContent"

	log := ds.log.With(slog.String("op", op))

	if digest != existing.ContentHash {
		if holder, err := ds.findActiveByHash(ctx, digest); err != nil {
			return nil, err
		} else if holder != nil && holder.ID != existing.ID {
			return nil, duplicateOf(holder)
		}
	}

	path, err := ds.fileStorage.Save(digest, bytes.NewReader(req.Data))
	if err != nil {
		log.Error("failed to save replacement content", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	version := &models.DocumentVersion{
		ID:          uuid.NewV4().String(),
		DocumentID:  existing.ID,
		ContentHash: digest,
		StoragePath: path,
		FileSize:    int64(len(req.Data)),
		IsCurrent:   true,
		CreatedBy:   requester.ID,
		CreatedAt:   time.Now(),
	}

	if err := ds.docRepo.AppendVersion(ctx, version); err != nil {
		log.Error("failed to append replacement version", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if err := ds.docRepo.UpdateContent(ctx, existing.ID, digest, path, version.FileSize, req.Mime); err != nil {
		log.Error("failed to update document content", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	ds.pipeline.Enqueue(existing.ID)

	ds.audit.Record(ctx, "document.replaced", existing.ID, requester.ID)

	doc, err := ds.docRepo.DocumentByID(ctx, existing.ID)
	if err != nil {
		log.Error("failed to reload replaced document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	return doc, nil
}

func (ds *DocumentService) forceNew(ctx context.Context, requester *models.User, req *UploadRequest, digest string) (*models.Document, error) {
	doc, err := ds.store(ctx, requester, req, digest, false)
	if err != nil {
		return nil, err
	}

	ds.audit.Record(ctx, "document.force_new", doc.ID, requester.ID)

	return doc, nil
}

func (ds *DocumentService) visibleForManage(ctx context.Context, docID string, requester *models.User) (*models.Document, error) {
	op := pkg + "visibleForManage"

	log := ds.log.With(slog.String("op", op))

	doc, err := ds.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return nil, models.ErrDocumentNotFound
		}
		log.Error("failed to get document", slog.String("error", err.Error()))
		return nil, models.ErrInternal
	}

	if doc.IsDeleted {
		return nil, models.ErrDocumentNotFound
	}

	if !requester.CanManage(doc.OwnerID) {
		log.Warn("user doesn't have access for this operation",
			slog.String("doc_id", docID), slog.String("user_id", requester.ID))
		return nil, models.ErrForbidden
	}

	return doc, nil
}

func (ds *DocumentService) saveManualMetadata(ctx context.Context, docID string, values map[string]string) {
	op := pkg + "saveManualMetadata"

	log := ds.log.With(slog.String("op", op))

	for key, value := range values {
		if strings.TrimSpace(key) == "" {
			continue
		}
		entry := &models.MetadataEntry{
			DocumentID: docID,
			Key:        key,
			Value:      value,
			Source:     models.SourceManual,
			Confidence: 1.0,
		}
		if err := ds.metadataRepo.Upsert(ctx, entry); err != nil {
			log.Error("failed to save manual metadata",
				slog.String("doc_id", docID), slog.String("key", key), slog.String("error", err.Error()))
		}
	}
}

func duplicateOf(existing *models.Document) *models.DuplicateError {
	return &models.DuplicateError{
		Existing: models.DuplicateInfo{
			DocumentID:   existing.ID,
			FileName:     existing.FileName,
			FileSize:     existing.FileSize,
			DocumentType: existing.DocumentType,
			OwnerLogin:   existing.OwnerLogin,
			CreatedAt:    existing.CreatedAt,
		},
	}
}
