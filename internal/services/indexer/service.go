package indexerservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"docvault/internal/models"
)

const pkg = "indexerService/"

// IndexerService maintains the denormalized search projection. The index is
// derived state: it can be dropped and rebuilt from the documents and
// metadata tables at any time, and after a rebuild it holds exactly the
// active documents.
type IndexerService struct {
	log          *slog.Logger
	docRepo      DocumentRepository
	metadataRepo MetadataRepository
	indexRepo    IndexRepository
	rebuilding   atomic.Bool
}

func New(log *slog.Logger, docRepo DocumentRepository, metadataRepo MetadataRepository, indexRepo IndexRepository) *IndexerService {
	return &IndexerService{
		log:          log,
		docRepo:      docRepo,
		metadataRepo: metadataRepo,
		indexRepo:    indexRepo,
	}
}

// Project writes or refreshes the document's index record from current
// database state. Idempotent; re-projection overwrites the previous record.
func (is *IndexerService) Project(ctx context.Context, docID string) error {
	op := pkg + "Project"

	log := is.log.With(slog.String("op", op), slog.String("doc_id", docID))

	doc, err := is.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		if errors.Is(err, models.ErrDocumentNotFound) {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Error("failed to load document", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if !doc.IsActive || doc.IsDeleted {
		if err := is.indexRepo.Delete(ctx, docID); err != nil {
			log.Error("failed to remove stale index record", slog.String("error", err.Error()))
			return fmt.Errorf("%s: %w", op, models.ErrInternal)
		}
		return nil
	}

	rec, err := is.buildRecord(ctx, doc)
	if err != nil {
		log.Error("failed to build index record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	if err := is.indexRepo.Upsert(ctx, rec); err != nil {
		log.Error("failed to upsert index record", slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return nil
}

// Remove deletes the document's index record. Missing records are not an
// error.
func (is *IndexerService) Remove(ctx context.Context, docID string) error {
	op := pkg + "Remove"

	if err := is.indexRepo.Delete(ctx, docID); err != nil {
		is.log.Error("failed to delete index record",
			slog.String("op", op),
			slog.String("doc_id", docID),
			slog.String("error", err.Error()))
		return fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	return nil
}

// RebuildAll drops the index and re-projects every active document. Only
// one rebuild may run at a time; a concurrent call fails immediately rather
// than queueing. Returns the number of documents projected.
func (is *IndexerService) RebuildAll(ctx context.Context) (int64, error) {
	op := pkg + "RebuildAll"

	log := is.log.With(slog.String("op", op))

	if !is.rebuilding.CompareAndSwap(false, true) {
		return 0, fmt.Errorf("%s: %w", op, models.ErrReindexRunning)
	}
	defer is.rebuilding.Store(false)

	started := time.Now()

	if err := is.indexRepo.DeleteAll(ctx); err != nil {
		log.Error("failed to clear index", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	docs, err := is.docRepo.ActiveDocuments(ctx)
	if err != nil {
		log.Error("failed to list active documents", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%s: %w", op, models.ErrInternal)
	}

	var projected int64

	for _, doc := range docs {
		rec, err := is.buildRecord(ctx, doc)
		if err != nil {
			log.Error("skipping document during rebuild",
				slog.String("doc_id", doc.ID), slog.String("error", err.Error()))
			continue
		}
		if err := is.indexRepo.Upsert(ctx, rec); err != nil {
			log.Error("failed to project document during rebuild",
				slog.String("doc_id", doc.ID), slog.String("error", err.Error()))
			continue
		}
		projected++
	}

	log.Info("index rebuilt",
		slog.Int64("documents", projected),
		slog.Duration("took", time.Since(started)))

	return projected, nil
}

func (is *IndexerService) buildRecord(ctx context.Context, doc *models.Document) (*models.IndexRecord, error) {
	entries, err := is.metadataRepo.ByDocument(ctx, doc.ID)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]string, len(entries))
	for _, entry := range entries {
		metadata[entry.Key] = entry.Value
	}

	return &models.IndexRecord{
		DocumentID:    doc.ID,
		FileName:      doc.FileName,
		DocumentType:  doc.DocumentType,
		Department:    doc.Department,
		OwnerID:       doc.OwnerID,
		OwnerLogin:    doc.OwnerLogin,
		Description:   doc.Description,
		Tags:          doc.Tags,
		ExtractedText: doc.ExtractedText,
		OCRConfidence: doc.OCRConfidence,
		Metadata:      metadata,
		IsActive:      doc.IsActive,
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
		IndexedAt:     time.Now().UTC(),
	}, nil
}
