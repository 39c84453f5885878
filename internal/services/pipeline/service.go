package pipelineservice

import (
	"context"
	"io"
	"log/slog"
	"time"

	"docvault/internal/extract"
	"docvault/internal/models"
	"docvault/internal/queue"
)

const pkg = "pipelineService/"

// TopicEnrich carries document IDs awaiting enrichment.
const TopicEnrich = "document.enrich"

const defaultExtractTimeout = 30 * time.Second

// PipelineService runs the enrichment stages for one document per queue
// message: text extraction, then field mapping, then index projection.
// Stages within one document are strictly sequential; different documents
// run in parallel across consumers. A failed stage degrades the document's
// status and the later stages still run with what they have.
type PipelineService struct {
	log            *slog.Logger
	docRepo        DocumentRepository
	storage        FileStorage
	extractor      extract.TextExtractor
	fields         FieldExtractor
	projector      Projector
	broker         Broker
	workers        int
	extractTimeout time.Duration
	locks          *keyedMutex
}

func New(
	log *slog.Logger,
	docRepo DocumentRepository,
	storage FileStorage,
	extractor extract.TextExtractor,
	fields FieldExtractor,
	projector Projector,
	broker Broker,
	workers int,
	extractTimeout time.Duration,
) *PipelineService {
	if workers <= 0 {
		workers = 4
	}
	if extractTimeout <= 0 {
		extractTimeout = defaultExtractTimeout
	}

	return &PipelineService{
		log:            log,
		docRepo:        docRepo,
		storage:        storage,
		extractor:      extractor,
		fields:         fields,
		projector:      projector,
		broker:         broker,
		workers:        workers,
		extractTimeout: extractTimeout,
		locks:          newKeyedMutex(),
	}
}

// Start registers the enrichment consumers on the broker.
func (ps *PipelineService) Start(ctx context.Context) {
	ps.broker.RegisterConsumer(TopicEnrich, func(msg queue.Message) {
		docID, ok := msg.Data.(string)
		if !ok {
			ps.log.Error("unexpected message payload",
				slog.String("op", pkg+"Start"), slog.String("topic", msg.Topic))
			return
		}
		ps.process(ctx, docID)
	}, ps.workers)
}

// Enqueue schedules a document for enrichment. Safe to call for the same
// document more than once; every stage is idempotent.
func (ps *PipelineService) Enqueue(docID string) {
	ps.broker.Produce(TopicEnrich, docID)
}

func (ps *PipelineService) process(ctx context.Context, docID string) {
	op := pkg + "process"

	log := ps.log.With(slog.String("op", op), slog.String("doc_id", docID))

	// Two queued messages for the same document must not interleave; the
	// second run starts from the state the first one left behind.
	unlock := ps.locks.Lock(docID)
	defer unlock()

	doc, err := ps.docRepo.DocumentByID(ctx, docID)
	if err != nil {
		log.Error("failed to load document", slog.String("error", err.Error()))
		return
	}

	if !doc.IsActive || doc.IsDeleted {
		log.Debug("document no longer active, skipping enrichment")
		return
	}

	doc = ps.extractText(ctx, log, doc)
	ps.extractFields(ctx, log, doc)
	ps.project(ctx, log, doc)
}

// extractText runs stage one and returns the document with its text filled
// in when extraction succeeded.
func (ps *PipelineService) extractText(ctx context.Context, log *slog.Logger, doc *models.Document) *models.Document {
	data, err := ps.readBlob(doc.StoragePath)
	if err != nil {
		log.Error("failed to read stored file", slog.String("error", err.Error()))
		ps.setStatus(ctx, log, doc, models.StatusTextSkipped)
		return doc
	}

	extractCtx, cancel := context.WithTimeout(ctx, ps.extractTimeout)
	defer cancel()

	result, err := ps.extractor.Extract(extractCtx, data, doc.Mime, doc.FileName)
	if err != nil {
		log.Warn("text extraction skipped", slog.String("error", err.Error()))
		ps.setStatus(ctx, log, doc, models.StatusTextSkipped)
		return doc
	}

	if err := ps.docRepo.UpdateExtractedText(ctx, doc.ID, result.Text, result.Confidence); err != nil {
		log.Error("failed to store extracted text", slog.String("error", err.Error()))
		ps.setStatus(ctx, log, doc, models.StatusTextSkipped)
		return doc
	}

	doc.ExtractedText = result.Text
	doc.OCRConfidence = result.Confidence
	ps.setStatus(ctx, log, doc, models.StatusTextExtracted)

	return doc
}

func (ps *PipelineService) extractFields(ctx context.Context, log *slog.Logger, doc *models.Document) {
	if doc.ExtractedText == "" {
		ps.setStatus(ctx, log, doc, models.StatusMetadataSkipped)
		return
	}

	count, err := ps.fields.ExtractFields(ctx, doc)
	if err != nil {
		log.Warn("field extraction skipped", slog.String("error", err.Error()))
		ps.setStatus(ctx, log, doc, models.StatusMetadataSkipped)
		return
	}

	if count == 0 {
		ps.setStatus(ctx, log, doc, models.StatusMetadataSkipped)
		return
	}

	ps.setStatus(ctx, log, doc, models.StatusMetadataExtracted)
}

func (ps *PipelineService) project(ctx context.Context, log *slog.Logger, doc *models.Document) {
	if err := ps.projector.Project(ctx, doc.ID); err != nil {
		log.Error("index projection failed", slog.String("error", err.Error()))
		ps.setStatus(ctx, log, doc, models.StatusIndexFailed)
		return
	}

	ps.setStatus(ctx, log, doc, models.StatusIndexed)
}

func (ps *PipelineService) setStatus(ctx context.Context, log *slog.Logger, doc *models.Document, status string) {
	if err := ps.docRepo.UpdatePipelineStatus(ctx, doc.ID, status); err != nil {
		log.Error("failed to update pipeline status",
			slog.String("status", status), slog.String("error", err.Error()))
		return
	}
	doc.PipelineStatus = status
}

func (ps *PipelineService) readBlob(path string) ([]byte, error) {
	rc, err := ps.storage.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}
