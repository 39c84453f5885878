package pipelineservice

import (
	"context"
	"io"

	"docvault/internal/models"
	"docvault/internal/queue"
)

type DocumentRepository interface {
	DocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateExtractedText(ctx context.Context, id string, text string, confidence float64) error
	UpdatePipelineStatus(ctx context.Context, id string, status string) error
}

type FileStorage interface {
	Open(path string) (io.ReadCloser, error)
}

type FieldExtractor interface {
	ExtractFields(ctx context.Context, doc *models.Document) (int, error)
}

type Projector interface {
	Project(ctx context.Context, docID string) error
}

type Broker interface {
	Produce(topic string, data any)
	RegisterConsumer(topic string, handler func(queue.Message), n int)
}
