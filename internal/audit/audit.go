package audit

import (
	"context"
	"log/slog"
)

// Log is a structured-log audit sink. Every mutation of a document is
// recorded with the acting user; a sink failure must never fail the
// mutation, so recording has no error return.
type Log struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Log {
	return &Log{log: log.With(slog.String("channel", "audit"))}
}

func (l *Log) Record(ctx context.Context, action string, docID string, userID string) {
	l.log.InfoContext(ctx, action,
		slog.String("doc_id", docID),
		slog.String("user_id", userID))
}
