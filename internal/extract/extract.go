package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const pkg = "extract/"

const (
	mimePDF  = "application/pdf"
	mimeText = "text/plain"
)

var ErrUnsupportedMime = errors.New("unsupported mime type")

// Result is the outcome of a text-extraction call: the recognized text and
// the extractor's confidence in it.
type Result struct {
	Text       string
	Confidence float64
}

// TextExtractor turns stored file bytes into searchable text. A timeout or
// failure here degrades the document to text_skipped; it never fails the
// pipeline.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, mime string, fileName string) (Result, error)
}

// Local extracts text in-process: PDFs through github.com/ledongthuc/pdf,
// plain text verbatim. Anything else is unsupported and left to an external
// OCR deployment.
type Local struct{}

func NewLocal() *Local {
	return &Local{}
}

func (l *Local) Extract(ctx context.Context, data []byte, mime string, fileName string) (Result, error) {
	op := pkg + "Extract"

	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("%s: %w", op, err)
	}

	switch normalizeMime(mime, fileName) {
	case mimePDF:
		text, err := extractPDF(data)
		if err != nil {
			return Result{}, fmt.Errorf("%s: %w", op, err)
		}
		return Result{Text: text, Confidence: 0.95}, nil
	case mimeText:
		return Result{Text: string(data), Confidence: 1.0}, nil
	default:
		return Result{}, fmt.Errorf("%s: %w: %s", op, ErrUnsupportedMime, mime)
	}
}

func normalizeMime(mime string, fileName string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}

	if mime == mimePDF || mime == mimeText {
		return mime
	}

	lower := strings.ToLower(fileName)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return mimePDF
	case strings.HasSuffix(lower, ".txt"):
		return mimeText
	}

	return mime
}

func extractPDF(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty pdf data")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}

	return buf.String(), nil
}
