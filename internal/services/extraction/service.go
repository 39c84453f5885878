package extractionservice

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"docvault/internal/models"
)

const pkg = "extractionService/"

// Pattern-match confidence tiers. These grade the mapping pattern's
// precision, not the OCR engine's certainty about the text.
const (
	confidenceAnchored = 0.95
	confidenceCapture  = 0.85
	confidenceBare     = 0.70
)

// ExtractionService interprets the per-type field-mapping table against
// extracted text. The rules live in the database and are editable at
// runtime; nothing here is specific to any document type.
type ExtractionService struct {
	log          *slog.Logger
	mappings     FieldMappingProvider
	metadataRepo MetadataRepository
}

func New(log *slog.Logger, mappings FieldMappingProvider, metadataRepo MetadataRepository) *ExtractionService {
	return &ExtractionService{
		log:          log,
		mappings:     mappings,
		metadataRepo: metadataRepo,
	}
}

// ExtractFields applies every OCR-mappable rule for the document's type to
// its extracted text and stores the matches as automated metadata. Returns
// the number of fields written. Manual entries are preserved by the
// metadata layer, not here.
func (es *ExtractionService) ExtractFields(ctx context.Context, doc *models.Document) (int, error) {
	op := pkg + "ExtractFields"

	log := es.log.With(slog.String("op", op), slog.String("doc_id", doc.ID))

	mappings, err := es.mappings.ActiveByType(ctx, doc.DocumentType)
	if err != nil {
		log.Error("failed to load field mappings", slog.String("error", err.Error()))
		return 0, models.ErrInternal
	}

	extracted := 0

	for _, mapping := range mappings {
		if value, confidence, ok := es.applyMapping(mapping, doc.ExtractedText); ok {
			entry := &models.MetadataEntry{
				DocumentID: doc.ID,
				Key:        mapping.Key,
				Value:      value,
				Source:     models.SourceOCR,
				Confidence: confidence,
			}
			if err := es.metadataRepo.Upsert(ctx, entry); err != nil {
				log.Error("failed to store extracted field",
					slog.String("key", mapping.Key), slog.String("error", err.Error()))
				continue
			}
			extracted++
			continue
		}

		if mapping.DefaultValue != "" {
			entry := &models.MetadataEntry{
				DocumentID: doc.ID,
				Key:        mapping.Key,
				Value:      mapping.DefaultValue,
				Source:     models.SourceStructure,
				Confidence: 1.0,
			}
			if err := es.metadataRepo.Upsert(ctx, entry); err != nil {
				log.Error("failed to store default field",
					slog.String("key", mapping.Key), slog.String("error", err.Error()))
				continue
			}
			extracted++
		}
	}

	log.Debug("field extraction finished", slog.Int("extracted", extracted))

	return extracted, nil
}

// ValidateRequired checks a candidate value set against the type's required
// fields and fails with the full list of missing keys.
func (es *ExtractionService) ValidateRequired(ctx context.Context, documentType string, values map[string]string) error {
	op := pkg + "ValidateRequired"

	log := es.log.With(slog.String("op", op))

	mappings, err := es.mappings.ActiveByType(ctx, documentType)
	if err != nil {
		log.Error("failed to load field mappings", slog.String("error", err.Error()))
		return models.ErrInternal
	}

	missing := make([]string, 0)

	for _, mapping := range mappings {
		if !mapping.Required || mapping.OCRMappable {
			continue
		}
		if strings.TrimSpace(values[mapping.Key]) == "" && mapping.DefaultValue == "" {
			missing = append(missing, mapping.Key)
		}
	}

	if len(missing) > 0 {
		return &models.ValidationError{Missing: missing}
	}

	return nil
}

func (es *ExtractionService) applyMapping(mapping *models.FieldMapping, text string) (string, float64, bool) {
	op := pkg + "applyMapping"

	if !mapping.OCRMappable || mapping.Pattern == "" || text == "" {
		return "", 0, false
	}

	re, err := regexp.Compile("(?i)" + mapping.Pattern)
	if err != nil {
		es.log.Debug("invalid extraction pattern",
			slog.String("op", op),
			slog.String("key", mapping.Key),
			slog.String("error", err.Error()))
		return "", 0, false
	}

	match := re.FindStringSubmatch(text)
	if match == nil {
		return "", 0, false
	}

	value := match[0]
	confidence := confidenceBare

	if len(match) > 1 && match[1] != "" {
		value = match[1]
		confidence = confidenceCapture
	}

	if strings.HasPrefix(mapping.Pattern, "^") || strings.HasSuffix(mapping.Pattern, "$") {
		confidence = confidenceAnchored
	}

	value = stripLabel(value, mapping)
	if value == "" {
		return "", 0, false
	}

	if mapping.ValidationRule != "" {
		rule, err := regexp.Compile(mapping.ValidationRule)
		if err != nil || !rule.MatchString(value) {
			return "", 0, false
		}
	}

	return value, confidence, true
}

// stripLabel removes the field's own label or key when the pattern captured
// it as boilerplate, plus any leading separators left behind.
func stripLabel(value string, mapping *models.FieldMapping) string {
	value = strings.TrimSpace(value)

	for _, prefix := range []string{mapping.Label, mapping.Key} {
		if prefix == "" {
			continue
		}
		if len(value) >= len(prefix) && strings.EqualFold(value[:len(prefix)], prefix) {
			value = value[len(prefix):]
		}
	}

	value = strings.TrimLeft(value, ":-–#. \t")

	return strings.Join(strings.Fields(value), " ")
}
