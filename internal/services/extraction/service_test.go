package extractionservice

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"docvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockFieldMappingProvider struct {
	mock.Mock
}

func (m *MockFieldMappingProvider) ActiveByType(ctx context.Context, documentType string) ([]*models.FieldMapping, error) {
	args := m.Called(ctx, documentType)
	return args.Get(0).([]*models.FieldMapping), args.Error(1)
}

type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) Upsert(ctx context.Context, entry *models.MetadataEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMetadataRepository) ByDocument(ctx context.Context, docID string) ([]*models.MetadataEntry, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]*models.MetadataEntry), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestExtractFields_CaptureGroup(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").Return([]*models.FieldMapping{
		{
			Key:         "invoice_number",
			Label:       "Invoice No",
			OCRMappable: true,
			Pattern:     `invoice\s+no[:.]?\s*([A-Z0-9-]+)`,
		},
	}, nil)

	var stored *models.MetadataEntry
	metadata.On("Upsert", mock.Anything, mock.AnythingOfType("*models.MetadataEntry")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.MetadataEntry)
		}).Return(nil)

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{
		ID:            "doc-1",
		DocumentType:  "invoice",
		ExtractedText: "ACME Corp\nInvoice No: INV-2024-017\nTotal due: 100.00",
	}

	count, err := es.ExtractFields(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NotNil(t, stored)
	assert.Equal(t, "invoice_number", stored.Key)
	assert.Equal(t, "INV-2024-017", stored.Value)
	assert.Equal(t, models.SourceOCR, stored.Source)
	assert.InDelta(t, 0.85, stored.Confidence, 0.001)
	metadata.AssertExpectations(t)
}

func TestExtractFields_BareMatchStripsLabel(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "contract").Return([]*models.FieldMapping{
		{
			Key:         "party",
			Label:       "Party",
			OCRMappable: true,
			Pattern:     `party[:\s]+\S+`,
		},
	}, nil)

	var stored *models.MetadataEntry
	metadata.On("Upsert", mock.Anything, mock.AnythingOfType("*models.MetadataEntry")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.MetadataEntry)
		}).Return(nil)

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{
		ID:            "doc-2",
		DocumentType:  "contract",
		ExtractedText: "PARTY: NorthWind",
	}

	count, err := es.ExtractFields(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "NorthWind", stored.Value)
	assert.InDelta(t, 0.70, stored.Confidence, 0.001)
}

func TestExtractFields_DefaultValueWhenNoMatch(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "report").Return([]*models.FieldMapping{
		{
			Key:          "status",
			OCRMappable:  true,
			Pattern:      `status[:\s]+(\w+)`,
			DefaultValue: "draft",
		},
	}, nil)

	var stored *models.MetadataEntry
	metadata.On("Upsert", mock.Anything, mock.AnythingOfType("*models.MetadataEntry")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*models.MetadataEntry)
		}).Return(nil)

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{
		ID:            "doc-3",
		DocumentType:  "report",
		ExtractedText: "nothing useful here",
	}

	count, err := es.ExtractFields(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, "draft", stored.Value)
	assert.Equal(t, models.SourceStructure, stored.Source)
	assert.InDelta(t, 1.0, stored.Confidence, 0.001)
}

func TestExtractFields_ValidationRuleRejectsMatch(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").Return([]*models.FieldMapping{
		{
			Key:            "amount",
			OCRMappable:    true,
			Pattern:        `amount[:\s]+(\S+)`,
			ValidationRule: `^\d+(\.\d{2})?$`,
		},
	}, nil)

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{
		ID:            "doc-4",
		DocumentType:  "invoice",
		ExtractedText: "Amount: TBD",
	}

	count, err := es.ExtractFields(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
	metadata.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestExtractFields_InvalidPatternSkipped(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").Return([]*models.FieldMapping{
		{Key: "broken", OCRMappable: true, Pattern: `([`},
	}, nil)

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{
		ID:            "doc-5",
		DocumentType:  "invoice",
		ExtractedText: "some text",
	}

	count, err := es.ExtractFields(context.Background(), doc)

	assert.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestExtractFields_MappingLookupFails(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").
		Return([]*models.FieldMapping(nil), errors.New("db down"))

	es := New(testLogger(), mappings, metadata)

	doc := &models.Document{ID: "doc-6", DocumentType: "invoice", ExtractedText: "x"}

	_, err := es.ExtractFields(context.Background(), doc)

	assert.ErrorIs(t, err, models.ErrInternal)
}

func TestValidateRequired_MissingFields(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").Return([]*models.FieldMapping{
		{Key: "customer", Required: true},
		{Key: "amount", Required: true},
		{Key: "invoice_number", Required: true, OCRMappable: true},
		{Key: "currency", Required: true, DefaultValue: "EUR"},
	}, nil)

	es := New(testLogger(), mappings, metadata)

	err := es.ValidateRequired(context.Background(), "invoice", map[string]string{
		"customer": "ACME",
		"amount":   "  ",
	})

	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"amount"}, verr.Missing)
	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestValidateRequired_AllPresent(t *testing.T) {
	t.Parallel()

	mappings := new(MockFieldMappingProvider)
	metadata := new(MockMetadataRepository)

	mappings.On("ActiveByType", mock.Anything, "invoice").Return([]*models.FieldMapping{
		{Key: "customer", Required: true},
	}, nil)

	es := New(testLogger(), mappings, metadata)

	err := es.ValidateRequired(context.Background(), "invoice", map[string]string{"customer": "ACME"})

	assert.NoError(t, err)
}
