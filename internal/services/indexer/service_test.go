package indexerservice

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"docvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ActiveDocuments(ctx context.Context) ([]*models.Document, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.Document), args.Error(1)
}

type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) ByDocument(ctx context.Context, docID string) ([]*models.MetadataEntry, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]*models.MetadataEntry), args.Error(1)
}

type MockIndexRepository struct {
	mock.Mock
}

func (m *MockIndexRepository) Upsert(ctx context.Context, rec *models.IndexRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockIndexRepository) Delete(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockIndexRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockIndexRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestProject_ActiveDocument(t *testing.T) {
	t.Parallel()

	docRepo := new(MockDocumentRepository)
	metadata := new(MockMetadataRepository)
	index := new(MockIndexRepository)

	doc := &models.Document{
		ID:           "doc-1",
		FileName:     "contract.pdf",
		DocumentType: "contract",
		Department:   "legal",
		Tags:         []string{"nda"},
		IsActive:     true,
	}

	docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)
	metadata.On("ByDocument", mock.Anything, "doc-1").Return([]*models.MetadataEntry{
		{Key: "party", Value: "ACME"},
	}, nil)

	var rec *models.IndexRecord
	index.On("Upsert", mock.Anything, mock.AnythingOfType("*models.IndexRecord")).
		Run(func(args mock.Arguments) {
			rec = args.Get(1).(*models.IndexRecord)
		}).Return(nil)

	is := New(testLogger(), docRepo, metadata, index)

	err := is.Project(context.Background(), "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, "contract.pdf", rec.FileName)
	assert.Equal(t, map[string]string{"party": "ACME"}, rec.Metadata)
	assert.False(t, rec.IndexedAt.IsZero())
}

func TestProject_InactiveDocumentRemovesRecord(t *testing.T) {
	t.Parallel()

	docRepo := new(MockDocumentRepository)
	metadata := new(MockMetadataRepository)
	index := new(MockIndexRepository)

	doc := &models.Document{ID: "doc-1", IsActive: false}

	docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)
	index.On("Delete", mock.Anything, "doc-1").Return(nil)

	is := New(testLogger(), docRepo, metadata, index)

	err := is.Project(context.Background(), "doc-1")

	assert.NoError(t, err)
	index.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	index.AssertCalled(t, "Delete", mock.Anything, "doc-1")
}

func TestRebuildAll_ProjectsActiveDocuments(t *testing.T) {
	t.Parallel()

	docRepo := new(MockDocumentRepository)
	metadata := new(MockMetadataRepository)
	index := new(MockIndexRepository)

	docs := []*models.Document{
		{ID: "doc-1", IsActive: true},
		{ID: "doc-2", IsActive: true},
	}

	index.On("DeleteAll", mock.Anything).Return(nil)
	docRepo.On("ActiveDocuments", mock.Anything).Return(docs, nil)
	metadata.On("ByDocument", mock.Anything, mock.AnythingOfType("string")).
		Return([]*models.MetadataEntry{}, nil)
	index.On("Upsert", mock.Anything, mock.AnythingOfType("*models.IndexRecord")).Return(nil)

	is := New(testLogger(), docRepo, metadata, index)

	count, err := is.RebuildAll(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	index.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestRebuildAll_ConcurrentRebuildRejected(t *testing.T) {
	t.Parallel()

	docRepo := new(MockDocumentRepository)
	metadata := new(MockMetadataRepository)
	index := new(MockIndexRepository)

	started := make(chan struct{})
	release := make(chan struct{})

	var once sync.Once
	index.On("DeleteAll", mock.Anything).
		Run(func(mock.Arguments) {
			once.Do(func() { close(started) })
			<-release
		}).Return(nil)
	docRepo.On("ActiveDocuments", mock.Anything).Return([]*models.Document{}, nil)

	is := New(testLogger(), docRepo, metadata, index)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = is.RebuildAll(context.Background())
	}()

	<-started

	_, err := is.RebuildAll(context.Background())
	assert.ErrorIs(t, err, models.ErrReindexRunning)

	close(release)
	wg.Wait()

	// A finished rebuild releases the guard for the next one.
	_, err = is.RebuildAll(context.Background())
	assert.NoError(t, err)
}
