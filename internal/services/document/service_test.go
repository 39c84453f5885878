package documentservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"

	"docvault/internal/hasher"
	"docvault/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) CreateDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) ActiveByHash(ctx context.Context, hash string) (*models.Document, error) {
	args := m.Called(ctx, hash)
	return args.Get(0).(*models.Document), args.Error(1)
}

func (m *MockDocumentRepository) UpdateContent(ctx context.Context, id string, hash string, path string, size int64, mime string) error {
	args := m.Called(ctx, id, hash, path, size, mime)
	return args.Error(0)
}

func (m *MockDocumentRepository) SetLifecycle(ctx context.Context, id string, active, archived, deleted bool) error {
	args := m.Called(ctx, id, active, archived, deleted)
	return args.Error(0)
}

func (m *MockDocumentRepository) AppendVersion(ctx context.Context, version *models.DocumentVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockDocumentRepository) VersionsByDocument(ctx context.Context, docID string) ([]*models.DocumentVersion, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]*models.DocumentVersion), args.Error(1)
}

type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) Upsert(ctx context.Context, entry *models.MetadataEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) Create(ctx context.Context, rel *models.DocumentRelationship) error {
	args := m.Called(ctx, rel)
	return args.Error(0)
}

func (m *MockRelationshipRepository) ByDocument(ctx context.Context, docID string) ([]*models.DocumentRelationship, error) {
	args := m.Called(ctx, docID)
	return args.Get(0).([]*models.DocumentRelationship), args.Error(1)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(digest string, r io.Reader) (string, error) {
	args := m.Called(digest, r)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Open(path string) (io.ReadCloser, error) {
	args := m.Called(path)
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

type MockRequiredValidator struct {
	mock.Mock
}

func (m *MockRequiredValidator) ValidateRequired(ctx context.Context, documentType string, values map[string]string) error {
	args := m.Called(ctx, documentType, values)
	return args.Error(0)
}

type MockEnqueuer struct {
	mock.Mock
	mu       sync.Mutex
	enqueued []string
}

func (m *MockEnqueuer) Enqueue(docID string) {
	m.mu.Lock()
	m.enqueued = append(m.enqueued, docID)
	m.mu.Unlock()
	m.Called(docID)
}

type MockProjector struct {
	mock.Mock
}

func (m *MockProjector) Project(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

func (m *MockProjector) Remove(ctx context.Context, docID string) error {
	args := m.Called(ctx, docID)
	return args.Error(0)
}

type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, action string, docID string, userID string) {}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type deps struct {
	docRepo      *MockDocumentRepository
	metadataRepo *MockMetadataRepository
	relationRepo *MockRelationshipRepository
	storage      *MockFileStorage
	validator    *MockRequiredValidator
	pipeline     *MockEnqueuer
	indexer      *MockProjector
}

func newService(t *testing.T) (*DocumentService, *deps) {
	t.Helper()

	d := &deps{
		docRepo:      new(MockDocumentRepository),
		metadataRepo: new(MockMetadataRepository),
		relationRepo: new(MockRelationshipRepository),
		storage:      new(MockFileStorage),
		validator:    new(MockRequiredValidator),
		pipeline:     new(MockEnqueuer),
		indexer:      new(MockProjector),
	}

	ds := New(testLogger(), d.docRepo, d.metadataRepo, d.relationRepo, d.storage,
		d.validator, d.pipeline, d.indexer, nopAudit{}, 1<<20)

	return ds, d
}

func requester() *models.User {
	return &models.User{ID: "u1", Login: "legaluser1", Department: "legal"}
}

func uploadReq(data string) *UploadRequest {
	return &UploadRequest{
		FileName:     "contract.pdf",
		Mime:         "application/pdf",
		DocumentType: "contract",
		Data:         []byte(data),
	}
}

func TestUpload_NewContent(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("fresh content"))

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("ActiveByHash", mock.Anything, digest).
		Return((*models.Document)(nil), models.ErrDocumentNotFound)
	d.storage.On("Save", digest, mock.Anything).Return("ab/cd/"+digest, nil)
	d.docRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("*models.Document")).Return(nil)
	d.docRepo.On("AppendVersion", mock.Anything, mock.AnythingOfType("*models.DocumentVersion")).Return(nil)
	d.pipeline.On("Enqueue", mock.AnythingOfType("string")).Return()

	doc, err := ds.Upload(context.Background(), requester(), uploadReq("fresh content"))

	require.NoError(t, err)
	assert.Equal(t, digest, doc.ContentHash)
	assert.True(t, doc.IsCanonical)
	assert.True(t, doc.IsActive)
	assert.Equal(t, models.StatusUploaded, doc.PipelineStatus)
	assert.Equal(t, "legal", doc.Department)
	assert.Equal(t, []string{doc.ID}, d.pipeline.enqueued)
}

func TestUpload_DuplicateContent(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("known content"))
	existing := &models.Document{
		ID: "doc-1", ContentHash: digest, FileName: "original.pdf",
		OwnerLogin: "someoneelse", IsCanonical: true, IsActive: true,
	}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("ActiveByHash", mock.Anything, digest).Return(existing, nil)

	_, err := ds.Upload(context.Background(), requester(), uploadReq("known content"))

	var dup *models.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "doc-1", dup.Existing.DocumentID)
	assert.ErrorIs(t, err, models.ErrDuplicateContent)
	d.storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUpload_ValidationFailures(t *testing.T) {
	t.Parallel()

	ds, _ := newService(t)

	cases := map[string]*UploadRequest{
		"missing name": {DocumentType: "contract", Data: []byte("x")},
		"missing type": {FileName: "a.pdf", Data: []byte("x")},
		"empty data":   {FileName: "a.pdf", DocumentType: "contract"},
	}

	for name, req := range cases {
		req := req
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := ds.Upload(context.Background(), requester(), req)
			assert.ErrorIs(t, err, models.ErrInvalidParams)
		})
	}
}

func TestUpload_FileTooLarge(t *testing.T) {
	t.Parallel()

	d := &deps{
		docRepo:      new(MockDocumentRepository),
		metadataRepo: new(MockMetadataRepository),
		relationRepo: new(MockRelationshipRepository),
		storage:      new(MockFileStorage),
		validator:    new(MockRequiredValidator),
		pipeline:     new(MockEnqueuer),
		indexer:      new(MockProjector),
	}
	ds := New(testLogger(), d.docRepo, d.metadataRepo, d.relationRepo, d.storage,
		d.validator, d.pipeline, d.indexer, nopAudit{}, 4)

	_, err := ds.Upload(context.Background(), requester(), uploadReq("way past the limit"))

	assert.ErrorIs(t, err, models.ErrFileTooLarge)
}

func TestUpload_MissingRequiredFields(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).
		Return(&models.ValidationError{Missing: []string{"customer"}})

	_, err := ds.Upload(context.Background(), requester(), uploadReq("content"))

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"customer"}, verr.Missing)
}

func TestUpload_DedupLookupFailureIsTransient(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("content"))

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("ActiveByHash", mock.Anything, digest).
		Return((*models.Document)(nil), errors.New("db down"))

	_, err := ds.Upload(context.Background(), requester(), uploadReq("content"))

	assert.ErrorIs(t, err, models.ErrTransient)
	d.docRepo.AssertNumberOfCalls(t, "ActiveByHash", 2)
}

func TestUpload_InsertRaceSurfacesDuplicate(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("racy content"))
	winner := &models.Document{ID: "doc-2", ContentHash: digest, IsCanonical: true, IsActive: true}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("ActiveByHash", mock.Anything, digest).
		Return((*models.Document)(nil), models.ErrDocumentNotFound).Once()
	d.storage.On("Save", digest, mock.Anything).Return("ab/cd/"+digest, nil)
	d.docRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("*models.Document")).
		Return(&models.UniqueConstraintError{Constraint: "documents_content_hash_active_idx", Err: models.ErrUNIQUEConstraintFailed})
	d.docRepo.On("ActiveByHash", mock.Anything, digest).Return(winner, nil)

	_, err := ds.Upload(context.Background(), requester(), uploadReq("racy content"))

	var dup *models.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "doc-2", dup.Existing.DocumentID)
}

func TestResolveDuplicate_Version(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("snapshot"))
	existing := &models.Document{
		ID: "doc-1", ContentHash: "otherdigest", OwnerID: "u1",
		Department: "legal", IsActive: true,
	}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil)
	d.storage.On("Save", digest, mock.Anything).Return("ab/cd/"+digest, nil)

	var appended *models.DocumentVersion
	d.docRepo.On("AppendVersion", mock.Anything, mock.AnythingOfType("*models.DocumentVersion")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*models.DocumentVersion)
		}).Return(nil)

	doc, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", models.ActionVersion, uploadReq("snapshot"))

	require.NoError(t, err)
	assert.Equal(t, "doc-1", doc.ID)
	assert.Equal(t, "otherdigest", doc.ContentHash)
	assert.False(t, appended.IsCurrent)
	assert.Equal(t, digest, appended.ContentHash)
	d.pipeline.AssertNotCalled(t, "Enqueue", mock.Anything)
}

func TestResolveDuplicate_Replace(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("replacement"))
	existing := &models.Document{
		ID: "doc-1", ContentHash: "olddigest", OwnerID: "u1",
		Department: "legal", IsActive: true,
	}
	reloaded := &models.Document{
		ID: "doc-1", ContentHash: digest, OwnerID: "u1",
		Department: "legal", IsActive: true, PipelineStatus: models.StatusUploaded,
	}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil).Once()
	d.docRepo.On("ActiveByHash", mock.Anything, digest).
		Return((*models.Document)(nil), models.ErrDocumentNotFound)
	d.storage.On("Save", digest, mock.Anything).Return("ab/cd/"+digest, nil)

	var appended *models.DocumentVersion
	d.docRepo.On("AppendVersion", mock.Anything, mock.AnythingOfType("*models.DocumentVersion")).
		Run(func(args mock.Arguments) {
			appended = args.Get(1).(*models.DocumentVersion)
		}).Return(nil)
	d.docRepo.On("UpdateContent", mock.Anything, "doc-1", digest, "ab/cd/"+digest, int64(len("replacement")), "application/pdf").
		Return(nil)
	d.pipeline.On("Enqueue", "doc-1").Return()
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(reloaded, nil)

	doc, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", models.ActionReplace, uploadReq("replacement"))

	require.NoError(t, err)
	assert.Equal(t, digest, doc.ContentHash)
	assert.True(t, appended.IsCurrent)
	assert.Equal(t, []string{"doc-1"}, d.pipeline.enqueued)
}

func TestResolveDuplicate_ReplaceDigestHeldElsewhere(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("replacement"))
	existing := &models.Document{
		ID: "doc-1", ContentHash: "olddigest", OwnerID: "u1",
		Department: "legal", IsActive: true,
	}
	holder := &models.Document{ID: "doc-9", ContentHash: digest, IsActive: true}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil)
	d.docRepo.On("ActiveByHash", mock.Anything, digest).Return(holder, nil)

	_, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", models.ActionReplace, uploadReq("replacement"))

	var dup *models.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "doc-9", dup.Existing.DocumentID)
	d.storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestResolveDuplicate_ForceNewIsNonCanonical(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	digest := hasher.SumBytes([]byte("shared bytes"))
	existing := &models.Document{
		ID: "doc-1", ContentHash: digest, OwnerID: "u1",
		Department: "legal", IsActive: true,
	}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil)
	d.storage.On("Save", digest, mock.Anything).Return("ab/cd/"+digest, nil)

	var created *models.Document
	d.docRepo.On("CreateDocument", mock.Anything, mock.AnythingOfType("*models.Document")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Document)
		}).Return(nil)
	d.docRepo.On("AppendVersion", mock.Anything, mock.AnythingOfType("*models.DocumentVersion")).Return(nil)
	d.pipeline.On("Enqueue", mock.AnythingOfType("string")).Return()

	doc, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", models.ActionForceNew, uploadReq("shared bytes"))

	require.NoError(t, err)
	assert.NotEqual(t, "doc-1", doc.ID)
	assert.False(t, created.IsCanonical)
	assert.Equal(t, digest, created.ContentHash)
}

func TestResolveDuplicate_UnknownAction(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	existing := &models.Document{ID: "doc-1", OwnerID: "u1", Department: "legal", IsActive: true}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil)

	_, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", "reject", uploadReq("x"))

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestResolveDuplicate_ForeignDocumentDenied(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	existing := &models.Document{ID: "doc-1", OwnerID: "someone", Department: "finance", IsActive: true}

	d.validator.On("ValidateRequired", mock.Anything, "contract", mock.Anything).Return(nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(existing, nil)

	_, err := ds.ResolveDuplicate(context.Background(), requester(), "doc-1", models.ActionVersion, uploadReq("x"))

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteDocument_RemovesFromIndex(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	doc := &models.Document{ID: "doc-1", OwnerID: "u1", Department: "legal", IsActive: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)
	d.docRepo.On("SetLifecycle", mock.Anything, "doc-1", false, false, true).Return(nil)
	d.indexer.On("Remove", mock.Anything, "doc-1").Return(nil)

	err := ds.DeleteDocument(context.Background(), "doc-1", requester())

	require.NoError(t, err)
	d.indexer.AssertCalled(t, "Remove", mock.Anything, "doc-1")
}

func TestDeleteDocument_SameDepartmentCannotManage(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	doc := &models.Document{ID: "doc-1", OwnerID: "peer", Department: "legal", IsActive: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)

	err := ds.DeleteDocument(context.Background(), "doc-1", requester())

	assert.ErrorIs(t, err, models.ErrForbidden)
	d.docRepo.AssertNotCalled(t, "SetLifecycle", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRestoreDocument_Reprojects(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	doc := &models.Document{ID: "doc-1", OwnerID: "u1", Department: "legal", IsArchived: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)
	d.docRepo.On("SetLifecycle", mock.Anything, "doc-1", true, false, false).Return(nil)
	d.indexer.On("Project", mock.Anything, "doc-1").Return(nil)

	err := ds.RestoreDocument(context.Background(), "doc-1", requester())

	require.NoError(t, err)
	d.indexer.AssertCalled(t, "Project", mock.Anything, "doc-1")
}

func TestDocumentByID_DepartmentVisibility(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	doc := &models.Document{
		ID: "doc-1", OwnerID: "peer", Department: "legal",
		StoragePath: "ab/cd/x", IsActive: true,
	}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)
	d.storage.On("Open", "ab/cd/x").Return(io.NopCloser(nil), nil)

	got, content, err := ds.DocumentByID(context.Background(), "doc-1", requester())

	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)
	assert.NotNil(t, content)
}

func TestDocumentByID_OtherDepartmentDenied(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	doc := &models.Document{ID: "doc-1", OwnerID: "peer", Department: "finance", IsActive: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(doc, nil)

	_, _, err := ds.DocumentByID(context.Background(), "doc-1", requester())

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCreateRelationship_SelfLinkRejected(t *testing.T) {
	t.Parallel()

	ds, _ := newService(t)

	_, err := ds.CreateRelationship(context.Background(), requester(), "doc-1", "doc-1", "supersedes")

	assert.ErrorIs(t, err, models.ErrInvalidParams)
}

func TestCreateRelationship_OK(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	source := &models.Document{ID: "doc-1", OwnerID: "u1", Department: "legal", IsActive: true}
	target := &models.Document{ID: "doc-2", OwnerID: "u1", Department: "legal", IsActive: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(source, nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-2").Return(target, nil)
	d.relationRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.DocumentRelationship")).Return(nil)

	rel, err := ds.CreateRelationship(context.Background(), requester(), "doc-1", "doc-2", "supersedes")

	require.NoError(t, err)
	assert.Equal(t, "doc-1", rel.SourceID)
	assert.Equal(t, "doc-2", rel.TargetID)
	assert.Equal(t, "u1", rel.CreatedBy)
	assert.NotEmpty(t, rel.ID)
}

func TestCreateRelationship_DuplicatePair(t *testing.T) {
	t.Parallel()

	ds, d := newService(t)

	source := &models.Document{ID: "doc-1", OwnerID: "u1", Department: "legal", IsActive: true}
	target := &models.Document{ID: "doc-2", OwnerID: "u1", Department: "legal", IsActive: true}

	d.docRepo.On("DocumentByID", mock.Anything, "doc-1").Return(source, nil)
	d.docRepo.On("DocumentByID", mock.Anything, "doc-2").Return(target, nil)
	d.relationRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.DocumentRelationship")).
		Return(models.ErrRelationExists)

	_, err := ds.CreateRelationship(context.Background(), requester(), "doc-1", "doc-2", "supersedes")

	assert.ErrorIs(t, err, models.ErrRelationExists)
}
