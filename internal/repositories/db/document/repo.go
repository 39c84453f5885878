package documentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "documentRepo/"

const docColumns = `
			d.id AS id,
			d.content_hash AS content_hash,
			d.storage_path AS storage_path,
			d.file_size AS file_size,
			d.mime_type AS mime_type,
			d.document_type AS document_type,
			d.department AS department,
			d.owner_id AS owner_id,
			u.login AS owner_login,
			d.file_name AS file_name,
			d.description AS description,
			d.tags AS tags,
			d.extracted_text AS extracted_text,
			d.ocr_confidence AS ocr_confidence,
			d.pipeline_status AS pipeline_status,
			d.is_canonical AS is_canonical,
			d.is_active AS is_active,
			d.is_archived AS is_archived,
			d.is_deleted AS is_deleted,
			d.created_at AS created_at,
			d.updated_at AS updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) CreateDocument(ctx context.Context, doc *models.Document) error {
	op := pkg + "CreateDocument"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO documents (id, content_hash, storage_path, file_size, mime_type, document_type,
			department, owner_id, file_name, description, tags, pipeline_status,
			is_canonical, is_active, is_archived, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		doc.ID, doc.ContentHash, doc.StoragePath, doc.FileSize, doc.Mime, doc.DocumentType,
		doc.Department, doc.OwnerID, doc.FileName, doc.Description, pq.StringArray(doc.Tags),
		doc.PipelineStatus, doc.IsCanonical, doc.IsActive, doc.IsArchived, doc.IsDeleted,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, &models.UniqueConstraintError{
				Constraint: pqErr.Constraint,
				Err:        models.ErrUNIQUEConstraintFailed,
			})
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DocumentByID(ctx context.Context, id string) (*models.Document, error) {
	op := pkg + "DocumentByID"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT`+docColumns+`
			FROM documents d
			INNER JOIN users u ON d.owner_id = u.id
			WHERE d.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(&rawDoc), nil
}

// ActiveByHash returns the canonical active, non-deleted holder of a digest.
// Soft-deleted documents are excluded, so a deleted document's digest may be
// reused by a new upload.
func (r *repository) ActiveByHash(ctx context.Context, hash string) (*models.Document, error) {
	op := pkg + "ActiveByHash"

	rawDoc := entities.Document{}

	err := r.db.GetContext(ctx, &rawDoc,
		`SELECT`+docColumns+`
			FROM documents d
			INNER JOIN users u ON d.owner_id = u.id
			WHERE d.content_hash = $1
			AND d.is_canonical = TRUE
			AND d.is_active = TRUE
			AND d.is_deleted = FALSE`,
		hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(&rawDoc), nil
}

func (r *repository) UpdateContent(ctx context.Context, id string, hash string, path string, size int64, mime string) error {
	op := pkg + "UpdateContent"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents
		SET content_hash = $2,
			storage_path = $3,
			file_size = $4,
			mime_type = $5,
			extracted_text = NULL,
			ocr_confidence = NULL,
			pipeline_status = $6,
			updated_at = $7
		WHERE id = $1`,
		id, hash, path, size, mime, models.StatusUploaded, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func (r *repository) UpdateExtractedText(ctx context.Context, id string, text string, confidence float64) error {
	op := pkg + "UpdateExtractedText"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents
		SET extracted_text = $2, ocr_confidence = $3, updated_at = $4
		WHERE id = $1`,
		id, text, confidence, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func (r *repository) UpdatePipelineStatus(ctx context.Context, id string, status string) error {
	op := pkg + "UpdatePipelineStatus"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents SET pipeline_status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// SetLifecycle updates the three lifecycle flags together so callers cannot
// produce contradictory states.
func (r *repository) SetLifecycle(ctx context.Context, id string, active, archived, deleted bool) error {
	op := pkg + "SetLifecycle"

	res, err := r.db.ExecContext(ctx,
		`UPDATE documents
		SET is_active = $2, is_archived = $3, is_deleted = $4, updated_at = $5
		WHERE id = $1`,
		id, active, archived, deleted, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func (r *repository) ActiveDocuments(ctx context.Context) ([]*models.Document, error) {
	op := pkg + "ActiveDocuments"

	rawDocs := make([]entities.Document, 0)

	err := r.db.SelectContext(ctx, &rawDocs,
		`SELECT`+docColumns+`
			FROM documents d
			INNER JOIN users u ON d.owner_id = u.id
			WHERE d.is_active = TRUE AND d.is_deleted = FALSE
			ORDER BY d.created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	docs := make([]*models.Document, 0, len(rawDocs))
	for i := range rawDocs {
		docs = append(docs, toModel(&rawDocs[i]))
	}

	return docs, nil
}

func (r *repository) CountActive(ctx context.Context) (int64, error) {
	op := pkg + "CountActive"

	var count int64

	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM documents WHERE is_active = TRUE AND is_deleted = FALSE`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// AppendVersion inserts the next version for a document inside one
// transaction; when current is true the previous current version is demoted
// first so exactly one stays current.
func (r *repository) AppendVersion(ctx context.Context, version *models.DocumentVersion) error {
	op := pkg + "AppendVersion"

	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	var next int
	err = tx.GetContext(ctx, &next,
		`SELECT COALESCE(MAX(version_no), 0) + 1 FROM document_versions WHERE document_id = $1`,
		version.DocumentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if version.IsCurrent {
		_, err = tx.ExecContext(ctx,
			`UPDATE document_versions SET is_current = FALSE WHERE document_id = $1`,
			version.DocumentID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	version.VersionNo = next

	_, err = tx.ExecContext(ctx,
		`INSERT INTO document_versions (id, document_id, version_no, content_hash, storage_path, file_size, is_current, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		version.ID, version.DocumentID, version.VersionNo, version.ContentHash,
		version.StoragePath, version.FileSize, version.IsCurrent, version.CreatedBy, version.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) VersionsByDocument(ctx context.Context, docID string) ([]*models.DocumentVersion, error) {
	op := pkg + "VersionsByDocument"

	rawVersions := make([]entities.DocumentVersion, 0)

	err := r.db.SelectContext(ctx, &rawVersions,
		`SELECT
			v.id AS id,
			v.document_id AS document_id,
			v.version_no AS version_no,
			v.content_hash AS content_hash,
			v.storage_path AS storage_path,
			v.file_size AS file_size,
			v.is_current AS is_current,
			v.created_by AS created_by,
			v.created_at AS created_at
		FROM document_versions v
		WHERE v.document_id = $1
		ORDER BY v.version_no ASC`,
		docID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	versions := make([]*models.DocumentVersion, 0, len(rawVersions))
	for _, raw := range rawVersions {
		versions = append(versions, &models.DocumentVersion{
			ID:          raw.ID,
			DocumentID:  raw.DocumentID,
			VersionNo:   raw.VersionNo,
			ContentHash: raw.ContentHash,
			StoragePath: raw.StoragePath,
			FileSize:    raw.FileSize,
			IsCurrent:   raw.IsCurrent,
			CreatedBy:   raw.CreatedBy,
			CreatedAt:   raw.CreatedAt,
		})
	}

	return versions, nil
}

func checkAffected(op string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrDocumentNotFound)
	}
	return nil
}

func toModel(raw *entities.Document) *models.Document {
	return &models.Document{
		ID:             raw.ID,
		ContentHash:    raw.ContentHash,
		StoragePath:    raw.StoragePath,
		FileSize:       raw.FileSize,
		Mime:           raw.Mime,
		DocumentType:   raw.DocumentType,
		Department:     raw.Department,
		OwnerID:        raw.OwnerID,
		OwnerLogin:     raw.OwnerLogin,
		FileName:       raw.FileName,
		Description:    raw.Description,
		Tags:           raw.Tags,
		ExtractedText:  raw.ExtractedText.String,
		OCRConfidence:  raw.OCRConfidence.Float64,
		PipelineStatus: raw.PipelineStatus,
		IsCanonical:    raw.IsCanonical,
		IsActive:       raw.IsActive,
		IsArchived:     raw.IsArchived,
		IsDeleted:      raw.IsDeleted,
		CreatedAt:      raw.CreatedAt,
		UpdatedAt:      raw.UpdatedAt,
	}
}
