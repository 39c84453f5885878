package indexrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "indexRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

// Upsert writes an index record by document identity, so re-running a
// projection overwrites instead of duplicating.
func (r *repository) Upsert(ctx context.Context, rec *models.IndexRecord) error {
	op := pkg + "Upsert"

	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO document_index (document_id, file_name, document_type, department, owner_id, owner_login,
			description, tags, extracted_text, ocr_confidence, metadata, is_active,
			created_at, updated_at, indexed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (document_id) DO UPDATE
		SET file_name = EXCLUDED.file_name,
			document_type = EXCLUDED.document_type,
			department = EXCLUDED.department,
			owner_id = EXCLUDED.owner_id,
			owner_login = EXCLUDED.owner_login,
			description = EXCLUDED.description,
			tags = EXCLUDED.tags,
			extracted_text = EXCLUDED.extracted_text,
			ocr_confidence = EXCLUDED.ocr_confidence,
			metadata = EXCLUDED.metadata,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at,
			indexed_at = EXCLUDED.indexed_at`,
		rec.DocumentID, rec.FileName, rec.DocumentType, rec.Department, rec.OwnerID, rec.OwnerLogin,
		rec.Description, pq.StringArray(rec.Tags), nullableText(rec.ExtractedText), rec.OCRConfidence,
		metadataJSON, rec.IsActive, rec.CreatedAt, rec.UpdatedAt, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, docID string) error {
	op := pkg + "Delete"

	_, err := r.db.ExecContext(ctx,
		`DELETE FROM document_index WHERE document_id = $1`, docID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) error {
	op := pkg + "DeleteAll"

	_, err := r.db.ExecContext(ctx, `DELETE FROM document_index`)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	op := pkg + "Count"

	var count int64

	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM document_index`); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}

// Search runs the structured query against the index. scopeDept, when
// non-empty, restricts results to one department regardless of the query's
// own filters. All filters are conjunctive; absent filters impose nothing.
func (r *repository) Search(ctx context.Context, query models.SearchQuery, scopeDept string) ([]*models.IndexRecord, int64, error) {
	op := pkg + "Search"

	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if scopeDept != "" {
		conds = append(conds, "i.department = "+arg(scopeDept))
	}
	if text := strings.TrimSpace(query.Text); text != "" {
		p := arg("%" + text + "%")
		conds = append(conds, fmt.Sprintf(
			`(i.file_name ILIKE %[1]s
			OR i.extracted_text ILIKE %[1]s
			OR i.description ILIKE %[1]s
			OR EXISTS (SELECT 1 FROM unnest(i.tags) t WHERE t ILIKE %[1]s))`, p))
	}
	if len(query.Types) > 0 {
		conds = append(conds, "i.document_type = ANY("+arg(pq.StringArray(query.Types))+")")
	}
	if len(query.Departments) > 0 {
		conds = append(conds, "i.department = ANY("+arg(pq.StringArray(query.Departments))+")")
	}
	if len(query.Uploaders) > 0 {
		conds = append(conds, "i.owner_login = ANY("+arg(pq.StringArray(query.Uploaders))+")")
	}
	if len(query.Tags) > 0 {
		conds = append(conds, "i.tags && "+arg(pq.StringArray(query.Tags)))
	}
	if query.CreatedFrom != nil {
		conds = append(conds, "i.created_at >= "+arg(*query.CreatedFrom))
	}
	if query.CreatedTo != nil {
		conds = append(conds, "i.created_at <= "+arg(*query.CreatedTo))
	}
	if query.MinConfidence != nil {
		conds = append(conds, "i.ocr_confidence >= "+arg(*query.MinConfidence))
	}
	if query.Active != nil {
		conds = append(conds, "i.is_active = "+arg(*query.Active))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	baseQuery := `SELECT
			i.document_id AS document_id,
			i.file_name AS file_name,
			i.document_type AS document_type,
			i.department AS department,
			i.owner_id AS owner_id,
			i.owner_login AS owner_login,
			i.description AS description,
			i.tags AS tags,
			i.extracted_text AS extracted_text,
			i.ocr_confidence AS ocr_confidence,
			i.metadata AS metadata,
			i.is_active AS is_active,
			i.created_at AS created_at,
			i.updated_at AS updated_at,
			i.indexed_at AS indexed_at
		FROM document_index i` + where +
		` ORDER BY i.created_at DESC, i.document_id ASC
		LIMIT ` + arg(query.PageSize) + ` OFFSET ` + arg((query.Page-1)*query.PageSize)

	rawRecs := make([]entities.IndexRecord, 0)

	if err := r.db.SelectContext(ctx, &rawRecs, baseQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int64

	countArgs := args[:len(args)-2]
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM document_index i`+where, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	recs := make([]*models.IndexRecord, 0, len(rawRecs))
	for i := range rawRecs {
		rec, err := toModel(&rawRecs[i])
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		recs = append(recs, rec)
	}

	return recs, total, nil
}

// Suggest returns up to limit distinct terms starting with the prefix,
// case-insensitively: file names first, then tag terms. A term present in
// both sources collapses to one row ranked as a file name.
func (r *repository) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	op := pkg + "Suggest"

	terms := make([]string, 0)

	err := r.db.SelectContext(ctx, &terms,
		`SELECT s.term FROM (
			SELECT i.file_name AS term, 0 AS rank
			FROM document_index i
			WHERE i.file_name ILIKE $1 AND i.is_active = TRUE
			UNION
			SELECT t AS term, 1 AS rank
			FROM document_index i, unnest(i.tags) t
			WHERE t ILIKE $1 AND i.is_active = TRUE
		) s
		GROUP BY s.term
		ORDER BY MIN(s.rank) ASC, s.term ASC
		LIMIT $2`,
		prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return terms, nil
}

func (r *repository) Stats(ctx context.Context) (*models.IndexStats, error) {
	op := pkg + "Stats"

	stats := &models.IndexStats{
		ByType:       make(map[string]int64),
		ByDepartment: make(map[string]int64),
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}

	byType := make([]bucket, 0)
	err := r.db.SelectContext(ctx, &byType,
		`SELECT i.document_type AS key, COUNT(*) AS count FROM document_index i GROUP BY i.document_type`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, b := range byType {
		stats.ByType[b.Key] = b.Count
	}

	byDept := make([]bucket, 0)
	err = r.db.SelectContext(ctx, &byDept,
		`SELECT i.department AS key, COUNT(*) AS count FROM document_index i GROUP BY i.department`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, b := range byDept {
		stats.ByDepartment[b.Key] = b.Count
	}

	err = r.db.GetContext(ctx, &stats.Active,
		`SELECT COUNT(*) FROM document_index WHERE is_active = TRUE`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	err = r.db.GetContext(ctx, &stats.Total, `SELECT COUNT(*) FROM document_index`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return stats, nil
}

func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toModel(raw *entities.IndexRecord) (*models.IndexRecord, error) {
	metadata := make(map[string]string)
	if len(raw.Metadata) > 0 {
		if err := json.Unmarshal(raw.Metadata, &metadata); err != nil {
			return nil, err
		}
	}

	return &models.IndexRecord{
		DocumentID:    raw.DocumentID,
		FileName:      raw.FileName,
		DocumentType:  raw.DocumentType,
		Department:    raw.Department,
		OwnerID:       raw.OwnerID,
		OwnerLogin:    raw.OwnerLogin,
		Description:   raw.Description,
		Tags:          raw.Tags,
		ExtractedText: raw.ExtractedText.String,
		OCRConfidence: raw.OCRConfidence.Float64,
		Metadata:      metadata,
		IsActive:      raw.IsActive,
		CreatedAt:     raw.CreatedAt,
		UpdatedAt:     raw.UpdatedAt,
		IndexedAt:     raw.IndexedAt,
	}, nil
}
