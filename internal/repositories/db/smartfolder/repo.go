package smartfolderrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
)

const pkg = "smartFolderRepo/"

const folderColumns = `
			f.id AS id,
			f.owner_id AS owner_id,
			u.login AS owner_login,
			u.department AS owner_department,
			f.name AS name,
			f.definition AS definition,
			f.scope AS scope,
			f.is_active AS is_active,
			f.created_at AS created_at,
			f.updated_at AS updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, folder *models.SmartFolder) error {
	op := pkg + "Create"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO smart_folders (id, owner_id, name, definition, scope, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		folder.ID, folder.OwnerID, folder.Name, folder.Definition, string(folder.Scope),
		folder.IsActive, folder.CreatedAt, folder.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) FolderByID(ctx context.Context, id string) (*models.SmartFolder, error) {
	op := pkg + "FolderByID"

	raw := entities.SmartFolder{}

	err := r.db.GetContext(ctx, &raw,
		`SELECT`+folderColumns+`
			FROM smart_folders f
			INNER JOIN users u ON f.owner_id = u.id
			WHERE f.id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrFolderNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return toModel(&raw), nil
}

// ListVisible returns folders the user may at least see listed: their own,
// department-scoped folders of their department, and shared active folders.
func (r *repository) ListVisible(ctx context.Context, userID string, department string, isAdmin bool) ([]*models.SmartFolder, error) {
	op := pkg + "ListVisible"

	rawFolders := make([]entities.SmartFolder, 0)

	query := `SELECT` + folderColumns + `
			FROM smart_folders f
			INNER JOIN users u ON f.owner_id = u.id`

	var err error

	if isAdmin {
		err = r.db.SelectContext(ctx, &rawFolders, query+` ORDER BY f.name ASC`)
	} else {
		err = r.db.SelectContext(ctx, &rawFolders,
			query+`
			WHERE f.owner_id = $1
				OR (f.scope = 'DEPARTMENT' AND u.department = $2 AND f.is_active = TRUE)
				OR (f.scope = 'SHARED' AND f.is_active = TRUE)
			ORDER BY f.name ASC`,
			userID, department)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	folders := make([]*models.SmartFolder, 0, len(rawFolders))
	for i := range rawFolders {
		folders = append(folders, toModel(&rawFolders[i]))
	}

	return folders, nil
}

func (r *repository) Update(ctx context.Context, id string, name string, definition string, isActive bool) error {
	op := pkg + "Update"

	res, err := r.db.ExecContext(ctx,
		`UPDATE smart_folders
		SET name = $2, definition = $3, is_active = $4, updated_at = $5
		WHERE id = $1`,
		id, name, definition, isActive, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func (r *repository) SetScope(ctx context.Context, id string, scope models.FolderScope) error {
	op := pkg + "SetScope"

	res, err := r.db.ExecContext(ctx,
		`UPDATE smart_folders SET scope = $2, updated_at = $3 WHERE id = $1`,
		id, string(scope), time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

// Deactivate soft-disables a folder. Folders are never hard-deleted while
// referenced; the evaluation cache holds only their id.
func (r *repository) Deactivate(ctx context.Context, id string) error {
	op := pkg + "Deactivate"

	res, err := r.db.ExecContext(ctx,
		`UPDATE smart_folders SET is_active = FALSE, updated_at = $2 WHERE id = $1`,
		id, time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return checkAffected(op, res)
}

func checkAffected(op string, res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrFolderNotFound)
	}
	return nil
}

func toModel(raw *entities.SmartFolder) *models.SmartFolder {
	return &models.SmartFolder{
		ID:         raw.ID,
		OwnerID:    raw.OwnerID,
		OwnerLogin: raw.OwnerLogin,
		OwnerDept:  raw.OwnerDept,
		Name:       raw.Name,
		Definition: raw.Definition,
		Scope:      models.FolderScope(raw.Scope),
		IsActive:   raw.IsActive,
		CreatedAt:  raw.CreatedAt,
		UpdatedAt:  raw.UpdatedAt,
	}
}
