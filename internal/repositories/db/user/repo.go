package userrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"docvault/internal/entities"
	"docvault/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pkg = "userRepo/"

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *repository {
	return &repository{db: db}
}

func (r *repository) AddUser(ctx context.Context, user models.User) error {
	op := pkg + "AddUser"

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, login, pass_hash, department, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.Login, user.PassHash, user.Department, user.IsAdmin, user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	op := pkg + "UserByID"

	return r.user(ctx, op, `WHERE u.id = $1`, id)
}

func (r *repository) UserByLogin(ctx context.Context, login string) (*models.User, error) {
	op := pkg + "UserByLogin"

	return r.user(ctx, op, `WHERE u.login = $1`, login)
}

func (r *repository) user(ctx context.Context, op string, where string, arg any) (*models.User, error) {
	raw := entities.User{}

	err := r.db.GetContext(ctx, &raw,
		`SELECT
			u.id AS id,
			u.login AS login,
			u.pass_hash AS pass_hash,
			u.department AS department,
			u.is_admin AS is_admin,
			u.created_at AS created_at
		FROM users u `+where,
		arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.User{
		ID:         raw.ID,
		Login:      raw.Login,
		PassHash:   raw.PassHash,
		Department: raw.Department,
		IsAdmin:    raw.IsAdmin,
		CreatedAt:  raw.CreatedAt,
	}, nil
}
