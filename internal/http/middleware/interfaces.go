package middleware

import (
	"context"

	"docvault/internal/models"
)

const pkg = "middleware/"

type UserResolver interface {
	UserByToken(ctx context.Context, token string) (*models.User, error)
}
