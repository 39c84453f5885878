package user

import "context"

const pkg = "userHandler/"

type AuthService interface {
	Register(ctx context.Context, login, password, department string, isAdmin bool, token string) (string, error)
}
