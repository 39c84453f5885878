package session

import "context"

const pkg = "sessionHandler/"

type AuthService interface {
	Login(ctx context.Context, login string, password string) (string, error)
	Logout(ctx context.Context, token string) error
}
