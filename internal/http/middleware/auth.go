package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"docvault/internal/models"
	utils "docvault/internal/utils/http_errors"
)

// Auth resolves the bearer token to a user and stores it on the request
// context. The token is accepted from the Authorization header or, for
// download links, the token query parameter.
func Auth(log *slog.Logger, resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log := log.With(slog.String("op", op))

			token := bearerToken(r)
			if token == "" {
				utils.WriteJSONError(w, http.StatusForbidden, utils.KindPermission, "missing token")
				return
			}

			requester, err := resolver.UserByToken(r.Context(), token)
			if err != nil {
				log.Warn("failed to resolve token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusForbidden, utils.KindPermission, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly rejects non-admin requesters. Must run inside Auth.
func AdminOnly(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requester := RequesterFromContext(r.Context())
			if requester == nil || !requester.IsAdmin {
				utils.WriteJSONError(w, http.StatusForbidden, utils.KindPermission, models.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequesterFromContext returns the authenticated user set by Auth, or nil.
func RequesterFromContext(ctx context.Context) *models.User {
	requester, _ := ctx.Value(models.UserContextKey).(*models.User)
	return requester
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	return r.URL.Query().Get("token")
}
