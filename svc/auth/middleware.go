package auth

import (
	"net/http"

	"github.com/tutorlyhq/tutorly/core"
	"github.com/tutorlyhq/tutorly/pkg/jwt"
)

// RequireUser returns middleware that authenticates requests via a bearer
// token and stores the live user in the request context. The user is loaded
// on every request so a deleted account is locked out immediately even while
// its token is still unexpired. Every failure is a plain 401.
func RequireUser(svc *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := jwt.BearerTokenExtractor(r)
			if err != nil {
				core.Error(w, core.ErrUnauthorized.WithMessage("authentication required"))
				return
			}

			user, err := svc.ResolveUser(r.Context(), token)
			if err != nil {
				core.Error(w, core.ErrUnauthorized.WithMessage("authentication required"))
				return
			}

			ctx := jwt.SetToken(r.Context(), token)
			ctx = SetUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
