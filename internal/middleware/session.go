package middleware

import (
	"net/http"

	"github.com/mundolibro/storefront/internal/domain"
)

// SessionChecker reports whether a shopper is signed in.
type SessionChecker interface {
	Session() (domain.Session, bool)
}

// RequireSession rejects requests with 401 when no shopper is signed
// in. Routes it guards can assume a session exists.
func RequireSession(sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := sessions.Session(); !ok {
				respondWithError(w, &domain.Error{
					Code:    domain.EAUTH,
					Message: "Sign in to continue.",
					Op:      "middleware.RequireSession",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
