package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Anoopsmohan/monstor-tickets/pkg/domain/model/auth"
	"github.com/Anoopsmohan/monstor-tickets/pkg/usecase"
)

type AuthUseCase = usecase.AuthUseCaseInterface

const sessionCookieName = "monstor_session"

// sessionToken reads the token from the Authorization header or, failing
// that, from the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// loginRedirect builds the login URL that returns to the current request
func loginRedirect(loginURL string, r *http.Request) string {
	u, err := url.Parse(loginURL)
	if err != nil {
		return DefaultLoginURL
	}
	q := u.Query()
	q.Set(nextParam, r.URL.RequestURI())
	u.RawQuery = q.Encode()
	return u.String()
}

// authMiddleware resolves the user of a request. Requests without a valid
// session are redirected to the login flow in both response modes.
func authMiddleware(authUC AuthUseCase, loginURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := authUC.ValidateToken(r.Context(), sessionToken(r))
			if err != nil {
				http.Redirect(w, r, loginRedirect(loginURL, r), http.StatusSeeOther)
				return
			}

			ctx := auth.ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
