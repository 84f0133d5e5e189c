package delivery

import (
	"net/http"

	"github.com/Vovarama1992/scribe/internal/ports"
)

func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// no secret configured: everything is public
			if !auth.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			// login stays public
			if r.URL.Path == "/api/login" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-Auth")
			if token == "" {
				writeError(w, http.StatusUnauthorized, "missing token")
				return
			}

			ok, _ := auth.ValidateToken(r.Context(), token)
			if !ok {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
