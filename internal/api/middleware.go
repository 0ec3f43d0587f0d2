package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"hygio/internal/auth"
	"hygio/internal/models"
)

type ctxKey string

const identityKey ctxKey = "identity"

// BearerAuth: Authorization: Bearer <jwt>. Принципал кладётся
// в контекст запроса; дальше все решения принимает движок.
func BearerAuth(secret []byte) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const p = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, p) {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token", nil)
				return
			}
			id, err := auth.VerifyToken(secret, strings.TrimPrefix(header, p))
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFrom(r *http.Request) auth.Identity {
	id, _ := r.Context().Value(identityKey).(auth.Identity)
	return id
}

// targetSiret — явный арендатор из запроса (нужен super_admin-у).
func targetSiret(r *http.Request) string {
	return r.URL.Query().Get("siret")
}
