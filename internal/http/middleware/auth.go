package middlewarex

import (
	"encoding/json"
	"net/http"
	"strings"

	"fashionmart/internal/upstream"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// BearerAuth requires a bearer token and forwards it, with the request id,
// to upstream calls made while serving the request. The token is checked by
// the marketplace API, not here.
func BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauthorized(w, "missing bearer")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" {
			unauthorized(w, "missing bearer")
			return
		}

		ctx := upstream.WithToken(r.Context(), token)
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = upstream.WithRequestID(ctx, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": "unauthorized", "message": msg, "sign_in": true})
}
