package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"jobboard/internal/apperr"
)

type ctxKey string

const identityKey ctxKey = "identity"

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// UserLookup resolves the current persisted state of a token's subject.
type UserLookup interface {
	FindByID(ctx context.Context, id uint64) (*User, error)
}

func RequireAuth(jwtSvc *JWT, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			token := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))

			claims, err := jwtSvc.Verify(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			uid, _ := claims.UserID()

			// role is re-read on every request so admin role changes apply immediately
			u, err := users.FindByID(r.Context(), uid)
			switch {
			case apperr.Is(err, apperr.KindNotFound):
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			case err != nil:
				slog.Default().Error("load token subject", slog.Uint64("user_id", uid), slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, apperr.Message(err))
				return
			}

			ctx := WithIdentity(r.Context(), Identity{
				UserID: u.ID,
				Email:  u.Email,
				Name:   u.FullName,
				Role:   u.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !HasRole(id, roles...) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
