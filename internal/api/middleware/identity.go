package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/lsandoval/mnemo/internal/api/shared"
	"github.com/lsandoval/mnemo/internal/platform/logger"
)

// UserIDHeader carries the caller identity, established by the fronting
// gateway. The engine itself does not authenticate; it only scopes data to
// the identified user.
const UserIDHeader = "X-User-ID"

// IdentityMiddleware extracts the user ID from the identity header and
// stores it in the request context. Requests without a valid user ID are
// rejected before reaching a handler.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(UserIDHeader)
		if raw == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "User identity is required")
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			log := logger.FromContextOrDefault(r.Context(), nil)
			log.Warn("invalid user ID header")
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid user identity")
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
