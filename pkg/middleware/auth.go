package middleware

import (
	"context"
	"net/http"
	"parking/pkg/logger"
	"slices"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Identity headers are set by the upstream gateway after it has authenticated
// the caller. This service trusts them as-is.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Identity struct {
	UserID string
	Role   Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

const identityKey contextKey = "identity"

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// RequireRole gates a route on the caller's role. A missing identity is 401,
// a role outside allowed is 403.
func RequireRole(log *logger.Logger, next httprouter.Handle, allowed ...Role) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
		role := Role(strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderUserRole))))

		if userID == "" || role == "" {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		if !slices.Contains(allowed, role) {
			log.Warn("Access denied",
				"request_id", RequestID(r.Context()),
				"user_id", userID,
				"role", role,
				"path", r.URL.Path,
			)
			writeJSONError(w, http.StatusForbidden, "Insufficient permissions")
			return
		}

		ctx := WithIdentity(r.Context(), Identity{UserID: userID, Role: role})
		next(w, r.WithContext(ctx), ps)
	}
}
