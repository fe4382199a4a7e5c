package httpapi

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending/lending/core"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// caller is the identity the gateway vouches for.
type caller struct {
	UserID uuid.UUID
	Role   core.Role
}

type callerHandler func(http.ResponseWriter, *http.Request, caller)

func (s *Server) identified(next callerHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, ok := callerFrom(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthenticated, "missing or invalid identity headers")
			return
		}

		next(w, r, c)
	})
}

func (s *Server) adminOnly(next callerHandler) http.Handler {
	return s.withRole(next, core.RoleAdmin)
}

// withRole lets callers with one of the roles through and answers 403 to everybody else.
func (s *Server) withRole(next callerHandler, roles ...core.Role) http.Handler {
	return s.identified(func(w http.ResponseWriter, r *http.Request, c caller) {
		if !slices.Contains(roles, c.Role) {
			s.logger.WarnContext(r.Context(), LogMsgForbidden,
				LogAttrUserID, c.UserID.String(),
				LogAttrRole, c.Role.String(),
				LogAttrPath, r.URL.Path,
			)
			writeError(w, http.StatusForbidden, codeForbidden, roleNames(roles)+" role required")

			return
		}

		next(w, r, c)
	})
}

func roleNames(roles []core.Role) string {
	names := make([]string, 0, len(roles))
	for _, role := range roles {
		names = append(names, role.String())
	}

	return strings.Join(names, " or ")
}

func callerFrom(r *http.Request) (caller, bool) {
	userID, err := uuid.Parse(strings.TrimSpace(r.Header.Get(HeaderUserID)))
	if err != nil || userID == uuid.Nil {
		return caller{}, false
	}

	role, err := core.ParseRole(r.Header.Get(HeaderUserRole))
	if err != nil {
		return caller{}, false
	}

	return caller{UserID: userID, Role: role}, true
}
