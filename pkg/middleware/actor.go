package middleware

import (
	"net/http"
	"strings"

	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	UserIDHeader = "X-User-ID"
	RoleHeader   = "X-User-Role"
)

// Actor reads the caller identity forwarded by the upstream gateway
func Actor(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := strings.TrimSpace(r.Header.Get(UserIDHeader))
			if rawID == "" {
				utils.ResponseUnauthorized(w, "Missing "+UserIDHeader+" header")
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn("Invalid actor header", zap.String("user_id", rawID))
				utils.ResponseUnauthorized(w, "Invalid "+UserIDHeader+" header")
				return
			}

			role := strings.ToLower(strings.TrimSpace(r.Header.Get(RoleHeader)))
			if role != utils.RoleAdmin {
				role = utils.RoleCustomer
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin - middleware cek role admin, must run after Actor
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := utils.GetActorFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !actor.IsAdmin() {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", actor.UserID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
