package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Actor is the caller identity forwarded by the upstream gateway
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess allows the owner of a resource or an admin
func (a Actor) CanAccess(ownerID uuid.UUID) bool {
	return a.IsAdmin() || a.UserID == ownerID
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userIDVal := ctx.Value(UserIDKey)
	if userIDVal == nil {
		return uuid.Nil, false
	}

	userIDStr, ok := userIDVal.(string)
	if !ok {
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}

	return userID, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	roleVal := ctx.Value(RoleKey)
	if roleVal == nil {
		return "", false
	}

	role, ok := roleVal.(string)
	return role, ok
}

// GetActorFromContext returns the actor set by middleware.Actor
func GetActorFromContext(ctx context.Context) (Actor, bool) {
	userID, ok := GetUserIDFromContext(ctx)
	if !ok {
		return Actor{}, false
	}

	role, _ := GetRoleFromContext(ctx)
	if role == "" {
		role = RoleCustomer
	}

	return Actor{UserID: userID, Role: role}, true
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID.String())
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}
