package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/nordvik-interiors/ops-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID uuid.UUID
	Name   string
	Email  string
	Role   domain.AdminRole
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts user context or panics
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}

// IsAdmin reports whether the user holds the admin role
func (u *UserContext) IsAdmin() bool {
	return u.Role == domain.RoleAdmin
}

// HasAnyRole checks if the user holds any of the given roles
func (u *UserContext) HasAnyRole(roles ...domain.AdminRole) bool {
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// CanAccessSection reports whether the user may see a section
func (u *UserContext) CanAccessSection(section Section) bool {
	return CanAccessSection(u.Role, section)
}

// Can reports whether the user may perform an action
func (u *UserContext) Can(action Action) bool {
	return Can(u.Role, action)
}
