// Package policy holds the request actor and the role rules applied to it.
package policy

import (
	"go-kasir-api/internal/model"
	"go-kasir-api/pkg/apperror"

	"github.com/google/uuid"
)

// Actor is the authenticated caller. Every tenant-scoped operation receives
// one and filters by StoreID.
type Actor struct {
	UserID  uuid.UUID
	Email   string
	Role    model.Role
	StoreID uuid.UUID
}

func (a Actor) IsOwner() bool {
	return a.Role == model.RoleOwner
}

// Valid reports whether the actor carries both a user and a store.
func (a Actor) Valid() bool {
	return a.UserID != uuid.Nil && a.StoreID != uuid.Nil
}

// RequireRole returns a FORBIDDEN error unless the actor holds one of roles.
func RequireRole(a Actor, roles ...model.Role) error {
	if !a.Valid() {
		return apperror.Unauthorized("authentication required")
	}
	for _, role := range roles {
		if a.Role == role {
			return nil
		}
	}
	return apperror.Forbidden("insufficient permissions")
}

// RequireOwner is RequireRole(a, model.RoleOwner).
func RequireOwner(a Actor) error {
	return RequireRole(a, model.RoleOwner)
}
