package types

import (
	"github.com/google/uuid"

	"github.com/kardzapp/kardz-backend/pkg/enums"
)

// Actor is the authenticated identity a request acts as. It is resolved once
// by the identity middleware and passed explicitly to the domain services.
type Actor struct {
	ID    uuid.UUID
	Email string
	Role  enums.UserRole
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// CanManage reports whether the actor can perform catalog management
// operations (managers and admins).
func (a Actor) CanManage() bool {
	return a.Role == enums.UserRoleManager || a.Role == enums.UserRoleAdmin
}
