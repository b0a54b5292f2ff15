package domain

import "github.com/google/uuid"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleVoter Role = "voter"
)

// Identity is the authenticated principal resolved by the identity
// provider. The role is authoritative; core operations trust it as-is.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
