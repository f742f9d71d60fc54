// Package models defines the data shapes shared across services and handlers.
package models

import "github.com/google/uuid"

// Role is a faculty portal role as stored in profiles.role.
type Role string

const (
	RoleFaculty Role = "FACULTY"
	RoleAdmin   Role = "ADMIN"
)

// Valid reports whether the role is one of the known portal roles.
func (r Role) Valid() bool {
	return r == RoleFaculty || r == RoleAdmin
}

// Profile is the verified caller identity used for access control.
// It is loaded server-side from the profiles table after token verification
// and must never be populated from client-supplied body fields.
type Profile struct {
	ID         uuid.UUID `json:"id"`
	FullName   string    `json:"full_name,omitempty"`
	Role       Role      `json:"role"`
	Department string    `json:"department"`
}
