// Package common holds small cross-cutting types shared by domain packages
// and the HTTP layer.
package common

import (
	"github.com/google/uuid"
)

// ID is a string alias for UUID v4.
type ID = string

// NewID generates a fresh UUID v4 string.
func NewID() ID {
	return uuid.NewString()
}

// Role identifies the caller's position in the platform.  Roles are asserted
// by the upstream auth service and carried in the bearer token.
type Role string

const (
	RoleWorker       Role = "worker"
	RoleLegalOfficer Role = "legal_officer"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleWorker, RoleLegalOfficer, RoleAdmin:
		return true
	}
	return false
}

// Pagination defines parameters for paginated list requests.
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total,omitempty"`
}

// Offset returns the row offset for the current page.
func (p Pagination) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Normalize maps arbitrary input to a valid sort order, defaulting to
// descending (newest first) which every list endpoint uses.
func (s SortOrder) Normalize() SortOrder {
	if s == SortAsc {
		return SortAsc
	}
	return SortDesc
}

// Actor identifies the authenticated caller of a domain operation.
type Actor struct {
	ID    string
	Role  Role
	Email string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// IsOfficer reports whether the actor carries the legal_officer role.
func (a Actor) IsOfficer() bool { return a.Role == RoleLegalOfficer }
