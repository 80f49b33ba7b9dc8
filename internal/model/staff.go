package model

import "github.com/google/uuid"

// Role is the closed set of staff roles. The single place roles are
// resolved into a visibility set is the access service.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// SeesAll reports whether the role grants visibility over every
// service user. STAFF visibility is limited to assignments.
func (r Role) SeesAll() bool {
	return r == RoleAdmin || r == RoleManager
}

// StaffProfile links an authenticated identity to care duties. The
// assigned set is meaningful only for the STAFF role.
type StaffProfile struct {
	Base
	UserID               uuid.UUID   `db:"user_id" json:"user_id"`
	Email                string      `db:"email" json:"email"`
	Role                 Role        `db:"role" json:"role"`
	AssignedServiceUsers []uuid.UUID `db:"-" json:"assigned_service_users"`
}

type CreateStaffProfileRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	Email  string `json:"email" binding:"required,email"`
	Role   string `json:"role" binding:"required"`
}

type AssignServiceUsersRequest struct {
	ServiceUserIDs []string `json:"service_user_ids" binding:"required"`
}
