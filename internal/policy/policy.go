// Package policy maps roles to the capabilities the HTTP layer checks.
package policy

import "officehub-backend/internal/model"

type Capability string

const (
	ViewAllAttendance Capability = "attendance:view_all"
	EditAttendance    Capability = "attendance:edit"
	DeleteAttendance  Capability = "attendance:delete"
	ManageUsers       Capability = "users:manage"
	ResetSessions     Capability = "sessions:reset"
)

var grants = map[model.Role][]Capability{
	model.RoleOwner: {
		ViewAllAttendance, EditAttendance, DeleteAttendance, ManageUsers, ResetSessions,
	},
	model.RoleManager: {
		ViewAllAttendance, EditAttendance,
	},
}

func Allows(role model.Role, capability Capability) bool {
	for _, granted := range grants[role] {
		if granted == capability {
			return true
		}
	}
	return false
}

// IsAdmin is the owner tier: every capability.
func IsAdmin(role model.Role) bool {
	return role == model.RoleOwner
}
