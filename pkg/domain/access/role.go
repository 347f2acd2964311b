// Package access holds users, their roles and the single policy that
// decides who may see, edit and delete records.
package access

import (
	"fmt"
	"strings"
)

// Role defines the access level of a user.
type Role string

const (
	RoleSysAdmin Role = "sys_admin"
	RolePMAdmin  Role = "pm_admin"
	RoleWorker   Role = "worker"
	RoleViewer   Role = "viewer"
)

// ValidRoles returns all valid role values.
func ValidRoles() []Role {
	return []Role{RoleSysAdmin, RolePMAdmin, RoleWorker, RoleViewer}
}

// IsValid checks if the role is a recognized value.
func (r Role) IsValid() bool {
	switch r {
	case RoleSysAdmin, RolePMAdmin, RoleWorker, RoleViewer:
		return true
	}
	return false
}

// IsAdmin reports whether the role sees every project.
func (r Role) IsAdmin() bool {
	return r == RoleSysAdmin || r == RolePMAdmin
}

// CanManagePayments returns true if the role may create and edit payments.
func (r Role) CanManagePayments() bool {
	return r.IsAdmin()
}

// CanManageMeetings returns true if the role may schedule and edit meetings.
func (r Role) CanManageMeetings() bool {
	return r.IsAdmin()
}

// CanManageUsers returns true if the role may create and edit users.
func (r Role) CanManageUsers() bool {
	return r.IsAdmin()
}

// CanDeleteUsers returns true if the role may delete users.
func (r Role) CanDeleteUsers() bool {
	return r == RoleSysAdmin
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// NormalizeRole maps stored role strings onto a Role. Unknown values get
// the least privileged role.
func NormalizeRole(s string) Role {
	if r, err := ParseRole(s); err == nil {
		return r
	}
	return RoleViewer
}
