package auth

import "strings"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
	RoleAdmin    Role = "admin"
)

var Roles = []Role{RoleEmployee, RoleManager, RoleHR, RoleAdmin}

func RoleNames() []string {
	out := make([]string, len(Roles))
	for i, r := range Roles {
		out[i] = string(r)
	}
	return out
}

func ParseRole(value string) (Role, bool) {
	candidate := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, r := range Roles {
		if r == candidate {
			return r, true
		}
	}
	return "", false
}

// Privileged roles cannot be self-assigned at registration unless allowed by config.
func (r Role) Privileged() bool {
	return r != RoleEmployee
}

// Elevated is true for the organization-wide roles.
func (r Role) Elevated() bool {
	return r == RoleHR || r == RoleAdmin
}
