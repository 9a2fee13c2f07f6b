// Package entity contains the core business objects of the project.
package entity

import "slices"

// Role represents the type of role an account can have in the system.
type Role string

const (
	// RoleMember indicates a regular community member.
	RoleMember Role = "member"
	// RoleAdmin indicates an administrator.
	RoleAdmin Role = "admin"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	default:
		return false
	}
}

// Roles is a slice of Role for convenience.
type Roles []Role

// Contains checks if the roles slice contains a specific role.
func (rs Roles) Contains(role Role) bool {
	return slices.Contains(rs, role)
}

// Intersects reports whether any of the required roles is present.
func (rs Roles) Intersects(required Roles) bool {
	for _, r := range required {
		if rs.Contains(r) {
			return true
		}
	}

	return false
}

// Primary returns the first role, or member when the slice is empty.
// Stored records keep a single role; the list shape only survives from
// older revisions.
func (rs Roles) Primary() Role {
	if len(rs) == 0 {
		return RoleMember
	}

	return rs[0]
}

// ToStrings converts Roles to []string.
func (rs Roles) ToStrings() []string {
	result := make([]string, len(rs))
	for i, r := range rs {
		result[i] = r.String()
	}

	return result
}

// NormalizeRoles converts a stored role value to Roles. Records written by
// older revisions hold either a single string or a list of strings, so both
// shapes must be accepted. Unknown or empty values default to member.
func NormalizeRoles(value any) Roles {
	switch v := value.(type) {
	case string:
		if v == "" {
			return Roles{RoleMember}
		}

		return Roles{Role(v)}
	case []string:
		return rolesFromStrings(v)
	case []any:
		ss := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				ss = append(ss, s)
			}
		}

		return rolesFromStrings(ss)
	case Role:
		return Roles{v}
	case Roles:
		if len(v) == 0 {
			return Roles{RoleMember}
		}

		return v
	default:
		return Roles{RoleMember}
	}
}

func rolesFromStrings(ss []string) Roles {
	result := make(Roles, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			result = append(result, Role(s))
		}
	}
	if len(result) == 0 {
		return Roles{RoleMember}
	}

	return result
}
