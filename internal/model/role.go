package model

import "encoding/json"

// Role is a capability label granted by the existence of a profile row.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool { return r == RoleClient || r == RoleProvider }

// RoleSet is an ordered, duplicate-free set of roles.  Roles are additive:
// a user may hold none, one or both.  The order is always client, provider.
type RoleSet []Role

// NewRoleSet normalizes roles into canonical order, dropping unknown and
// duplicate values.
func NewRoleSet(roles ...Role) RoleSet {
	var hasClient, hasProvider bool
	for _, r := range roles {
		switch r {
		case RoleClient:
			hasClient = true
		case RoleProvider:
			hasProvider = true
		}
	}
	set := RoleSet{}
	if hasClient {
		set = append(set, RoleClient)
	}
	if hasProvider {
		set = append(set, RoleProvider)
	}
	return set
}

// ParseRoleSet builds a RoleSet from token claim strings.
func ParseRoleSet(names []string) RoleSet {
	roles := make([]Role, 0, len(names))
	for _, n := range names {
		roles = append(roles, Role(n))
	}
	return NewRoleSet(roles...)
}

func (s RoleSet) Has(r Role) bool {
	for _, x := range s {
		if x == r {
			return true
		}
	}
	return false
}

func (s RoleSet) Empty() bool { return len(s) == 0 }

// Strings returns the roles as plain strings for token claims.
func (s RoleSet) Strings() []string {
	out := make([]string, len(s))
	for i, r := range s {
		out[i] = string(r)
	}
	return out
}

// MarshalJSON renders an empty set as [] rather than null.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}
