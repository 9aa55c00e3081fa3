package models

// Role is the closed set of caller roles. There is no hierarchy: an admin is
// not implicitly a user for ownership checks — those compare the caller's ID
// to the resource owner regardless of role.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}
