package models

import (
	"time"
)

type Role int

// Roles form a strict hierarchy; every permission check is a comparison of
// these levels.
const (
	RoleContributor  Role = 1
	RoleAuthor       Role = 2
	RoleSeniorWriter Role = 3
	RoleEditor       Role = 4
	RoleAdmin        Role = 5
	RoleSuperAdmin   Role = 6
)

var RoleNames = map[Role]string{
	RoleContributor:  "contributor",
	RoleAuthor:       "author",
	RoleSeniorWriter: "senior_writer",
	RoleEditor:       "editor",
	RoleAdmin:        "admin",
	RoleSuperAdmin:   "super_admin",
}

func (r Role) String() string {
	if name, ok := RoleNames[r]; ok {
		return name
	}
	return "unknown"
}

func (r Role) Valid() bool {
	_, ok := RoleNames[r]
	return ok
}

func ParseRole(name string) (Role, bool) {
	for role, roleName := range RoleNames {
		if roleName == name {
			return role, true
		}
	}
	return 0, false
}

type Account struct {
	ID int `db:"id"`

	Username string `db:"username"`
	Name     string `db:"name"`
	Email    string `db:"email"`
	Role     Role   `db:"role"`

	// Accounts that own authored content are never hard-deleted.
	Deleted bool `db:"deleted"`

	DateJoined time.Time `db:"date_joined"`
}

func (a *Account) BestName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Username
}

// Trusted authors can skip review entirely for categories that allow it.
func (a *Account) IsTrusted() bool {
	return a.Role >= RoleSeniorWriter
}
