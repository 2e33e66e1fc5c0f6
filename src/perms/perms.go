/*
Package perms computes permission decisions from the role hierarchy. It holds
no state of its own; route tables are built once at startup and passed in
explicitly.
*/
package perms

import (
	"github.com/newsdeskhq/newsdesk/src/models"
)

// Reports whether an actor's role falls within [min, max]. Omitting max means
// there is no upper bound. Checks like "editors and up" are HasPermission(r,
// RoleEditor); "admins only, not super admins" is HasPermission(r, RoleAdmin,
// RoleAdmin).
func HasPermission(actor models.Role, min models.Role, max ...models.Role) bool {
	if actor < min {
		return false
	}
	if len(max) > 0 && actor > max[0] {
		return false
	}
	return true
}

// Role changes are themselves permission-gated: only admins may change roles
// at all, and only a super admin may grant super admin.
func CanGrantRole(actor models.Role, granted models.Role) bool {
	if !HasPermission(actor, models.RoleAdmin) {
		return false
	}
	if granted == models.RoleSuperAdmin && actor != models.RoleSuperAdmin {
		return false
	}
	return true
}
