package perms

import (
	"sort"
	"strings"

	"github.com/newsdeskhq/newsdesk/src/models"
)

type RouteRule struct {
	Prefix  string
	MinRole models.Role
}

// A RouteTable maps path prefixes to the minimum role required to see them.
// It is immutable after construction; build it once at startup and pass it
// wherever route checks happen.
type RouteTable struct {
	rules []RouteRule
}

func NewRouteTable(rules []RouteRule) *RouteTable {
	sorted := make([]RouteRule, len(rules))
	copy(sorted, rules)
	// Longest prefix first so lookup can take the first match.
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &RouteTable{rules: sorted}
}

/*
Resolves a path against the table, selecting the longest matching prefix so
that a more specific rule always overrides a more general ancestor rule.

Paths with no matching rule are allowed. That default-allow is preserved from
the observed behavior of the original admin panel; see DESIGN.md for the open
question on whether it should become default-deny.
*/
func (t *RouteTable) CanAccessRoute(actor models.Role, path string) bool {
	for _, rule := range t.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return HasPermission(actor, rule.MinRole)
		}
	}
	return true
}

// The route table for the newsdesk admin panel itself.
func NewsdeskRouteTable() *RouteTable {
	return NewRouteTable([]RouteRule{
		{"/admin", models.RoleEditor},
		{"/admin/desk", models.RoleEditor},
		{"/admin/articles", models.RoleContributor},
		{"/admin/categories", models.RoleAdmin},
		{"/admin/users", models.RoleAdmin},
		{"/admin/rules", models.RoleAdmin},
		{"/admin/assignments", models.RoleAdmin},
		{"/admin/settings", models.RoleAdmin},
		{"/admin/settings/security", models.RoleSuperAdmin},
	})
}
