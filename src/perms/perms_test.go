package perms

import (
	"fmt"
	"testing"

	"github.com/newsdeskhq/newsdesk/src/models"
	"github.com/stretchr/testify/assert"
)

var allRoles = []models.Role{
	models.RoleContributor,
	models.RoleAuthor,
	models.RoleSeniorWriter,
	models.RoleEditor,
	models.RoleAdmin,
	models.RoleSuperAdmin,
}

func TestHasPermission(t *testing.T) {
	t.Run("min only", func(t *testing.T) {
		for _, actor := range allRoles {
			for _, min := range allRoles {
				t.Run(fmt.Sprintf("%s needs %s", actor, min), func(t *testing.T) {
					assert.Equal(t, actor >= min, HasPermission(actor, min))
				})
			}
		}
	})
	t.Run("min and max", func(t *testing.T) {
		assert.True(t, HasPermission(models.RoleEditor, models.RoleAuthor, models.RoleEditor))
		assert.True(t, HasPermission(models.RoleAuthor, models.RoleAuthor, models.RoleEditor))
		assert.False(t, HasPermission(models.RoleAdmin, models.RoleAuthor, models.RoleEditor))
		assert.False(t, HasPermission(models.RoleContributor, models.RoleAuthor, models.RoleEditor))
	})
}

func TestCanGrantRole(t *testing.T) {
	assert.False(t, CanGrantRole(models.RoleEditor, models.RoleAuthor))
	assert.True(t, CanGrantRole(models.RoleAdmin, models.RoleEditor))
	assert.False(t, CanGrantRole(models.RoleAdmin, models.RoleSuperAdmin))
	assert.True(t, CanGrantRole(models.RoleSuperAdmin, models.RoleSuperAdmin))
}

func TestCanAccessRoute(t *testing.T) {
	table := NewsdeskRouteTable()

	t.Run("more specific prefix overrides ancestor", func(t *testing.T) {
		assert.False(t, table.CanAccessRoute(models.RoleEditor, "/admin/settings/security"))
		assert.True(t, table.CanAccessRoute(models.RoleSuperAdmin, "/admin/settings/security"))
		assert.True(t, table.CanAccessRoute(models.RoleEditor, "/admin/desk"))
		assert.True(t, table.CanAccessRoute(models.RoleContributor, "/admin/articles/42/edit"))
	})
	t.Run("general admin prefix", func(t *testing.T) {
		assert.False(t, table.CanAccessRoute(models.RoleSeniorWriter, "/admin"))
		assert.True(t, table.CanAccessRoute(models.RoleEditor, "/admin"))
	})
	t.Run("unmatched paths default to allow", func(t *testing.T) {
		assert.True(t, table.CanAccessRoute(models.RoleContributor, "/profile"))
		assert.True(t, table.CanAccessRoute(models.RoleContributor, "/"))
	})
	t.Run("tie broken by longer prefix string", func(t *testing.T) {
		table := NewRouteTable([]RouteRule{
			{"/a", models.RoleSuperAdmin},
			{"/ab", models.RoleContributor},
		})
		assert.True(t, table.CanAccessRoute(models.RoleContributor, "/abc"))
		assert.False(t, table.CanAccessRoute(models.RoleContributor, "/a/x"))
	})
}
