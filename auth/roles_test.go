package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("worker"))
	assert.True(t, ValidRole("manager"))
	assert.True(t, ValidRole("admin"))
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole(""))
}

func TestHasPermissionOrdering(t *testing.T) {
	assert.True(t, HasPermission(RoleAdmin, RoleManager))
	assert.True(t, HasPermission(RoleManager, RoleWorker))
	assert.True(t, HasPermission(RoleWorker, RoleWorker))
	assert.False(t, HasPermission(RoleWorker, RoleManager))
	assert.False(t, HasPermission(RoleManager, RoleAdmin))
	// Unknown roles rank below every real role.
	assert.False(t, HasPermission(Role("ghost"), RoleWorker))
}

func TestPermissionSetsAreCumulative(t *testing.T) {
	// Everything a worker can do, a manager and an admin can do too.
	for _, perm := range Permissions(RoleWorker) {
		assert.True(t, CanAccess(RoleManager, perm), "manager missing %s", perm)
		assert.True(t, CanAccess(RoleAdmin, perm), "admin missing %s", perm)
	}
	for _, perm := range Permissions(RoleManager) {
		assert.True(t, CanAccess(RoleAdmin, perm), "admin missing %s", perm)
	}
}

func TestCanAccessBoundaries(t *testing.T) {
	assert.True(t, CanAccess(RoleWorker, PermCreateSale))
	assert.False(t, CanAccess(RoleWorker, PermManageInventory))
	assert.False(t, CanAccess(RoleWorker, PermCancelSale))

	assert.True(t, CanAccess(RoleManager, PermManageInventory))
	assert.True(t, CanAccess(RoleManager, PermViewReports))
	assert.False(t, CanAccess(RoleManager, PermManageUsers))
	assert.False(t, CanAccess(RoleManager, PermBackupRestore))

	assert.True(t, CanAccess(RoleAdmin, PermManageUsers))
	assert.True(t, CanAccess(RoleAdmin, PermApproveSignups))

	assert.False(t, CanAccess(Role("ghost"), PermViewInventory))
}
