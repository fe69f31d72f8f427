package auth

// Role identifies one of the three access tiers.
type Role string

// User role constants
const (
	RoleWorker  Role = "worker"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Permission keys gate individual store operations.
type Permission string

const (
	PermViewInventory   Permission = "view_inventory"
	PermManageInventory Permission = "manage_inventory"
	PermCreateSale      Permission = "create_sale"
	PermCancelSale      Permission = "cancel_sale"
	PermViewSales       Permission = "view_sales"
	PermViewCustomers   Permission = "view_customers"
	PermManageCustomers Permission = "manage_customers"
	PermManageRepairs   Permission = "manage_repairs"
	PermViewReports     Permission = "view_reports"
	PermManageUsers     Permission = "manage_users"
	PermViewAuditLogs   Permission = "view_audit_logs"
	PermBackupRestore   Permission = "backup_restore"
	PermApproveSignups  Permission = "approve_registrations"
)

// roleRank orders roles as worker < manager < admin.
var roleRank = map[Role]int{
	RoleWorker:  1,
	RoleManager: 2,
	RoleAdmin:   3,
}

// rolePermissions is the static role -> permission-set table. Each tier
// includes everything below it.
var rolePermissions = map[Role][]Permission{
	RoleWorker: {
		PermViewInventory,
		PermCreateSale,
		PermViewCustomers,
		PermManageCustomers,
		PermManageRepairs,
	},
	RoleManager: {
		PermViewInventory,
		PermManageInventory,
		PermCreateSale,
		PermCancelSale,
		PermViewSales,
		PermViewCustomers,
		PermManageCustomers,
		PermManageRepairs,
		PermViewReports,
	},
	RoleAdmin: {
		PermViewInventory,
		PermManageInventory,
		PermCreateSale,
		PermCancelSale,
		PermViewSales,
		PermViewCustomers,
		PermManageCustomers,
		PermManageRepairs,
		PermViewReports,
		PermManageUsers,
		PermViewAuditLogs,
		PermBackupRestore,
		PermApproveSignups,
	},
}

// ValidRole reports whether s names a known role.
func ValidRole(s string) bool {
	_, ok := roleRank[Role(s)]
	return ok
}

// HasPermission reports whether role ranks at or above required in the
// worker < manager < admin ordering. Unknown roles rank below everything.
func HasPermission(role, required Role) bool {
	return roleRank[role] >= roleRank[required] && roleRank[role] > 0
}

// CanAccess reports whether the role's permission set contains the key.
func CanAccess(role Role, perm Permission) bool {
	for _, p := range rolePermissions[role] {
		if p == perm {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the role's permission set.
func Permissions(role Role) []Permission {
	perms := rolePermissions[role]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}
