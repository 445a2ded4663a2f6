package domain

type Role string

const (
	// Anonymous is an actor-only role; it is never stored on an account.
	RoleAnonymous Role = "anonymous"
	// User is a regular authenticated account holder.
	RoleUser Role = "user"
	// Manager can manage professional status and lock/unlock accounts.
	RoleManager Role = "manager"
	// Admin can additionally assign roles and force-delete other accounts.
	RoleAdmin Role = "admin"
)

// IsValidRole reports whether r may be stored on an account.
// Anonymous is intentionally excluded: it only identifies unauthenticated actors.
func IsValidRole(r string) bool {
	return r == string(RoleUser) || r == string(RoleManager) || r == string(RoleAdmin)
}

// RoleRank: bigger => higher privilege
func RoleRank(r string) int {
	switch r {
	case string(RoleAnonymous):
		return 1
	case string(RoleUser):
		return 2
	case string(RoleManager):
		return 3
	case string(RoleAdmin):
		return 4
	default:
		return 0
	}
}
