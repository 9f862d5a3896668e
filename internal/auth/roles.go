package auth

// Admin role constants.
const (
	RoleViewer = "viewer"
	RoleAdmin  = "admin"
)

// AllAdminRoles returns all valid admin roles.
func AllAdminRoles() []string {
	return []string{RoleViewer, RoleAdmin}
}

// WriteRoles returns roles that can modify data.
func WriteRoles() []string {
	return []string{RoleAdmin}
}
