package entity

// Role represents the authorization level of a user account.
type Role string

const (
	// RoleClient is a storefront customer booking tours.
	RoleClient Role = "client"
	// RoleAdmin is a back-office operator managing tours, bookings and reviews.
	RoleAdmin Role = "admin"
	// RoleSuperAdmin additionally manages admin accounts themselves.
	RoleSuperAdmin Role = "superadmin"
)

// Valid reports whether the role is one of the known enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}
