package session

// Role is the access level carried in the access token's role claim
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
)

// Roles lists every valid role
var Roles = []Role{RoleCustomer, RoleSeller}

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleSeller:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
