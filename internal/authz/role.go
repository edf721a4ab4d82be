package authz

// Role is the access role attached to a user record. Roles are flat: there is
// no hierarchy or inheritance, an operation admits exactly the roles listed in
// its policy and nothing else.
type Role string

const (
	// RoleSuperAdmin is the platform operator role. Super admins are not bound
	// to any tenant.
	RoleSuperAdmin Role = "super_admin"

	// Company level roles.
	RoleCEO   Role = "ceo"
	RoleAdmin Role = "admin"

	// Staff roles.
	RoleManager    Role = "manager"
	RoleSales      Role = "sales"
	RoleEmployee   Role = "employee"
	RoleTelecaller Role = "telecaller"
	RoleHR         Role = "hr"
	RoleAccounts   Role = "accounts"
	RoleMarketing  Role = "marketing"
)

var allRoles = map[Role]struct{}{
	RoleSuperAdmin: {},
	RoleCEO:        {},
	RoleAdmin:      {},
	RoleManager:    {},
	RoleSales:      {},
	RoleEmployee:   {},
	RoleTelecaller: {},
	RoleHR:         {},
	RoleAccounts:   {},
	RoleMarketing:  {},
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := allRoles[r]
	return ok
}

func (r Role) String() string {
	return string(r)
}
