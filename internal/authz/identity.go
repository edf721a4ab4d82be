package authz

import "fmt"

// Identity is the acting principal resolved for a request. Role and TenantID
// always come from the current user record, never from token claims, so that
// demoting a user or suspending a tenant takes effect on the next request.
//
// A nil TenantID denotes a platform identity that administers all tenants.
type Identity struct {
	UserID   string
	Role     Role
	TenantID *string
}

// IsPlatform reports whether the identity is platform level, i.e. not bound to
// any tenant.
func (id Identity) IsPlatform() bool {
	return id.TenantID == nil
}

// String returns a representation suitable for audit logs.
func (id Identity) String() string {
	if id.TenantID == nil {
		return fmt.Sprintf("user:%s role:%s tenant:-", id.UserID, id.Role)
	}

	return fmt.Sprintf("user:%s role:%s tenant:%s", id.UserID, id.Role, *id.TenantID)
}
