package tenancy

import (
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
)

// TenantFilter is the scoping predicate derived from an identity. It has two
// variants: Unrestricted for platform identities and RestrictedTo(tenantID)
// for everyone else. Every tenant-scoped query must be composed with exactly
// one TenantFilter; Apply is the single composition point.
type TenantFilter struct {
	tenantID *string
}

// Unrestricted is the filter for platform identities. It matches all tenants.
var Unrestricted = TenantFilter{}

// RestrictedTo builds a filter confined to a single tenant.
func RestrictedTo(tenantID string) TenantFilter {
	return TenantFilter{tenantID: &tenantID}
}

// Scope derives the tenant filter from an identity. Pure, no failure mode:
// identities without a tenant administer all tenants, everyone else is
// confined to exactly one tenant regardless of role.
func Scope(identity authz.Identity) TenantFilter {
	if identity.TenantID == nil {
		return Unrestricted
	}

	return RestrictedTo(*identity.TenantID)
}

// Restricted reports whether the filter confines queries to a tenant.
func (f TenantFilter) Restricted() bool {
	return f.tenantID != nil
}

// TenantID returns the tenant the filter is confined to, if any.
func (f TenantFilter) TenantID() (string, bool) {
	if f.tenantID == nil {
		return "", false
	}

	return *f.tenantID, true
}

// Apply intersects the filter with a query. Unrestricted filters leave the
// query untouched.
func (f TenantFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.tenantID == nil {
		return tx
	}

	return tx.Where("tenant_id = ?", *f.tenantID)
}

// Scoped is a gorm scope wrapper around Apply, for use with db.Scopes.
func Scoped(f TenantFilter) func(*gorm.DB) *gorm.DB {
	return f.Apply
}
