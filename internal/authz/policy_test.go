package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestAuthorize(t *testing.T) {
	tenantID := strPtr("tenant-1")

	tests := []struct {
		name     string
		identity Identity
		op       Operation
		allowed  bool
	}{
		{
			name:     "allowed role",
			identity: Identity{UserID: "u1", Role: RoleManager, TenantID: tenantID},
			op:       OpLeadList,
			allowed:  true,
		},
		{
			name:     "role not in allow-list",
			identity: Identity{UserID: "u1", Role: RoleAccounts, TenantID: tenantID},
			op:       OpLeadList,
			allowed:  false,
		},
		{
			name:     "super admin has no implicit bypass",
			identity: Identity{UserID: "u1", Role: RoleSuperAdmin},
			op:       OpLeadAssign,
			allowed:  false,
		},
		{
			name:     "sales cannot assign leads",
			identity: Identity{UserID: "u1", Role: RoleSales, TenantID: tenantID},
			op:       OpLeadAssign,
			allowed:  false,
		},
		{
			name:     "company creation is platform only",
			identity: Identity{UserID: "u1", Role: RoleCEO, TenantID: tenantID},
			op:       OpCompanyCreate,
			allowed:  false,
		},
		{
			name:     "unknown operation denied for every role",
			identity: Identity{UserID: "u1", Role: RoleSuperAdmin},
			op:       Operation("reports.export"),
			allowed:  false,
		},
		{
			name:     "unknown role denied",
			identity: Identity{UserID: "u1", Role: Role("owner"), TenantID: tenantID},
			op:       OpLeadList,
			allowed:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.identity, tt.op)

			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrForbidden)
			}
		})
	}
}

func TestEveryOperationHasPolicy(t *testing.T) {
	ops := []Operation{
		OpUserCreate, OpUserList, OpUserGet, OpUserUpdate, OpUserDelete,
		OpCompanyCreate, OpCompanyList, OpCompanyUpdateStatus,
		OpLeadCreate, OpLeadList, OpLeadGet, OpLeadAssign, OpLeadUpdateStatus, OpLeadUpdateStage,
		OpCustomerCreate, OpCustomerConvert, OpCustomerList, OpCustomerGet,
		OpActivityCreate, OpActivityList, OpActivityComplete,
		OpQuotationCreate, OpQuotationList, OpQuotationGet, OpQuotationUpdateStatus,
		OpDashboardView,
		OpTelecallingAssign, OpTelecallingDashboard,
		OpInvoiceCreate, OpInvoiceList, OpInvoiceAddPayment,
		OpSaleCreate, OpSaleList, OpSaleGet, OpSaleUpdate, OpSaleUpdateStatus,
		OpSaleUpdatePayment, OpSaleAssign, OpSaleDelete, OpSaleStats,
		OpSalesDashboard, OpSalesPendingDeliveries,
		OpCampaignCreate, OpCampaignList, OpCampaignGet, OpCampaignUpdate,
		OpCampaignDelete, OpCampaignUpdateStatus, OpCampaignUpdateMetrics,
		OpCampaignAssign, OpCampaignAddLead, OpCampaignUploadAsset,
		OpMarketingDashboard, OpMarketingCampaignMetrics,
	}

	for _, op := range ops {
		roles, ok := AllowedRoles(op)
		require.True(t, ok, "operation %s has no registered policy", op)
		require.NotEmpty(t, roles, "operation %s has an empty allow-list", op)
	}
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleSuperAdmin.Valid())
	assert.True(t, RoleTelecaller.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}

func TestIdentityIsPlatform(t *testing.T) {
	assert.True(t, Identity{UserID: "u1", Role: RoleSuperAdmin}.IsPlatform())
	assert.False(t, Identity{UserID: "u1", Role: RoleCEO, TenantID: strPtr("t1")}.IsPlatform())
}
