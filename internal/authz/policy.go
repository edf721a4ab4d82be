package authz

import (
	"fmt"
)

// Operation names a protected API operation. Every operation registers its
// role allow-list in the policy table below, once, at process start.
type Operation string

const (
	OpUserCreate Operation = "users.create"
	OpUserList   Operation = "users.list"
	OpUserGet    Operation = "users.get"
	OpUserUpdate Operation = "users.update"
	OpUserDelete Operation = "users.delete"

	OpCompanyCreate       Operation = "companies.create"
	OpCompanyList         Operation = "companies.list"
	OpCompanyUpdateStatus Operation = "companies.update_status"

	OpLeadCreate       Operation = "leads.create"
	OpLeadList         Operation = "leads.list"
	OpLeadGet          Operation = "leads.get"
	OpLeadAssign       Operation = "leads.assign"
	OpLeadUpdateStatus Operation = "leads.update_status"
	OpLeadUpdateStage  Operation = "leads.update_stage"

	OpCustomerCreate  Operation = "customers.create"
	OpCustomerConvert Operation = "customers.convert"
	OpCustomerList    Operation = "customers.list"
	OpCustomerGet     Operation = "customers.get"

	OpActivityCreate   Operation = "activities.create"
	OpActivityList     Operation = "activities.list"
	OpActivityComplete Operation = "activities.complete"

	OpQuotationCreate       Operation = "quotations.create"
	OpQuotationList         Operation = "quotations.list"
	OpQuotationGet          Operation = "quotations.get"
	OpQuotationUpdateStatus Operation = "quotations.update_status"

	OpDashboardView Operation = "dashboard.view"

	OpTelecallingAssign    Operation = "telecalling.assign"
	OpTelecallingDashboard Operation = "telecalling.dashboard"

	OpInvoiceCreate     Operation = "invoices.create"
	OpInvoiceList       Operation = "invoices.list"
	OpInvoiceAddPayment Operation = "invoices.add_payment"

	OpSaleCreate        Operation = "sales.create"
	OpSaleList          Operation = "sales.list"
	OpSaleGet           Operation = "sales.get"
	OpSaleUpdate        Operation = "sales.update"
	OpSaleUpdateStatus  Operation = "sales.update_status"
	OpSaleUpdatePayment Operation = "sales.update_payment"
	OpSaleAssign        Operation = "sales.assign"
	OpSaleDelete        Operation = "sales.delete"
	OpSaleStats         Operation = "sales.stats"

	OpSalesDashboard           Operation = "sales.dashboard"
	OpSalesPendingDeliveries   Operation = "sales.dashboard.pending_deliveries"
	OpCampaignCreate           Operation = "campaigns.create"
	OpCampaignList             Operation = "campaigns.list"
	OpCampaignGet              Operation = "campaigns.get"
	OpCampaignUpdate           Operation = "campaigns.update"
	OpCampaignDelete           Operation = "campaigns.delete"
	OpCampaignUpdateStatus     Operation = "campaigns.update_status"
	OpCampaignUpdateMetrics    Operation = "campaigns.update_metrics"
	OpCampaignAssign           Operation = "campaigns.assign"
	OpCampaignAddLead          Operation = "campaigns.add_lead"
	OpCampaignUploadAsset      Operation = "campaigns.upload_asset"
	OpMarketingDashboard       Operation = "marketing.dashboard"
	OpMarketingCampaignMetrics Operation = "marketing.dashboard.campaign_metrics"
)

// policies is the process-wide allow-list table, operation to permitted roles.
// Built once at init and read-only afterwards, so concurrent requests need no
// synchronization. Membership is exact: a role absent from the list is denied
// even if it is intuitively more privileged.
var policies = map[Operation][]Role{
	OpUserCreate: {RoleSuperAdmin, RoleCEO, RoleAdmin},
	OpUserList:   {RoleSuperAdmin, RoleCEO, RoleAdmin},
	OpUserGet:    {RoleSuperAdmin, RoleCEO, RoleAdmin},
	OpUserUpdate: {RoleSuperAdmin, RoleCEO, RoleAdmin},
	OpUserDelete: {RoleSuperAdmin, RoleCEO, RoleAdmin},

	OpCompanyCreate:       {RoleSuperAdmin},
	OpCompanyList:         {RoleSuperAdmin},
	OpCompanyUpdateStatus: {RoleSuperAdmin},

	OpLeadCreate:       {RoleSuperAdmin, RoleAdmin, RoleCEO, RoleManager, RoleSales},
	OpLeadList:         {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpLeadGet:          {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpLeadAssign:       {RoleAdmin, RoleManager},
	OpLeadUpdateStatus: {RoleAdmin, RoleManager, RoleSales},
	OpLeadUpdateStage:  {RoleAdmin, RoleManager, RoleSales},

	OpCustomerCreate:  {RoleSuperAdmin, RoleAdmin, RoleManager},
	OpCustomerConvert: {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpCustomerList:    {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleAccounts},
	OpCustomerGet:     {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleAccounts},

	OpActivityCreate:   {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpActivityList:     {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpActivityComplete: {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},

	OpQuotationCreate:       {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},
	OpQuotationList:         {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleAccounts},
	OpQuotationGet:          {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleAccounts},
	OpQuotationUpdateStatus: {RoleSuperAdmin, RoleAdmin, RoleManager},

	OpDashboardView: {RoleSuperAdmin, RoleCEO, RoleAdmin, RoleManager, RoleSales},

	OpTelecallingAssign:    {RoleAdmin, RoleManager},
	OpTelecallingDashboard: {RoleSuperAdmin, RoleAdmin, RoleManager},

	OpInvoiceCreate:     {RoleSuperAdmin, RoleAdmin, RoleAccounts},
	OpInvoiceList:       {RoleSuperAdmin, RoleAdmin, RoleAccounts, RoleManager},
	OpInvoiceAddPayment: {RoleSuperAdmin, RoleAdmin, RoleAccounts},

	OpSaleCreate:        {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleList:          {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleGet:           {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleUpdate:        {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleUpdateStatus:  {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleUpdatePayment: {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleAssign:        {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleDelete:        {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales, RoleEmployee},
	OpSaleStats:         {RoleSuperAdmin, RoleAdmin, RoleManager},

	OpSalesDashboard:         {RoleSuperAdmin, RoleAdmin, RoleManager},
	OpSalesPendingDeliveries: {RoleSuperAdmin, RoleAdmin, RoleManager, RoleSales},

	OpCampaignCreate:           {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignList:             {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignGet:              {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignUpdate:           {RoleSuperAdmin, RoleAdmin, RoleManager},
	OpCampaignDelete:           {RoleSuperAdmin, RoleAdmin},
	OpCampaignUpdateStatus:     {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignUpdateMetrics:    {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignAssign:           {RoleSuperAdmin, RoleAdmin, RoleManager},
	OpCampaignAddLead:          {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpCampaignUploadAsset:      {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpMarketingDashboard:       {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
	OpMarketingCampaignMetrics: {RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee},
}

// AllowedRoles returns the allow-list registered for op.
func AllowedRoles(op Operation) ([]Role, bool) {
	roles, ok := policies[op]
	return roles, ok
}

// Authorize passes iff the identity's role is a member of the allow-list
// registered for op. Operations without a registered policy are denied: the
// gate fails closed.
func Authorize(identity Identity, op Operation) error {
	roles, ok := policies[op]
	if !ok {
		return fmt.Errorf("%w: no policy registered for operation %q", ErrForbidden, op)
	}

	for _, role := range roles {
		if identity.Role == role {
			return nil
		}
	}

	return fmt.Errorf("%w: role %q is not permitted to perform %q", ErrForbidden, identity.Role, op)
}
