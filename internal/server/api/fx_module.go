package api

import (
	"go.uber.org/fx"
)

var Module = fx.Module("api",
	fx.Provide(NewSystemHandlers),
	fx.Provide(NewAuthHandlers),
	fx.Provide(NewUserHandlers),
	fx.Provide(NewTenantHandlers),
	fx.Provide(NewLeadHandlers),
	fx.Provide(NewCustomerHandlers),
	fx.Provide(NewActivityHandlers),
	fx.Provide(NewQuotationHandlers),
	fx.Provide(NewInvoiceHandlers),
	fx.Provide(NewDashboardHandlers),
	fx.Provide(NewSaleHandlers),
	fx.Provide(NewSaleDashboardHandlers),
	fx.Provide(NewCampaignHandlers),
	fx.Provide(NewMarketingDashboardHandlers),
	fx.Provide(NewTelecallingHandlers),
)
