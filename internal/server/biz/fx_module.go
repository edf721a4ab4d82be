package biz

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewAuthService),
	fx.Provide(NewUserService),
	fx.Provide(NewTenantService),
	fx.Provide(NewLeadService),
	fx.Provide(NewCustomerService),
	fx.Provide(NewActivityService),
	fx.Provide(NewQuotationService),
	fx.Provide(NewInvoiceService),
	fx.Provide(NewSaleService),
	fx.Provide(NewSaleDashboardService),
	fx.Provide(NewCampaignService),
	fx.Provide(NewMarketingDashboardService),
	fx.Provide(NewDashboardService),
	fx.Provide(NewTelecallingService),
	fx.Provide(NewCallRetryWorker),
	fx.Invoke(func(lc fx.Lifecycle, worker *CallRetryWorker) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return worker.Start(ctx)
			},
			OnStop: func(ctx context.Context) error {
				return worker.Stop(ctx)
			},
		})
	}),
)
