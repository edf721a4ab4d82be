package server

import (
	"github.com/gin-contrib/cors"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/api"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/middleware"
)

type Handlers struct {
	fx.In

	System             *api.SystemHandlers
	Auth               *api.AuthHandlers
	User               *api.UserHandlers
	Tenant             *api.TenantHandlers
	Lead               *api.LeadHandlers
	Customer           *api.CustomerHandlers
	Activity           *api.ActivityHandlers
	Quotation          *api.QuotationHandlers
	Invoice            *api.InvoiceHandlers
	Dashboard          *api.DashboardHandlers
	Sale               *api.SaleHandlers
	SaleDashboard      *api.SaleDashboardHandlers
	Campaign           *api.CampaignHandlers
	MarketingDashboard *api.MarketingDashboardHandlers
	Telecalling        *api.TelecallingHandlers
}

type Services struct {
	fx.In

	AuthService *biz.AuthService
}

func SetupRoutes(server *Server, handlers Handlers, services Services) {
	server.Use(middleware.AccessLog())
	server.Use(middleware.WithLoggingTracing(server.Config.Trace))
	server.Use(middleware.WithMetrics())

	if server.Config.CORS.Enabled {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = server.Config.CORS.AllowedOrigins
		corsConfig.AllowMethods = server.Config.CORS.AllowedMethods
		corsConfig.AllowHeaders = server.Config.CORS.AllowedHeaders
		corsConfig.ExposeHeaders = server.Config.CORS.ExposedHeaders
		corsConfig.AllowCredentials = server.Config.CORS.AllowCredentials
		corsConfig.MaxAge = server.Config.CORS.MaxAge

		corsHandler := cors.New(corsConfig)
		server.Use(corsHandler)
		server.OPTIONS("*any", corsHandler)
	}

	publicGroup := server.Group("/api", middleware.WithTimeout(server.Config.RequestTimeout))
	{
		// Health check endpoint - no authentication required
		publicGroup.GET("/health", handlers.System.Health)

		// Login flows - DO NOT AUTH
		publicGroup.POST("/auth/login", handlers.Auth.Login)
		publicGroup.POST("/auth/verify-otp", handlers.Auth.VerifyOTP)
		publicGroup.POST("/auth/forgot-password", handlers.Auth.ForgotPassword)
		publicGroup.POST("/auth/reset-password", handlers.Auth.ResetPassword)
		publicGroup.POST("/telecalling/login", handlers.Telecalling.Login)
	}

	authGroup := server.Group("/api",
		middleware.WithTimeout(server.Config.RequestTimeout),
		middleware.WithAuth(services.AuthService),
	)

	authGroup.GET("/auth/me", handlers.Auth.Me)

	gate := middleware.RequireOperation

	{
		superAdminGroup := authGroup.Group("/super-admin")
		superAdminGroup.POST("/create-company", gate(authz.OpCompanyCreate), handlers.Tenant.CreateCompany)
		superAdminGroup.GET("/companies", gate(authz.OpCompanyList), handlers.Tenant.ListCompanies)
		superAdminGroup.PATCH("/company/:tenantId/status", gate(authz.OpCompanyUpdateStatus), handlers.Tenant.UpdateCompanyStatus)
	}

	{
		userGroup := authGroup.Group("/users")
		userGroup.POST("", gate(authz.OpUserCreate), handlers.User.CreateUser)
		userGroup.GET("", gate(authz.OpUserList), handlers.User.ListUsers)
		userGroup.GET("/:id", gate(authz.OpUserGet), handlers.User.GetUser)
		userGroup.PATCH("/:id", gate(authz.OpUserUpdate), handlers.User.UpdateUser)
		userGroup.DELETE("/:id", gate(authz.OpUserDelete), handlers.User.DeleteUser)
	}

	{
		crmGroup := authGroup.Group("/crm")

		crmGroup.POST("/leads", gate(authz.OpLeadCreate), handlers.Lead.CreateLead)
		crmGroup.GET("/leads", gate(authz.OpLeadList), handlers.Lead.ListLeads)
		crmGroup.GET("/leads/:id", gate(authz.OpLeadGet), handlers.Lead.GetLead)
		crmGroup.PATCH("/leads/:id/assign", gate(authz.OpLeadAssign), handlers.Lead.AssignLead)
		crmGroup.PATCH("/leads/:id/status", gate(authz.OpLeadUpdateStatus), handlers.Lead.UpdateLeadStatus)
		crmGroup.PATCH("/leads/:id/stage", gate(authz.OpLeadUpdateStage), handlers.Lead.UpdateLeadStage)

		crmGroup.POST("/customers", gate(authz.OpCustomerCreate), handlers.Customer.CreateCustomer)
		crmGroup.POST("/customers/convert/:leadId", gate(authz.OpCustomerConvert), handlers.Customer.ConvertLead)
		crmGroup.GET("/customers", gate(authz.OpCustomerList), handlers.Customer.ListCustomers)
		crmGroup.GET("/customers/:id", gate(authz.OpCustomerGet), handlers.Customer.GetCustomer)

		crmGroup.POST("/activities", gate(authz.OpActivityCreate), handlers.Activity.CreateActivity)
		crmGroup.GET("/activities", gate(authz.OpActivityList), handlers.Activity.ListActivities)
		crmGroup.PATCH("/activities/:id/complete", gate(authz.OpActivityComplete), handlers.Activity.CompleteActivity)

		crmGroup.POST("/quotations", gate(authz.OpQuotationCreate), handlers.Quotation.CreateQuotation)
		crmGroup.GET("/quotations", gate(authz.OpQuotationList), handlers.Quotation.ListQuotations)
		crmGroup.GET("/quotations/:id", gate(authz.OpQuotationGet), handlers.Quotation.GetQuotation)
		crmGroup.PATCH("/quotations/:id/status", gate(authz.OpQuotationUpdateStatus), handlers.Quotation.UpdateQuotationStatus)

		crmGroup.POST("/invoices", gate(authz.OpInvoiceCreate), handlers.Invoice.CreateInvoice)
		crmGroup.GET("/invoices", gate(authz.OpInvoiceList), handlers.Invoice.ListInvoices)
		crmGroup.POST("/invoices/:id/payments", gate(authz.OpInvoiceAddPayment), handlers.Invoice.AddPayment)

		dashboardGroup := crmGroup.Group("/dashboard", gate(authz.OpDashboardView))
		dashboardGroup.GET("/summary", handlers.Dashboard.Summary)
		dashboardGroup.GET("/leads", handlers.Dashboard.LeadsBreakdown)
		dashboardGroup.GET("/followups", handlers.Dashboard.FollowupsBreakdown)
		dashboardGroup.GET("/revenue", handlers.Dashboard.RevenueBreakdown)
		dashboardGroup.GET("/team", handlers.Dashboard.TeamBreakdown)
	}

	{
		saleGroup := authGroup.Group("/sales")

		saleDashboardGroup := saleGroup.Group("/dashboard")
		saleDashboardGroup.GET("", gate(authz.OpSalesDashboard), handlers.SaleDashboard.Dashboard)
		saleDashboardGroup.GET("/trends", gate(authz.OpSalesDashboard), handlers.SaleDashboard.Trends)
		saleDashboardGroup.GET("/top-products", gate(authz.OpSalesDashboard), handlers.SaleDashboard.TopProducts)
		saleDashboardGroup.GET("/top-customers", gate(authz.OpSalesDashboard), handlers.SaleDashboard.TopCustomers)
		saleDashboardGroup.GET("/performance", gate(authz.OpSalesDashboard), handlers.SaleDashboard.Performance)
		saleDashboardGroup.GET("/pending-deliveries", gate(authz.OpSalesPendingDeliveries), handlers.SaleDashboard.PendingDeliveries)

		saleGroup.GET("/stats", gate(authz.OpSaleStats), handlers.Sale.GetSaleStats)
		saleGroup.POST("", gate(authz.OpSaleCreate), handlers.Sale.CreateSale)
		saleGroup.GET("", gate(authz.OpSaleList), handlers.Sale.ListSales)
		saleGroup.GET("/:id", gate(authz.OpSaleGet), handlers.Sale.GetSale)
		saleGroup.PATCH("/:id", gate(authz.OpSaleUpdate), handlers.Sale.UpdateSale)
		saleGroup.PATCH("/:id/status", gate(authz.OpSaleUpdateStatus), handlers.Sale.UpdateSaleStatus)
		saleGroup.PATCH("/:id/payment", gate(authz.OpSaleUpdatePayment), handlers.Sale.UpdateSalePayment)
		saleGroup.PATCH("/:id/assign", gate(authz.OpSaleAssign), handlers.Sale.AssignSale)
		saleGroup.DELETE("/:id", gate(authz.OpSaleDelete), handlers.Sale.DeleteSale)
	}

	{
		marketingGroup := authGroup.Group("/marketing")

		campaignGroup := marketingGroup.Group("/campaigns")
		campaignGroup.POST("", gate(authz.OpCampaignCreate), handlers.Campaign.CreateCampaign)
		campaignGroup.GET("", gate(authz.OpCampaignList), handlers.Campaign.ListCampaigns)
		campaignGroup.GET("/analytics", gate(authz.OpMarketingCampaignMetrics), handlers.MarketingDashboard.Analytics)
		campaignGroup.GET("/:id", gate(authz.OpCampaignGet), handlers.Campaign.GetCampaign)
		campaignGroup.PATCH("/:id", gate(authz.OpCampaignUpdate), handlers.Campaign.UpdateCampaign)
		campaignGroup.DELETE("/:id", gate(authz.OpCampaignDelete), handlers.Campaign.DeleteCampaign)
		campaignGroup.PATCH("/:id/status", gate(authz.OpCampaignUpdateStatus), handlers.Campaign.UpdateCampaignStatus)
		campaignGroup.PATCH("/:id/metrics", gate(authz.OpCampaignUpdateMetrics), handlers.Campaign.UpdateCampaignMetrics)
		campaignGroup.PATCH("/:id/assign", gate(authz.OpCampaignAssign), handlers.Campaign.AssignCampaign)
		campaignGroup.POST("/:id/leads", gate(authz.OpCampaignAddLead), handlers.Campaign.AddLead)
		campaignGroup.POST("/:id/assets", gate(authz.OpCampaignUploadAsset), handlers.Campaign.UploadAsset)

		marketingGroup.GET("/dashboard", gate(authz.OpMarketingDashboard), handlers.MarketingDashboard.Dashboard)
	}

	{
		telecallingGroup := authGroup.Group("/telecalling")

		telecallingGroup.POST("/assign", gate(authz.OpTelecallingAssign), handlers.Telecalling.AssignLead)

		// Call workflow routes are open to any authenticated caller; the
		// service narrows every query to the caller's own assignments.
		telecallingGroup.POST("/start-call", handlers.Telecalling.StartCall)
		telecallingGroup.POST("/end-call", handlers.Telecalling.EndCall)
		telecallingGroup.GET("/my-leads", handlers.Telecalling.MyAssignedLeads)
		telecallingGroup.GET("/my-followups", handlers.Telecalling.MyFollowups)
		telecallingGroup.GET("/my-retry-queue", handlers.Telecalling.MyRetryQueue)
		telecallingGroup.GET("/leads/:id", handlers.Telecalling.LeadDetails)

		telecallingGroup.GET("/dashboard/summary", gate(authz.OpTelecallingDashboard), handlers.Telecalling.Summary)
		telecallingGroup.GET("/dashboard/live-calls", gate(authz.OpTelecallingDashboard), handlers.Telecalling.LiveCalls)
	}
}
