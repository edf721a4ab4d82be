package biz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type MarketingDashboardServiceParams struct {
	fx.In

	DB *gorm.DB
}

func NewMarketingDashboardService(params MarketingDashboardServiceParams) *MarketingDashboardService {
	return &MarketingDashboardService{
		AbstractService: &AbstractService{db: params.DB},
		now:             time.Now,
	}
}

type MarketingDashboardService struct {
	*AbstractService

	now func() time.Time
}

type CampaignAnalytics struct {
	Summary     CampaignSummary                 `json:"summary"`
	Budget      CampaignBudget                  `json:"budget"`
	Performance CampaignPerformance             `json:"performance"`
	ByType      map[string]CampaignGroupedStats `json:"campaignsByType"`
	ByStatus    map[string]int64                `json:"campaignsByStatus"`
	Period      string                          `json:"period"`
}

type CampaignSummary struct {
	TotalCampaigns     int64           `json:"totalCampaigns"`
	ActiveCampaigns    int64           `json:"activeCampaigns"`
	CompletedCampaigns int64           `json:"completedCampaigns"`
	CompletionRate     decimal.Decimal `json:"completionRate"`
}

type CampaignBudget struct {
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	AvgBudget   decimal.Decimal `json:"avgBudget"`
}

type CampaignPerformance struct {
	TotalImpressions int64 `json:"totalImpressions"`
	TotalClicks      int64 `json:"totalClicks"`
	TotalConversions int64 `json:"totalConversions"`
	TotalLeads       int64 `json:"totalLeads"`
}

type CampaignGroupedStats struct {
	Count       int64           `json:"count"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
}

var analyticsPeriods = map[string]time.Duration{
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
	"90d": 90 * 24 * time.Hour,
	"1y":  365 * 24 * time.Hour,
}

// GetAnalytics aggregates campaigns created within the requested trailing
// window. Unknown periods fall back to 30 days.
func (s *MarketingDashboardService) GetAnalytics(ctx context.Context, period string) (*CampaignAnalytics, error) {
	window, ok := analyticsPeriods[period]
	if !ok {
		period = "30d"
		window = analyticsPeriods[period]
	}

	since := s.now().Add(-window)

	var campaigns []*models.Campaign

	err := s.scopedDBFromContext(ctx).Where("created_at >= ?", since).Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns for analytics: %w", err)
	}

	analytics := &CampaignAnalytics{
		ByType:   map[string]CampaignGroupedStats{},
		ByStatus: map[string]int64{},
		Period:   period,
	}

	for _, campaign := range campaigns {
		analytics.Summary.TotalCampaigns++

		switch campaign.Status {
		case models.CampaignStatusActive:
			analytics.Summary.ActiveCampaigns++
		case models.CampaignStatusCompleted:
			analytics.Summary.CompletedCampaigns++
		}

		analytics.Budget.TotalBudget = analytics.Budget.TotalBudget.Add(campaign.Budget)
		analytics.Budget.TotalSpent = analytics.Budget.TotalSpent.Add(campaign.SpentAmount)

		analytics.Performance.TotalImpressions += campaign.Metrics.Impressions
		analytics.Performance.TotalClicks += campaign.Metrics.Clicks
		analytics.Performance.TotalConversions += campaign.Metrics.Conversions
		analytics.Performance.TotalLeads += campaign.Metrics.LeadsGenerated

		byType := analytics.ByType[string(campaign.Type)]
		byType.Count++
		byType.TotalBudget = byType.TotalBudget.Add(campaign.Budget)
		byType.TotalSpent = byType.TotalSpent.Add(campaign.SpentAmount)
		analytics.ByType[string(campaign.Type)] = byType

		analytics.ByStatus[string(campaign.Status)]++
	}

	if analytics.Summary.TotalCampaigns > 0 {
		total := decimal.NewFromInt(analytics.Summary.TotalCampaigns)
		hundred := decimal.NewFromInt(100)

		analytics.Summary.CompletionRate = decimal.NewFromInt(analytics.Summary.CompletedCampaigns).
			Div(total).Mul(hundred).Round(2)
		analytics.Budget.AvgBudget = analytics.Budget.TotalBudget.Div(total).Round(2)
	}

	return analytics, nil
}

type MonthlyCampaignPoint struct {
	Month     string          `json:"month"`
	Campaigns int64           `json:"campaigns"`
	Budget    decimal.Decimal `json:"budget"`
	Spent     decimal.Decimal `json:"spent"`
	Leads     int64           `json:"leads"`
}

type MarketingDashboard struct {
	RecentCampaigns    []*models.Campaign              `json:"recentCampaigns"`
	CampaignStats      map[string]CampaignGroupedStats `json:"campaignStats"`
	MonthlyPerformance []MonthlyCampaignPoint          `json:"monthlyPerformance"`
	TopCampaigns       []*models.Campaign              `json:"topCampaigns"`
}

// GetDashboard returns the marketing overview: the five newest campaigns,
// per-status rollups, a monthly series, and the five best converters.
func (s *MarketingDashboardService) GetDashboard(ctx context.Context) (*MarketingDashboard, error) {
	var campaigns []*models.Campaign

	err := s.scopedDBFromContext(ctx).Order("created_at DESC").Find(&campaigns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load campaigns for dashboard: %w", err)
	}

	dashboard := &MarketingDashboard{
		CampaignStats: map[string]CampaignGroupedStats{},
	}

	months := map[string]*MonthlyCampaignPoint{}

	for _, campaign := range campaigns {
		stats := dashboard.CampaignStats[string(campaign.Status)]
		stats.Count++
		stats.TotalBudget = stats.TotalBudget.Add(campaign.Budget)
		stats.TotalSpent = stats.TotalSpent.Add(campaign.SpentAmount)
		dashboard.CampaignStats[string(campaign.Status)] = stats

		key := campaign.CreatedAt.Format("2006-01")

		point, ok := months[key]
		if !ok {
			point = &MonthlyCampaignPoint{Month: key}
			months[key] = point
		}

		point.Campaigns++
		point.Budget = point.Budget.Add(campaign.Budget)
		point.Spent = point.Spent.Add(campaign.SpentAmount)
		point.Leads += campaign.Metrics.LeadsGenerated
	}

	for _, point := range months {
		dashboard.MonthlyPerformance = append(dashboard.MonthlyPerformance, *point)
	}

	sort.Slice(dashboard.MonthlyPerformance, func(i, j int) bool {
		return dashboard.MonthlyPerformance[i].Month < dashboard.MonthlyPerformance[j].Month
	})

	if len(dashboard.MonthlyPerformance) > 12 {
		dashboard.MonthlyPerformance = dashboard.MonthlyPerformance[len(dashboard.MonthlyPerformance)-12:]
	}

	recent := campaigns
	if len(recent) > 5 {
		recent = recent[:5]
	}

	dashboard.RecentCampaigns = recent

	top := make([]*models.Campaign, len(campaigns))
	copy(top, campaigns)

	sort.Slice(top, func(i, j int) bool {
		if top[i].Metrics.Conversions != top[j].Metrics.Conversions {
			return top[i].Metrics.Conversions > top[j].Metrics.Conversions
		}

		return top[i].Metrics.ROI.GreaterThan(top[j].Metrics.ROI)
	})

	if len(top) > 5 {
		top = top[:5]
	}

	dashboard.TopCampaigns = top

	return dashboard, nil
}
