package biz

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/uploads"
)

func newCampaignFixture(t *testing.T) (*CampaignService, *gorm.DB, context.Context) {
	t.Helper()

	client := newTestDB(t)
	service := NewCampaignService(CampaignServiceParams{DB: client, Uploads: uploads.NewMemory()})

	tenant := seedTenant(t, client, "campaigns")
	user := seedUser(t, client, &tenant.ID, authz.RoleMarketing, "marketing@campaigns.com", "secret123")
	ctx := identityCtx(authz.Identity{UserID: user.ID, Role: user.Role, TenantID: user.TenantID})

	return service, client, ctx
}

func createTestCampaign(t *testing.T, service *CampaignService, ctx context.Context) *models.Campaign {
	t.Helper()

	campaign, err := service.CreateCampaign(ctx, CreateCampaignRequest{
		Name:           "Monsoon modular sale",
		Type:           models.CampaignTypeOnline,
		Budget:         decimal.NewFromInt(50000),
		TargetAudience: "homeowners",
		StartDate:      time.Now(),
		EndDate:        time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)

	return campaign
}

func TestCreateCampaign(t *testing.T) {
	service, _, ctx := newCampaignFixture(t)

	campaign := createTestCampaign(t, service, ctx)
	assert.Equal(t, models.CampaignStatusDraft, campaign.Status)
	assert.Equal(t, models.CampaignCategoryLeadGeneration, campaign.Category, "category defaults")

	t.Run("end before start rejected", func(t *testing.T) {
		_, err := service.CreateCampaign(ctx, CreateCampaignRequest{
			Name:           "Backwards",
			Type:           models.CampaignTypeOnline,
			Budget:         decimal.NewFromInt(100),
			TargetAudience: "anyone",
			StartDate:      time.Now(),
			EndDate:        time.Now().Add(-time.Hour),
		})
		assert.Error(t, err)
	})
}

func TestUpdateCampaignMetrics(t *testing.T) {
	service, _, ctx := newCampaignFixture(t)

	campaign := createTestCampaign(t, service, ctx)

	impressions := int64(10000)
	clicks := int64(400)
	conversions := int64(20)
	spent := decimal.NewFromInt(10000)

	updated, err := service.UpdateCampaignMetrics(ctx, campaign.ID, UpdateCampaignMetricsRequest{
		Impressions: &impressions,
		Clicks:      &clicks,
		Conversions: &conversions,
		SpentAmount: &spent,
	})
	require.NoError(t, err)

	m := updated.Metrics
	assert.True(t, m.CostPerClick.Equal(decimal.NewFromInt(25)), "cpc %s", m.CostPerClick)
	assert.True(t, m.CostPerConversion.Equal(decimal.NewFromInt(500)), "cpcv %s", m.CostPerConversion)
	assert.True(t, m.ConversionRate.Equal(decimal.NewFromInt(5)), "rate %s", m.ConversionRate)

	// ROI: (20*50000 - 10000) / 10000 * 100 = 9900%.
	assert.True(t, m.ROI.Equal(decimal.NewFromInt(9900)), "roi %s", m.ROI)

	t.Run("zero counters zero the derived values", func(t *testing.T) {
		zero := int64(0)
		updated, err := service.UpdateCampaignMetrics(ctx, campaign.ID, UpdateCampaignMetricsRequest{
			Clicks:      &zero,
			Conversions: &zero,
		})
		require.NoError(t, err)

		assert.True(t, updated.Metrics.CostPerClick.IsZero())
		assert.True(t, updated.Metrics.CostPerConversion.IsZero())
		assert.True(t, updated.Metrics.ConversionRate.IsZero())
	})
}

func TestCampaignAddLeadDedupes(t *testing.T) {
	service, _, ctx := newCampaignFixture(t)

	campaign := createTestCampaign(t, service, ctx)

	updated, err := service.AddLead(ctx, campaign.ID, "lead-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"lead-1"}, updated.LeadIDs)
	assert.Equal(t, int64(1), updated.Metrics.LeadsGenerated)

	updated, err = service.AddLead(ctx, campaign.ID, "lead-1")
	require.NoError(t, err)
	assert.Len(t, updated.LeadIDs, 1, "duplicate lead ignored")
	assert.Equal(t, int64(1), updated.Metrics.LeadsGenerated)

	updated, err = service.AddLead(ctx, campaign.ID, "lead-2")
	require.NoError(t, err)
	assert.Len(t, updated.LeadIDs, 2)
	assert.Equal(t, int64(2), updated.Metrics.LeadsGenerated)
}

func TestCampaignUploadAsset(t *testing.T) {
	service, _, ctx := newCampaignFixture(t)

	campaign := createTestCampaign(t, service, ctx)

	t.Run("invalid kind", func(t *testing.T) {
		_, err := service.UploadAsset(ctx, campaign.ID, "documents", "banner.png", []byte("x"))
		assert.Error(t, err)
	})

	updated, err := service.UploadAsset(ctx, campaign.ID, "images", "banner.png", []byte("png-bytes"))
	require.NoError(t, err)
	require.Len(t, updated.Content.Images, 1)
	assert.Contains(t, updated.Content.Images[0], "banner.png")

	updated, err = service.UploadAsset(ctx, campaign.ID, "videos", "promo.mp4", []byte("mp4-bytes"))
	require.NoError(t, err)
	assert.Len(t, updated.Content.Videos, 1)
}

func TestDeleteCampaign(t *testing.T) {
	service, _, ctx := newCampaignFixture(t)

	campaign := createTestCampaign(t, service, ctx)

	require.NoError(t, service.DeleteCampaign(ctx, campaign.ID))

	_, err := service.GetCampaign(ctx, campaign.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, service.DeleteCampaign(ctx, campaign.ID), ErrNotFound)
}
