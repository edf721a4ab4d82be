package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

func seedRetry(t *testing.T, client *gorm.DB, tenantID, leadID string, due time.Time) *models.CallRetry {
	t.Helper()

	retry := &models.CallRetry{
		ID:          models.NewID(),
		TenantID:    tenantID,
		LeadID:      leadID,
		RetryCount:  1,
		NextRetryAt: &due,
	}
	require.NoError(t, client.Create(retry).Error)

	return retry
}

func leadStage(t *testing.T, client *gorm.DB, id string) models.LeadStage {
	t.Helper()

	var lead models.Lead
	require.NoError(t, client.First(&lead, "id = ?", id).Error)

	return lead.Stage
}

func TestSweepDueRetries(t *testing.T) {
	client := newTestDB(t)
	worker := NewCallRetryWorker(CallRetryWorkerParams{DB: client})
	ctx := context.Background()

	tenant := seedTenant(t, client, "retries")

	now := time.Now()

	dueLead := seedLead(t, client, tenant.ID, "creator")
	require.NoError(t, client.Model(dueLead).Update("stage", models.LeadStageRetry).Error)
	dueRetry := seedRetry(t, client, tenant.ID, dueLead.ID, now.Add(-time.Hour))

	notDueLead := seedLead(t, client, tenant.ID, "creator")
	require.NoError(t, client.Model(notDueLead).Update("stage", models.LeadStageRetry).Error)
	seedRetry(t, client, tenant.ID, notDueLead.ID, now.Add(time.Hour))

	promoted, err := worker.SweepDueRetries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	assert.Equal(t, models.LeadStageAssigned, leadStage(t, client, dueLead.ID))
	assert.Equal(t, models.LeadStageRetry, leadStage(t, client, notDueLead.ID))

	// The promoted entry leaves the queue; the pending one stays.
	var remaining []models.CallRetry
	require.NoError(t, client.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, notDueLead.ID, remaining[0].LeadID)
	assert.NotEqual(t, dueRetry.ID, remaining[0].ID)
}

func TestSweepLeavesNonRetryStagesAlone(t *testing.T) {
	client := newTestDB(t)
	worker := NewCallRetryWorker(CallRetryWorkerParams{DB: client})
	ctx := context.Background()

	tenant := seedTenant(t, client, "retrystale")

	// The lead moved on since the retry was queued. The stale entry is
	// drained but the stage stays put.
	lead := seedLead(t, client, tenant.ID, "creator")
	require.NoError(t, client.Model(lead).Update("stage", models.LeadStageInterested).Error)
	seedRetry(t, client, tenant.ID, lead.ID, time.Now().Add(-time.Minute))

	promoted, err := worker.SweepDueRetries(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	assert.Equal(t, models.LeadStageInterested, leadStage(t, client, lead.ID))

	var count int64
	require.NoError(t, client.Model(&models.CallRetry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSweepWithEmptyQueue(t *testing.T) {
	client := newTestDB(t)
	worker := NewCallRetryWorker(CallRetryWorkerParams{DB: client})

	promoted, err := worker.SweepDueRetries(context.Background())
	require.NoError(t, err)
	assert.Zero(t, promoted)
}
