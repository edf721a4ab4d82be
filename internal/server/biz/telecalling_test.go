package biz

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type telecallingFixture struct {
	client  *gorm.DB
	service *TelecallingService
	tenant  *models.Tenant
	caller  *models.User
	ctx     context.Context
}

func newTelecallingFixture(t *testing.T) *telecallingFixture {
	t.Helper()

	client := newTestDB(t)

	auth := newAuthServiceForTest(t, client, nil)
	service := NewTelecallingService(TelecallingServiceParams{
		DB:          client,
		AuthService: auth,
		UserService: auth.UserService,
	})

	tenant := seedTenant(t, client, "telecalling")
	caller := seedUser(t, client, &tenant.ID, authz.RoleTelecaller, "caller@telecalling.com", "secret123")

	return &telecallingFixture{
		client:  client,
		service: service,
		tenant:  tenant,
		caller:  caller,
		ctx:     identityCtx(authz.Identity{UserID: caller.ID, Role: caller.Role, TenantID: caller.TenantID}),
	}
}

func (f *telecallingFixture) endCallWithOutcome(t *testing.T, leadID string, outcome models.CallOutcome) *models.CallLog {
	t.Helper()

	call, err := f.service.StartCall(f.ctx, StartCallRequest{LeadID: leadID, CallType: models.CallTypeOutbound})
	require.NoError(t, err)

	ended, err := f.service.EndCall(f.ctx, EndCallRequest{
		CallID:   call.ID,
		Duration: 90,
		Status:   models.CallStatusAnswered,
		Outcome:  outcome,
	})
	require.NoError(t, err)

	return ended
}

func TestTelecallingLogin(t *testing.T) {
	f := newTelecallingFixture(t)

	token, user, err := f.service.Login(context.Background(), "caller@telecalling.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, f.caller.ID, user.ID)

	// No OTP step: the token is usable immediately.
	claims, err := f.service.AuthService.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, f.caller.ID, claims.UserID)

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := f.service.Login(context.Background(), "caller@telecalling.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	})
}

func TestTelecallingAssignLead(t *testing.T) {
	f := newTelecallingFixture(t)

	lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

	salesEmployee := seedUser(t, f.client, &f.tenant.ID, authz.RoleEmployee, "field@telecalling.com", "secret123")
	require.NoError(t, f.client.Model(salesEmployee).Update("department", "Sales").Error)

	t.Run("non-sales employee rejected", func(t *testing.T) {
		_, err := f.service.AssignLead(f.ctx, lead.ID, f.caller.ID)
		assert.Error(t, err)
	})

	assigned, err := f.service.AssignLead(f.ctx, lead.ID, salesEmployee.ID)
	require.NoError(t, err)

	var stored models.Lead
	require.NoError(t, f.client.First(&stored, "id = ?", assigned.ID).Error)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, salesEmployee.ID, *stored.AssignedTo)
	assert.Equal(t, models.LeadStageAssigned, stored.Stage)
}

func TestEndCallOwnership(t *testing.T) {
	f := newTelecallingFixture(t)

	lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

	call, err := f.service.StartCall(f.ctx, StartCallRequest{LeadID: lead.ID, CallType: models.CallTypeOutbound})
	require.NoError(t, err)
	assert.True(t, call.IsLive)

	other := seedUser(t, f.client, &f.tenant.ID, authz.RoleTelecaller, "other@telecalling.com", "secret123")
	otherCtx := identityCtx(authz.Identity{UserID: other.ID, Role: other.Role, TenantID: other.TenantID})

	_, err = f.service.EndCall(otherCtx, EndCallRequest{CallID: call.ID, Status: models.CallStatusAnswered})
	assert.ErrorIs(t, err, ErrNotFound, "only the calling employee may end the call")

	ended, err := f.service.EndCall(f.ctx, EndCallRequest{
		CallID:   call.ID,
		Duration: 45,
		Status:   models.CallStatusAnswered,
		Outcome:  models.CallOutcomeInterested,
	})
	require.NoError(t, err)
	assert.False(t, ended.IsLive)
	assert.NotNil(t, ended.EndedAt)
	assert.Equal(t, 45, ended.DurationSecs)
}

func TestCallOutcomes(t *testing.T) {
	t.Run("interested advances the stage", func(t *testing.T) {
		f := newTelecallingFixture(t)
		lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

		f.endCallWithOutcome(t, lead.ID, models.CallOutcomeInterested)

		var stored models.Lead
		require.NoError(t, f.client.First(&stored, "id = ?", lead.ID).Error)
		assert.Equal(t, models.LeadStageInterested, stored.Stage)
	})

	t.Run("followup stamps the next follow-up date", func(t *testing.T) {
		f := newTelecallingFixture(t)
		lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

		f.endCallWithOutcome(t, lead.ID, models.CallOutcomeFollowup)

		var stored models.Lead
		require.NoError(t, f.client.First(&stored, "id = ?", lead.ID).Error)
		assert.Equal(t, models.LeadStageFollowup, stored.Stage)
		require.NotNil(t, stored.NextFollowUpDate)
		assert.WithinDuration(t, time.Now(), *stored.NextFollowUpDate, time.Minute)
	})

	t.Run("not reachable queues a retry a day out", func(t *testing.T) {
		f := newTelecallingFixture(t)
		lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

		f.endCallWithOutcome(t, lead.ID, models.CallOutcomeNotReachable)

		var stored models.Lead
		require.NoError(t, f.client.First(&stored, "id = ?", lead.ID).Error)
		assert.Equal(t, models.LeadStageRetry, stored.Stage)

		var retry models.CallRetry
		require.NoError(t, f.client.First(&retry, "lead_id = ?", lead.ID).Error)
		assert.Equal(t, 1, retry.RetryCount)
		assert.Equal(t, f.caller.ID, retry.EmployeeID)
		require.NotNil(t, retry.NextRetryAt)
		assert.WithinDuration(t, time.Now().Add(retryBackoff), *retry.NextRetryAt, time.Minute)
	})

	t.Run("not interested closes the lead", func(t *testing.T) {
		f := newTelecallingFixture(t)
		lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)

		f.endCallWithOutcome(t, lead.ID, models.CallOutcomeNotInterested)

		var stored models.Lead
		require.NoError(t, f.client.First(&stored, "id = ?", lead.ID).Error)
		assert.Equal(t, models.LeadStageClosed, stored.Stage)
	})

	t.Run("missing lead is a no-op", func(t *testing.T) {
		f := newTelecallingFixture(t)

		ended := f.endCallWithOutcome(t, "gone-lead", models.CallOutcomeInterested)
		assert.False(t, ended.IsLive)
	})
}

func TestMyAssignedLeadsAndLiveCalls(t *testing.T) {
	f := newTelecallingFixture(t)

	lead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)
	require.NoError(t, f.client.Model(&models.Lead{}).
		Where("id = ?", lead.ID).
		Updates(map[string]any{"assigned_to": f.caller.ID, "stage": models.LeadStageAssigned}).Error)

	// A lead assigned to someone else must stay invisible.
	otherLead := seedLead(t, f.client, f.tenant.ID, f.caller.ID)
	other := seedUser(t, f.client, &f.tenant.ID, authz.RoleTelecaller, "other2@telecalling.com", "secret123")
	require.NoError(t, f.client.Model(&models.Lead{}).
		Where("id = ?", otherLead.ID).
		Updates(map[string]any{"assigned_to": other.ID, "stage": models.LeadStageAssigned}).Error)

	mine, err := f.service.GetMyAssignedLeads(f.ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, lead.ID, mine[0].ID)

	_, err = f.service.StartCall(f.ctx, StartCallRequest{LeadID: lead.ID, CallType: models.CallTypeOutbound})
	require.NoError(t, err)

	live, err := f.service.GetLiveCalls(f.ctx)
	require.NoError(t, err)
	require.Len(t, live, 1)
	assert.Equal(t, f.caller.ID, live[0].EmployeeID)
}
