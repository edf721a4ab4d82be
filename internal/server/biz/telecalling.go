package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/contexts"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
)

type TelecallingServiceParams struct {
	fx.In

	DB          *gorm.DB
	AuthService *AuthService
	UserService *UserService
}

func NewTelecallingService(params TelecallingServiceParams) *TelecallingService {
	return &TelecallingService{
		AbstractService: &AbstractService{db: params.DB},
		AuthService:     params.AuthService,
		UserService:     params.UserService,
		now:             time.Now,
	}
}

type TelecallingService struct {
	*AbstractService

	AuthService *AuthService
	UserService *UserService

	now func() time.Time
}

// Login is the telecalling variant of sign-in: password only, no OTP step,
// and a longer-lived token suited to field devices.
func (s *TelecallingService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.UserService.GetUserByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	if user.Status != models.UserStatusActive {
		return "", nil, fmt.Errorf("%w: user is %s", ErrUserInactive, user.Status)
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return "", nil, fmt.Errorf("%w: password mismatch", ErrInvalidPassword)
	}

	token, err := s.AuthService.IssueToken(user, s.AuthService.config.TelecallerTokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// AssignLead hands a lead to a sales-department employee for calling. Only
// users in the Sales department qualify.
func (s *TelecallingService) AssignLead(ctx context.Context, leadID, employeeID string) (*models.Lead, error) {
	var employee models.User

	err := s.scopedDBFromContext(ctx).
		Where("id = ? AND department = ?", employeeID, "Sales").
		First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid sales employee %s", employeeID)
		}

		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	var lead models.Lead

	err = s.scopedDBFromContext(ctx).Where("id = ?", leadID).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, leadID)
		}

		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	err = s.dbFromContext(ctx).Model(&lead).Updates(map[string]any{
		"assigned_to": employeeID,
		"stage":       models.LeadStageAssigned,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to assign lead: %w", err)
	}

	return &lead, nil
}

type StartCallRequest struct {
	LeadID   string          `json:"leadId" binding:"required"`
	CallType models.CallType `json:"callType" binding:"required"`
}

// StartCall opens a live call record for the calling employee.
func (s *TelecallingService) StartCall(ctx context.Context, req StartCallRequest) (*models.CallLog, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok || identity.TenantID == nil {
		return nil, fmt.Errorf("%w: calls require a tenant identity", ErrForbidden)
	}

	now := s.now()

	call := &models.CallLog{
		ID:         models.NewID(),
		TenantID:   *identity.TenantID,
		LeadID:     req.LeadID,
		EmployeeID: identity.UserID,
		CallType:   req.CallType,
		IsLive:     true,
		StartedAt:  &now,
	}

	if err := s.dbFromContext(ctx).Create(call).Error; err != nil {
		return nil, fmt.Errorf("failed to start call: %w", err)
	}

	return call, nil
}

type EndCallRequest struct {
	CallID   string             `json:"callId" binding:"required"`
	Duration int                `json:"duration"`
	Status   models.CallStatus  `json:"status"`
	Outcome  models.CallOutcome `json:"outcome"`
}

const retryBackoff = 24 * time.Hour

// EndCall closes a live call and runs the outcome engine on the lead:
// interested and followup move its stage forward, not_reachable queues a
// retry a day out, not_interested closes it. Only the employee who started
// the call may end it.
func (s *TelecallingService) EndCall(ctx context.Context, req EndCallRequest) (*models.CallLog, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: calls require an identity", ErrForbidden)
	}

	var call models.CallLog

	err := s.scopedDBFromContext(ctx).
		Where("id = ? AND employee_id = ?", req.CallID, identity.UserID).
		First(&call).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: call %s", ErrNotFound, req.CallID)
		}

		return nil, fmt.Errorf("failed to get call: %w", err)
	}

	now := s.now()

	call.IsLive = false
	call.EndedAt = &now
	call.DurationSecs = req.Duration
	call.Status = req.Status
	call.Outcome = req.Outcome

	if err := s.dbFromContext(ctx).Save(&call).Error; err != nil {
		return nil, fmt.Errorf("failed to end call: %w", err)
	}

	if err := s.handleOutcome(ctx, &call); err != nil {
		return nil, err
	}

	return &call, nil
}

func (s *TelecallingService) handleOutcome(ctx context.Context, call *models.CallLog) error {
	var lead models.Lead

	err := s.dbFromContext(ctx).Where("id = ?", call.LeadID).First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return fmt.Errorf("failed to load lead for outcome: %w", err)
	}

	updates := map[string]any{}

	switch call.Outcome {
	case models.CallOutcomeInterested:
		updates["stage"] = models.LeadStageInterested
	case models.CallOutcomeFollowup:
		updates["stage"] = models.LeadStageFollowup
		updates["next_follow_up_date"] = s.now()
	case models.CallOutcomeNotReachable:
		updates["stage"] = models.LeadStageRetry

		next := s.now().Add(retryBackoff)

		retry := &models.CallRetry{
			ID:          models.NewID(),
			TenantID:    call.TenantID,
			LeadID:      lead.ID,
			EmployeeID:  call.EmployeeID,
			RetryCount:  1,
			NextRetryAt: &next,
		}

		if err := s.dbFromContext(ctx).Create(retry).Error; err != nil {
			return fmt.Errorf("failed to queue retry: %w", err)
		}
	case models.CallOutcomeNotInterested:
		updates["stage"] = models.LeadStageClosed
	default:
		return nil
	}

	if err := s.dbFromContext(ctx).Model(&lead).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to apply call outcome: %w", err)
	}

	return nil
}

// GetMyAssignedLeads returns the caller's open leads, capped at 50.
func (s *TelecallingService) GetMyAssignedLeads(ctx context.Context) ([]*models.Lead, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no identity", ErrForbidden)
	}

	var leads []*models.Lead

	err := s.scopedDBFromContext(ctx).
		Where("assigned_to = ?", identity.UserID).
		Where("stage != ?", models.LeadStageClosed).
		Order("created_at DESC").
		Limit(50).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned leads: %w", err)
	}

	return leads, nil
}

// GetMyFollowups returns the caller's followup leads that are due.
func (s *TelecallingService) GetMyFollowups(ctx context.Context) ([]*models.Lead, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no identity", ErrForbidden)
	}

	var leads []*models.Lead

	err := s.scopedDBFromContext(ctx).
		Where("assigned_to = ?", identity.UserID).
		Where("stage = ?", models.LeadStageFollowup).
		Where("next_follow_up_date <= ?", s.now()).
		Find(&leads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list followups: %w", err)
	}

	return leads, nil
}

// GetMyRetryQueue returns the caller's due retry entries.
func (s *TelecallingService) GetMyRetryQueue(ctx context.Context) ([]*models.CallRetry, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no identity", ErrForbidden)
	}

	var retries []*models.CallRetry

	err := s.scopedDBFromContext(ctx).
		Where("employee_id = ?", identity.UserID).
		Where("next_retry_at <= ?", s.now()).
		Find(&retries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list retry queue: %w", err)
	}

	return retries, nil
}

// GetLeadDetails fetches a lead only if it is assigned to the caller.
func (s *TelecallingService) GetLeadDetails(ctx context.Context, id string) (*models.Lead, error) {
	identity, ok := contexts.GetIdentity(ctx)
	if !ok {
		return nil, fmt.Errorf("%w: no identity", ErrForbidden)
	}

	var lead models.Lead

	err := s.scopedDBFromContext(ctx).
		Where("id = ? AND assigned_to = ?", id, identity.UserID).
		First(&lead).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lead %s", ErrNotFound, id)
		}

		return nil, fmt.Errorf("failed to get lead: %w", err)
	}

	return &lead, nil
}

type TelecallingSummary struct {
	TotalEmployees  int64   `json:"totalEmployees"`
	OnCall          int64   `json:"onCall"`
	ActiveEmployees int64   `json:"activeEmployees"`
	AvgCallDuration float64 `json:"avgCallDuration"`
}

// GetSummary returns the tenant's live telecalling floor view.
func (s *TelecallingService) GetSummary(ctx context.Context) (*TelecallingSummary, error) {
	summary := &TelecallingSummary{}

	err := s.scopedDBFromContext(ctx).
		Model(&models.User{}).
		Where("department = ?", "Sales").
		Count(&summary.TotalEmployees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	err = s.scopedDBFromContext(ctx).
		Model(&models.CallLog{}).
		Where("is_live = ?", true).
		Count(&summary.OnCall).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count live calls: %w", err)
	}

	startOfDay := s.now().Truncate(24 * time.Hour)

	err = s.scopedDBFromContext(ctx).
		Model(&models.CallLog{}).
		Where("created_at >= ?", startOfDay).
		Distinct("employee_id").
		Count(&summary.ActiveEmployees).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count active employees: %w", err)
	}

	var avg *float64

	err = s.scopedDBFromContext(ctx).
		Model(&models.CallLog{}).
		Select("AVG(duration_secs)").
		Scan(&avg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to average call duration: %w", err)
	}

	if avg != nil {
		summary.AvgCallDuration = *avg
	}

	return summary, nil
}

// GetLiveCalls returns the tenant's in-progress calls.
func (s *TelecallingService) GetLiveCalls(ctx context.Context) ([]*models.CallLog, error) {
	var calls []*models.CallLog

	err := s.scopedDBFromContext(ctx).Where("is_live = ?", true).Find(&calls).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list live calls: %w", err)
	}

	return calls, nil
}
