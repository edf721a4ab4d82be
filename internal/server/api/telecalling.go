package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type TelecallingHandlersParams struct {
	fx.In

	TelecallingService *biz.TelecallingService
}

func NewTelecallingHandlers(params TelecallingHandlersParams) *TelecallingHandlers {
	return &TelecallingHandlers{
		TelecallingService: params.TelecallingService,
	}
}

type TelecallingHandlers struct {
	TelecallingService *biz.TelecallingService
}

// Login issues a long-lived telecaller token, password only. The desk phones
// running this flow cannot receive OTP mail.
func (h *TelecallingHandlers) Login(c *gin.Context) {
	var req LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	token, user, err := h.TelecallingService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidPassword) || errors.Is(err, biz.ErrUserNotFound) || errors.Is(err, biz.ErrUserInactive) {
			JSONError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
			return
		}

		ServiceError(c, err)

		return
	}

	c.JSON(http.StatusOK, objects.OK(objects.SignInResult{
		Token: token,
		User:  toUserInfo(user),
	}))
}

type TelecallingAssignRequest struct {
	LeadID     string `json:"leadId" binding:"required"`
	EmployeeID string `json:"employeeId" binding:"required"`
}

func (h *TelecallingHandlers) AssignLead(c *gin.Context) {
	var req TelecallingAssignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.TelecallingService.AssignLead(c.Request.Context(), req.LeadID, req.EmployeeID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}

func (h *TelecallingHandlers) StartCall(c *gin.Context) {
	var req biz.StartCallRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	call, err := h.TelecallingService.StartCall(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(call))
}

func (h *TelecallingHandlers) EndCall(c *gin.Context) {
	var req biz.EndCallRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	call, err := h.TelecallingService.EndCall(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(call))
}

func (h *TelecallingHandlers) MyAssignedLeads(c *gin.Context) {
	leads, err := h.TelecallingService.GetMyAssignedLeads(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(leads))
}

func (h *TelecallingHandlers) MyFollowups(c *gin.Context) {
	leads, err := h.TelecallingService.GetMyFollowups(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(leads))
}

func (h *TelecallingHandlers) MyRetryQueue(c *gin.Context) {
	retries, err := h.TelecallingService.GetMyRetryQueue(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(retries))
}

func (h *TelecallingHandlers) LeadDetails(c *gin.Context) {
	lead, err := h.TelecallingService.GetLeadDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}

func (h *TelecallingHandlers) Summary(c *gin.Context) {
	summary, err := h.TelecallingService.GetSummary(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(summary))
}

func (h *TelecallingHandlers) LiveCalls(c *gin.Context) {
	calls, err := h.TelecallingService.GetLiveCalls(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(calls))
}
