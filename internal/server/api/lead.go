package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type LeadHandlersParams struct {
	fx.In

	LeadService *biz.LeadService
}

func NewLeadHandlers(params LeadHandlersParams) *LeadHandlers {
	return &LeadHandlers{
		LeadService: params.LeadService,
	}
}

type LeadHandlers struct {
	LeadService *biz.LeadService
}

func (h *LeadHandlers) CreateLead(c *gin.Context) {
	var req biz.CreateLeadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.CreateLead(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(lead))
}

func (h *LeadHandlers) ListLeads(c *gin.Context) {
	leads, err := h.LeadService.ListLeads(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(leads))
}

func (h *LeadHandlers) GetLead(c *gin.Context) {
	lead, err := h.LeadService.GetLead(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}

type AssignLeadRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *LeadHandlers) AssignLead(c *gin.Context) {
	var req AssignLeadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.AssignLead(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}

type UpdateLeadStatusRequest struct {
	Status models.LeadStatus `json:"status" binding:"required"`
}

func (h *LeadHandlers) UpdateLeadStatus(c *gin.Context) {
	var req UpdateLeadStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.UpdateLeadStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}

type UpdateLeadStageRequest struct {
	Stage            models.LeadStage `json:"stage" binding:"required"`
	NextFollowUpDate *time.Time       `json:"nextFollowUpDate"`
}

func (h *LeadHandlers) UpdateLeadStage(c *gin.Context) {
	var req UpdateLeadStageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	lead, err := h.LeadService.UpdateLeadStage(c.Request.Context(), c.Param("id"), req.Stage, req.NextFollowUpDate)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(lead))
}
