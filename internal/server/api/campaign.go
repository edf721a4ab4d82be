package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

// Campaign assets are stored through the uploads store; cap the request body
// to keep a single upload bounded.
const maxAssetSize = 20 << 20

type CampaignHandlersParams struct {
	fx.In

	CampaignService *biz.CampaignService
}

func NewCampaignHandlers(params CampaignHandlersParams) *CampaignHandlers {
	return &CampaignHandlers{
		CampaignService: params.CampaignService,
	}
}

type CampaignHandlers struct {
	CampaignService *biz.CampaignService
}

func (h *CampaignHandlers) CreateCampaign(c *gin.Context) {
	var req biz.CreateCampaignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.CreateCampaign(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(campaign))
}

func (h *CampaignHandlers) ListCampaigns(c *gin.Context) {
	var filters biz.CampaignFilters

	if err := c.ShouldBindQuery(&filters); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid filter"))
		return
	}

	campaigns, pagination, err := h.CampaignService.ListCampaigns(c.Request.Context(), filters)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(gin.H{
		"campaigns":  campaigns,
		"pagination": pagination,
	}))
}

func (h *CampaignHandlers) GetCampaign(c *gin.Context) {
	campaign, err := h.CampaignService.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

func (h *CampaignHandlers) UpdateCampaign(c *gin.Context) {
	var req biz.UpdateCampaignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.UpdateCampaign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

type UpdateCampaignStatusRequest struct {
	Status models.CampaignStatus `json:"status" binding:"required"`
}

func (h *CampaignHandlers) UpdateCampaignStatus(c *gin.Context) {
	var req UpdateCampaignStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.UpdateCampaignStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

// UpdateCampaignMetrics applies metric deltas and recomputes the derived
// ratios (CPC, conversion rate, ROI) server-side.
func (h *CampaignHandlers) UpdateCampaignMetrics(c *gin.Context) {
	var req biz.UpdateCampaignMetricsRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.UpdateCampaignMetrics(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

type AssignCampaignRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *CampaignHandlers) AssignCampaign(c *gin.Context) {
	var req AssignCampaignRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.AssignCampaign(c.Request.Context(), c.Param("id"), req.UserID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

type AddCampaignLeadRequest struct {
	LeadID string `json:"leadId" binding:"required"`
}

func (h *CampaignHandlers) AddLead(c *gin.Context) {
	var req AddCampaignLeadRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	campaign, err := h.CampaignService.AddLead(c.Request.Context(), c.Param("id"), req.LeadID)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

// UploadAsset accepts a multipart file and attaches it to the campaign
// content under the given kind (images or videos).
func (h *CampaignHandlers) UploadAsset(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("missing file"))
		return
	}

	if fileHeader.Size > maxAssetSize {
		JSONError(c, http.StatusBadRequest, errors.New("file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ServiceError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAssetSize))
	if err != nil {
		ServiceError(c, err)
		return
	}

	kind := c.DefaultPostForm("kind", "images")

	campaign, err := h.CampaignService.UploadAsset(c.Request.Context(), c.Param("id"), kind, fileHeader.Filename, data)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(campaign))
}

func (h *CampaignHandlers) DeleteCampaign(c *gin.Context) {
	if err := h.CampaignService.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OKMessage("campaign deleted", nil))
}
