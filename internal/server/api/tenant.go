package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/models"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type TenantHandlersParams struct {
	fx.In

	TenantService *biz.TenantService
}

func NewTenantHandlers(params TenantHandlersParams) *TenantHandlers {
	return &TenantHandlers{
		TenantService: params.TenantService,
	}
}

// TenantHandlers serves the platform-level company endpoints.
type TenantHandlers struct {
	TenantService *biz.TenantService
}

func (h *TenantHandlers) CreateCompany(c *gin.Context) {
	var req biz.CreateCompanyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	company, err := h.TenantService.CreateCompanyWithCEO(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(company))
}

func (h *TenantHandlers) ListCompanies(c *gin.Context) {
	tenants, err := h.TenantService.ListCompanies(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(tenants))
}

type UpdateCompanyStatusRequest struct {
	Status models.TenantStatus `json:"status" binding:"required"`
}

// UpdateCompanyStatus suspends or reactivates a company. Suspension cascades
// to the company's users so their next request fails identity resolution.
func (h *TenantHandlers) UpdateCompanyStatus(c *gin.Context) {
	var req UpdateCompanyStatusRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	tenant, err := h.TenantService.UpdateCompanyStatus(c.Request.Context(), c.Param("tenantId"), req.Status)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(tenant))
}
