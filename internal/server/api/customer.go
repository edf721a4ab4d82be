package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type CustomerHandlersParams struct {
	fx.In

	CustomerService *biz.CustomerService
}

func NewCustomerHandlers(params CustomerHandlersParams) *CustomerHandlers {
	return &CustomerHandlers{
		CustomerService: params.CustomerService,
	}
}

type CustomerHandlers struct {
	CustomerService *biz.CustomerService
}

func (h *CustomerHandlers) CreateCustomer(c *gin.Context) {
	var req biz.CreateCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	customer, err := h.CustomerService.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(customer))
}

// ConvertLead turns a lead into a customer, deduplicating on email or phone
// within the tenant.
func (h *CustomerHandlers) ConvertLead(c *gin.Context) {
	customer, err := h.CustomerService.ConvertLead(c.Request.Context(), c.Param("leadId"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(customer))
}

func (h *CustomerHandlers) ListCustomers(c *gin.Context) {
	customers, err := h.CustomerService.ListCustomers(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(customers))
}

func (h *CustomerHandlers) GetCustomer(c *gin.Context) {
	customer, err := h.CustomerService.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(customer))
}
