package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/objects"
	"github.com/Ukvalley1218/bestkitchennet-backend/internal/server/biz"
)

type InvoiceHandlersParams struct {
	fx.In

	InvoiceService *biz.InvoiceService
}

func NewInvoiceHandlers(params InvoiceHandlersParams) *InvoiceHandlers {
	return &InvoiceHandlers{
		InvoiceService: params.InvoiceService,
	}
}

type InvoiceHandlers struct {
	InvoiceService *biz.InvoiceService
}

func (h *InvoiceHandlers) CreateInvoice(c *gin.Context) {
	var req biz.CreateInvoiceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	invoice, err := h.InvoiceService.CreateInvoice(c.Request.Context(), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(invoice))
}

func (h *InvoiceHandlers) ListInvoices(c *gin.Context) {
	invoices, err := h.InvoiceService.ListInvoices(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, objects.OK(invoices))
}

// AddPayment records a payment against an invoice and returns the new invoice
// state with the payment.
func (h *InvoiceHandlers) AddPayment(c *gin.Context) {
	var req biz.AddPaymentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		JSONError(c, http.StatusBadRequest, errors.New("invalid request format"))
		return
	}

	payment, invoice, err := h.InvoiceService.AddPayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		ServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, objects.OK(gin.H{
		"payment": payment,
		"invoice": invoice,
	}))
}
