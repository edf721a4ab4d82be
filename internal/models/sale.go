package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/plugin/soft_delete"
)

type SaleStatus string

const (
	SaleStatusPending    SaleStatus = "pending"
	SaleStatusConfirmed  SaleStatus = "confirmed"
	SaleStatusProcessing SaleStatus = "processing"
	SaleStatusShipped    SaleStatus = "shipped"
	SaleStatusDelivered  SaleStatus = "delivered"
	SaleStatusCancelled  SaleStatus = "cancelled"
)

type SaleSource string

const (
	SaleSourceWebsite     SaleSource = "website"
	SaleSourceStore       SaleSource = "store"
	SaleSourcePhone       SaleSource = "phone"
	SaleSourceWhatsapp    SaleSource = "whatsapp"
	SaleSourceEmail       SaleSource = "email"
	SaleSourceSocialMedia SaleSource = "social_media"
	SaleSourceReferral    SaleSource = "referral"
	SaleSourceOther       SaleSource = "other"
)

type SalePriority string

const (
	SalePriorityLow    SalePriority = "low"
	SalePriorityMedium SalePriority = "medium"
	SalePriorityHigh   SalePriority = "high"
	SalePriorityUrgent SalePriority = "urgent"
)

// SaleItem is a priced sale line. Amount is quantity*rate minus discount plus
// tax, computed server side.
type SaleItem struct {
	ProductName string          `json:"productName"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxPercent  decimal.Decimal `json:"taxPercent"`
	Discount    decimal.Decimal `json:"discount"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleTotals is the priced summary of a sale's line items.
type SaleTotals struct {
	SubTotal       decimal.Decimal `json:"subTotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

type Sale struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	TenantID   string `gorm:"size:36;index;not null" json:"tenantId"`
	SaleNumber string `gorm:"size:64;uniqueIndex;not null" json:"saleNumber"`

	CustomerID      string `gorm:"size:36;not null" json:"customerId"`
	CustomerName    string `gorm:"size:255;not null" json:"customerName"`
	CustomerPhone   string `gorm:"size:32" json:"customerPhone,omitempty"`
	CustomerEmail   string `gorm:"size:255" json:"customerEmail,omitempty"`
	CustomerAddress string `gorm:"size:1024" json:"customerAddress,omitempty"`

	Items          []SaleItem      `gorm:"serializer:json" json:"items"`
	SubTotal       decimal.Decimal `gorm:"type:decimal(14,2)" json:"subTotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(14,2)" json:"taxAmount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"discountAmount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(14,2)" json:"totalAmount"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(14,2)" json:"paidAmount"`
	BalanceAmount  decimal.Decimal `gorm:"type:decimal(14,2)" json:"balanceAmount"`
	PaymentStatus  InvoiceStatus   `gorm:"size:16;default:unpaid" json:"paymentStatus"`
	PaymentMode    PaymentMode     `gorm:"size:16" json:"paymentMode,omitempty"`

	Status               SaleStatus `gorm:"size:16;default:pending;index" json:"status"`
	OrderDate            time.Time  `json:"orderDate"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty"`

	AssignedTo  *string      `gorm:"size:36" json:"assignedTo"`
	Notes       string       `gorm:"size:2048" json:"notes,omitempty"`
	Remarks     string       `gorm:"size:2048" json:"remarks,omitempty"`
	InvoiceID   *string      `gorm:"size:36" json:"invoiceId"`
	QuotationID *string      `gorm:"size:36" json:"quotationId"`
	Source      SaleSource   `gorm:"size:20;default:store" json:"source"`
	Priority    SalePriority `gorm:"size:10;default:medium" json:"priority"`

	CreatedBy string  `gorm:"size:36;not null" json:"createdBy"`
	UpdatedBy *string `gorm:"size:36" json:"updatedBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

// BeforeSave assigns the sale number on first save and keeps the balance in
// step with the totals.
func (s *Sale) BeforeSave(*gorm.DB) error {
	if s.ID == "" {
		s.ID = NewID()
	}

	if s.SaleNumber == "" {
		s.SaleNumber = fmt.Sprintf("SALE-%d", time.Now().UnixMilli())
	}

	if s.OrderDate.IsZero() {
		s.OrderDate = time.Now()
	}

	s.BalanceAmount = s.TotalAmount.Sub(s.PaidAmount)

	return nil
}
