// Package models defines the persisted entities. All tenant-scoped tables
// carry a tenant_id column; queries against them must be composed with the
// request's tenancy.TenantFilter.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/plugin/soft_delete"

	"github.com/Ukvalley1218/bestkitchennet-backend/internal/authz"
)

// NewID returns a fresh entity key.
func NewID() string {
	return uuid.NewString()
}

type TenantPlan string

const (
	TenantPlanTrial      TenantPlan = "trial"
	TenantPlanBasic      TenantPlan = "basic"
	TenantPlanPro        TenantPlan = "pro"
	TenantPlanEnterprise TenantPlan = "enterprise"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusCancelled TenantStatus = "cancelled"
)

// Tenant is an isolated customer organization. All business data is
// partitioned by tenant.
type Tenant struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Slug        string       `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Email       string       `gorm:"size:255;not null" json:"email"`
	Phone       string       `gorm:"size:32" json:"phone,omitempty"`
	Plan        TenantPlan   `gorm:"size:20;default:trial" json:"plan"`
	Status      TenantStatus `gorm:"size:20;default:active" json:"status"`
	TrialEndsAt *time.Time   `json:"trialEndsAt,omitempty"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusBlocked  UserStatus = "blocked"
)

// User is an account record. TenantID is nil for platform users
// (super admins) and set for company users.
type User struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID    *string    `gorm:"size:36;index" json:"tenantId"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Email       string     `gorm:"size:255;index;not null" json:"email"`
	Password    string     `gorm:"size:255;not null" json:"-"`
	Role        authz.Role `gorm:"size:32;not null" json:"role"`
	Department  string     `gorm:"size:64" json:"department,omitempty"`
	Status      UserStatus `gorm:"size:20;default:active" json:"status"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type LeadSource string

const (
	LeadSourceWebsite   LeadSource = "website"
	LeadSourceGoogleAds LeadSource = "google_ads"
	LeadSourceFacebook  LeadSource = "facebook"
	LeadSourceInstagram LeadSource = "instagram"
	LeadSourceWhatsapp  LeadSource = "whatsapp"
	LeadSourceReferral  LeadSource = "referral"
	LeadSourceManual    LeadSource = "manual"
)

type LeadType string

const (
	LeadTypeHot  LeadType = "hot"
	LeadTypeWarm LeadType = "warm"
	LeadTypeCold LeadType = "cold"
)

type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusQuoted     LeadStatus = "quoted"
	LeadStatusClosedWon  LeadStatus = "closed-won"
	LeadStatusClosedLost LeadStatus = "closed-lost"
)

// LeadStage tracks the telecalling pipeline, separate from the CRM status.
type LeadStage string

const (
	LeadStageAssigned   LeadStage = "assigned"
	LeadStageInterested LeadStage = "interested"
	LeadStageFollowup   LeadStage = "followup"
	LeadStageRetry      LeadStage = "retry"
	LeadStageClosed     LeadStage = "closed"
)

type Lead struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID         string     `gorm:"size:36;index;not null" json:"tenantId"`
	Name             string     `gorm:"size:255;not null" json:"name"`
	Email            string     `gorm:"size:255" json:"email,omitempty"`
	Phone            string     `gorm:"size:32" json:"phone,omitempty"`
	Source           LeadSource `gorm:"size:20;default:manual" json:"source"`
	LeadType         LeadType   `gorm:"size:10;default:warm" json:"leadType"`
	Status           LeadStatus `gorm:"size:20;default:new" json:"status"`
	Stage            LeadStage  `gorm:"size:20" json:"stage,omitempty"`
	AssignedTo       *string    `gorm:"size:36;index" json:"assignedTo"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate,omitempty"`
	Remarks          string     `gorm:"size:1024" json:"remarks,omitempty"`
	CreatedBy        string     `gorm:"size:36;not null" json:"createdBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type CustomerSource string

const (
	CustomerSourceLead   CustomerSource = "lead"
	CustomerSourceManual CustomerSource = "manual"
)

type Customer struct {
	ID              string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string         `gorm:"size:36;index;not null" json:"tenantId"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Email           string         `gorm:"size:255;index" json:"email,omitempty"`
	Phone           string         `gorm:"size:32;index" json:"phone,omitempty"`
	CompanyName     string         `gorm:"size:255" json:"companyName,omitempty"`
	BillingAddress  string         `gorm:"size:1024" json:"billingAddress,omitempty"`
	ShippingAddress string         `gorm:"size:1024" json:"shippingAddress,omitempty"`
	GSTIN           string         `gorm:"size:32" json:"gstin,omitempty"`
	PAN             string         `gorm:"size:16" json:"pan,omitempty"`
	Source          CustomerSource `gorm:"size:10;default:manual" json:"source"`
	LeadIDs         []string       `gorm:"serializer:json" json:"leadIds,omitempty"`
	CreatedBy       string         `gorm:"size:36;not null" json:"createdBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type ActivityType string

const (
	ActivityTypeCall     ActivityType = "call"
	ActivityTypeMeeting  ActivityType = "meeting"
	ActivityTypeFollowup ActivityType = "follow-up"
	ActivityTypeNote     ActivityType = "note"
)

type ActivityStatus string

const (
	ActivityStatusPending   ActivityStatus = "pending"
	ActivityStatusCompleted ActivityStatus = "completed"
)

type Activity struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string         `gorm:"size:36;index;not null" json:"tenantId"`
	Type        ActivityType   `gorm:"size:16;not null" json:"type"`
	LeadID      *string        `gorm:"size:36" json:"leadId"`
	CustomerID  *string        `gorm:"size:36" json:"customerId"`
	AssignedTo  string         `gorm:"size:36;not null" json:"assignedTo"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	Status      ActivityStatus `gorm:"size:16;default:pending" json:"status"`
	Remarks     string         `gorm:"size:1024" json:"remarks,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	CreatedBy   string         `gorm:"size:36;not null" json:"createdBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

// LineItem is a priced line on a quotation or invoice. Amount is the
// pre-tax line total (quantity * rate), computed server side.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	TaxPercent  decimal.Decimal `json:"taxPercent"`
	Amount      decimal.Decimal `json:"amount"`
}

type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusApproved QuotationStatus = "approved"
	QuotationStatusRejected QuotationStatus = "rejected"
)

// ApprovalEntry records a status transition on a quotation.
type ApprovalEntry struct {
	Action    string    `json:"action"`
	UserID    string    `json:"userId"`
	Timestamp time.Time `json:"timestamp"`
}

type Quotation struct {
	ID          string          `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string          `gorm:"size:36;index;not null" json:"tenantId"`
	QuoteNumber string          `gorm:"size:64;index;not null" json:"quoteNumber"`
	LeadID      *string         `gorm:"size:36" json:"leadId"`
	CustomerID  *string         `gorm:"size:36" json:"customerId"`
	Items       []LineItem      `gorm:"serializer:json" json:"items"`
	SubTotal    decimal.Decimal `gorm:"type:decimal(14,2)" json:"subTotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(14,2)" json:"taxAmount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2)" json:"totalAmount"`
	Status      QuotationStatus `gorm:"size:16;default:draft" json:"status"`
	ValidTill   *time.Time      `json:"validTill,omitempty"`
	ApprovalLog []ApprovalEntry `gorm:"serializer:json" json:"approvalLog,omitempty"`
	CreatedBy   string          `gorm:"size:36;not null" json:"createdBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
)

type Invoice struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	TenantID      string          `gorm:"size:36;index;not null" json:"tenantId"`
	InvoiceNumber string          `gorm:"size:64;index;not null" json:"invoiceNumber"`
	QuotationID   string          `gorm:"size:36;not null" json:"quotationId"`
	CustomerID    string          `gorm:"size:36;not null" json:"customerId"`
	Items         []LineItem      `gorm:"serializer:json" json:"items"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(14,2)" json:"subTotal"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(14,2)" json:"taxAmount"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2)" json:"totalAmount"`
	PaidAmount    decimal.Decimal `gorm:"type:decimal(14,2)" json:"paidAmount"`
	Status        InvoiceStatus   `gorm:"size:16;default:unpaid" json:"status"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	CreatedBy     string          `gorm:"size:36" json:"createdBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}

type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeCard         PaymentMode = "card"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeOther        PaymentMode = "other"
)

type Payment struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	TenantID        string          `gorm:"size:36;index;not null" json:"tenantId"`
	InvoiceID       string          `gorm:"size:36;index;not null" json:"invoiceId"`
	AmountPaid      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amountPaid"`
	PaymentMode     PaymentMode     `gorm:"size:16;not null" json:"paymentMode"`
	ReferenceNumber string          `gorm:"size:64" json:"referenceNumber,omitempty"`
	PaymentDate     time.Time       `json:"paymentDate"`
	ReceivedBy      string          `gorm:"size:36" json:"receivedBy"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns IDs and the payment date when absent.
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = NewID()
	}

	if p.PaymentDate.IsZero() {
		p.PaymentDate = time.Now()
	}

	return nil
}
