package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/plugin/soft_delete"
)

type CampaignType string

const (
	CampaignTypeOnline      CampaignType = "online"
	CampaignTypeOffline     CampaignType = "offline"
	CampaignTypeEmail       CampaignType = "email"
	CampaignTypeSMS         CampaignType = "sms"
	CampaignTypeSocialMedia CampaignType = "social_media"
	CampaignTypeGoogleAds   CampaignType = "google_ads"
	CampaignTypeFacebookAds CampaignType = "facebook_ads"
)

type CampaignCategory string

const (
	CampaignCategoryBrandAwareness CampaignCategory = "brand_awareness"
	CampaignCategoryLeadGeneration CampaignCategory = "lead_generation"
	CampaignCategorySales          CampaignCategory = "sales"
	CampaignCategoryRetention      CampaignCategory = "retention"
	CampaignCategorySurvey         CampaignCategory = "survey"
)

type CampaignStatus string

const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusActive    CampaignStatus = "active"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusCompleted CampaignStatus = "completed"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// CampaignMetrics are the tracked performance counters. The derived fields
// (cost per click, conversion rate, ROI) are recomputed on every metrics
// update from the raw counters and spend.
type CampaignMetrics struct {
	Impressions       int64           `json:"impressions"`
	Clicks            int64           `json:"clicks"`
	Conversions       int64           `json:"conversions"`
	LeadsGenerated    int64           `json:"leadsGenerated"`
	CostPerClick      decimal.Decimal `json:"costPerClick"`
	CostPerConversion decimal.Decimal `json:"costPerConversion"`
	ConversionRate    decimal.Decimal `json:"conversionRate"`
	ROI               decimal.Decimal `json:"roi"`
}

// CampaignContent is the creative attached to the campaign.
type CampaignContent struct {
	Headline       string   `json:"headline,omitempty"`
	Description    string   `json:"description,omitempty"`
	CallToAction   string   `json:"callToAction,omitempty"`
	LandingPageURL string   `json:"landingPageUrl,omitempty"`
	Images         []string `json:"images,omitempty"`
	Videos         []string `json:"videos,omitempty"`
}

type Campaign struct {
	ID             string           `gorm:"primaryKey;size:36" json:"id"`
	TenantID       string           `gorm:"size:36;index:idx_campaign_tenant_status;index;not null" json:"tenantId"`
	Name           string           `gorm:"size:255;not null" json:"name"`
	Type           CampaignType     `gorm:"size:20;not null" json:"type"`
	Category       CampaignCategory `gorm:"size:20;default:lead_generation" json:"category"`
	Status         CampaignStatus   `gorm:"size:16;default:draft;index:idx_campaign_tenant_status" json:"status"`
	Budget         decimal.Decimal  `gorm:"type:decimal(14,2);not null" json:"budget"`
	SpentAmount    decimal.Decimal  `gorm:"type:decimal(14,2)" json:"spentAmount"`
	TargetAudience string           `gorm:"size:512;not null" json:"targetAudience"`
	Description    string           `gorm:"size:2048" json:"description,omitempty"`
	StartDate      time.Time        `gorm:"not null" json:"startDate"`
	EndDate        time.Time        `gorm:"not null" json:"endDate"`

	Metrics CampaignMetrics `gorm:"serializer:json" json:"metrics"`
	Content CampaignContent `gorm:"serializer:json" json:"content"`
	LeadIDs []string        `gorm:"serializer:json" json:"leadIds,omitempty"`

	AssignedTo     *string `gorm:"size:36" json:"assignedTo"`
	CreatedBy      string  `gorm:"size:36;not null" json:"createdBy"`
	LastModifiedBy *string `gorm:"size:36" json:"lastModifiedBy"`

	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
	IsDeleted soft_delete.DeletedAt `gorm:"softDelete:flag" json:"-"`
}
