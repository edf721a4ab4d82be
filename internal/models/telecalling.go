package models

import "time"

type CallType string

const (
	CallTypeInbound  CallType = "inbound"
	CallTypeOutbound CallType = "outbound"
)

type CallStatus string

const (
	CallStatusAnswered CallStatus = "answered"
	CallStatusMissed   CallStatus = "missed"
	CallStatusRejected CallStatus = "rejected"
)

type CallOutcome string

const (
	CallOutcomeInterested    CallOutcome = "interested"
	CallOutcomeFollowup      CallOutcome = "followup"
	CallOutcomeNotInterested CallOutcome = "not_interested"
	CallOutcomeNotReachable  CallOutcome = "not_reachable"
)

// CallLog tracks a single telecalling call, live while IsLive is set.
type CallLog struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	TenantID     string      `gorm:"size:36;index;not null" json:"tenantId"`
	LeadID       string      `gorm:"size:36;not null" json:"leadId"`
	EmployeeID   string      `gorm:"size:36;index;not null" json:"employeeId"`
	CallType     CallType    `gorm:"size:10;not null" json:"callType"`
	Status       CallStatus  `gorm:"size:10" json:"status,omitempty"`
	WasConnected bool        `json:"wasConnected"`
	Reason       string      `gorm:"size:255" json:"reason,omitempty"`
	Outcome      CallOutcome `gorm:"size:16" json:"outcome,omitempty"`
	DurationSecs int         `json:"duration"`
	IsLive       bool        `gorm:"index" json:"isLive"`
	StartedAt    *time.Time  `json:"startedAt,omitempty"`
	EndedAt      *time.Time  `json:"endedAt,omitempty"`
	RecordingURL string      `gorm:"size:512" json:"recordingUrl,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CallRetry queues a lead for a later call attempt after an unreachable
// outcome. Swept periodically by the telecalling retry worker.
type CallRetry struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	TenantID    string     `gorm:"size:36;index;not null" json:"tenantId"`
	LeadID      string     `gorm:"size:36;not null" json:"leadId"`
	EmployeeID  string     `gorm:"size:36" json:"employeeId,omitempty"`
	RetryCount  int        `gorm:"default:1" json:"retryCount"`
	NextRetryAt *time.Time `gorm:"index" json:"nextRetryAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
