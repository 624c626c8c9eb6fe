package models

import (
	"time"
)

// Webhook is a registered inbound endpoint with its configured action cards.
// The actions column holds the JSON card array; the ingestion pipeline only
// ever reads it.
type Webhook struct {
	ID              string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name            string     `gorm:"type:varchar(255);not null" json:"name"`
	TriggerType     string     `gorm:"type:varchar(50);not null;index" json:"trigger_type"` // generic, meta_leadgen, vapi
	Active          bool       `gorm:"default:true" json:"active"`
	Actions         string     `gorm:"type:text" json:"actions"`  // JSON action cards
	Metadata        string     `gorm:"type:text" json:"metadata"` // free-form JSON
	TriggerCount    int64      `gorm:"default:0" json:"trigger_count"`
	LastTriggeredAt *time.Time `json:"last_triggered_at"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Webhook) TableName() string {
	return "webhooks"
}

// WebhookEvent is one row of the append-only raw delivery log. Rows are never
// updated or deleted; failed dispatches append a second row with a
// dispatch_error status instead.
type WebhookEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	WebhookID  string    `gorm:"type:varchar(36);not null;index" json:"webhook_id"`
	Method     string    `gorm:"type:varchar(10)" json:"method"`
	Headers    string    `gorm:"type:text" json:"headers"` // JSON
	Body       string    `gorm:"type:text" json:"body"`
	Query      string    `gorm:"type:text" json:"query"` // JSON
	Status     string    `gorm:"type:varchar(20);default:'received'" json:"status"` // received, dispatch_error
	ReceivedAt time.Time `gorm:"autoCreateTime" json:"received_at"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}

// List is a contact list. ContactCount is maintained by atomic increments at
// write time and must equal the number of ListContact rows referencing it.
type List struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	ContactCount int64     `gorm:"default:0" json:"contact_count"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (List) TableName() string {
	return "lists"
}

// ListContact is a normalized contact stored in a list. CustomFields keeps the
// complete original payload so nothing from the source event is lost.
type ListContact struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ListID       string    `gorm:"type:varchar(36);not null;index" json:"list_id"`
	Email        string    `gorm:"type:varchar(255);index" json:"email"`
	FullName     string    `gorm:"type:varchar(255)" json:"full_name"`
	Phone        string    `gorm:"type:varchar(50);index" json:"phone"`
	FirstName    string    `gorm:"type:varchar(255)" json:"first_name"`
	LastName     string    `gorm:"type:varchar(255)" json:"last_name"`
	Company      string    `gorm:"type:varchar(255)" json:"company"`
	CustomFields string    `gorm:"type:text" json:"custom_fields"` // original payload JSON
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ListContact) TableName() string {
	return "list_contacts"
}

// Lead tracks a provider leadgen id through the pipeline. CampaignCreated is
// the idempotency gate for campaign creation and only ever flips false to
// true, via a conditional update in the campaign launcher.
type Lead struct {
	LeadgenID       string     `gorm:"primaryKey;type:varchar(64)" json:"leadgen_id"`
	FormID          string     `gorm:"type:varchar(64)" json:"form_id"`
	PageID          string     `gorm:"type:varchar(64)" json:"page_id"`
	FieldData       string     `gorm:"type:text" json:"field_data"` // resolved fields JSON
	ProcessedAt     *time.Time `json:"processed_at"`
	ListID          string     `gorm:"type:varchar(36)" json:"list_id"`
	CampaignCreated bool       `gorm:"default:false" json:"campaign_created"`
	CampaignID      string     `gorm:"type:varchar(64)" json:"campaign_id"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Lead) TableName() string {
	return "leads"
}

// Campaign is the local creation record of an outbound calling campaign. The
// calling provider owns the campaign after creation; status here is only what
// we last read back.
type Campaign struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"` // provider-assigned
	Name          string    `gorm:"type:varchar(255)" json:"name"`
	PhoneNumberID string    `gorm:"type:varchar(64)" json:"phone_number_id"`
	AssistantID   string    `gorm:"type:varchar(64)" json:"assistant_id"`
	WorkflowID    string    `gorm:"type:varchar(64)" json:"workflow_id"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // scheduled, in-progress, ...
	AutoLaunch    bool      `json:"auto_launch"`
	CustomerCount int       `json:"customer_count"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// TestLead is a short-lived fixture for leadgen ids issued by the provider's
// testing tool, which cannot be fetched from the real API.
type TestLead struct {
	LeadgenID string    `gorm:"primaryKey;type:varchar(64)" json:"leadgen_id"`
	FieldData string    `gorm:"type:text" json:"field_data"` // JSON
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (TestLead) TableName() string {
	return "test_leads"
}
