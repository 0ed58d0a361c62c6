package models

import "time"

// VendorAccount maps a marketplace vendor to its connected Stripe account.
type VendorAccount struct {
	VendorID  string    `gorm:"type:varchar(128);primaryKey" json:"vendor_id"`
	AccountID string    `gorm:"type:varchar(128);not null" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (VendorAccount) TableName() string { return "vendor_accounts" }

// ProcessedEvent records a webhook event id that has already been dispatched.
type ProcessedEvent struct {
	EventID     string    `gorm:"type:varchar(255);primaryKey" json:"event_id"`
	EventType   string    `gorm:"type:varchar(128);not null" json:"event_type"`
	ProcessedAt time.Time `json:"processed_at"`
}

func (ProcessedEvent) TableName() string { return "processed_events" }
