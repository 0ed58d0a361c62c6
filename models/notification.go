package models

import "time"

// Notification is a message relayed to the chat channel (and other sinks).
type Notification struct {
	Text      string    `json:"text"`
	EventID   string    `json:"event_id,omitempty"`
	EventType string    `json:"event_type,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
