// models/message_log.go
package models

import (
	"time"
)

type MessageType string

const (
	MessageReminder MessageType = "reminder"
	MessageThankYou MessageType = "thankYou"
	MessageFollowUp MessageType = "followUp"
)

func (t MessageType) IsValid() bool {
	switch t {
	case MessageReminder, MessageThankYou, MessageFollowUp:
		return true
	}
	return false
}

const (
	MessageSent   = "sent"
	MessageFailed = "failed"
)

// MessageLog records one delivery attempt of an invoice message.
type MessageLog struct {
	ID           string      `json:"_id" bson:"_id"`
	UserID       string      `json:"user" bson:"user"`
	InvoiceID    string      `json:"invoice" bson:"invoice"`
	Type         MessageType `json:"type" bson:"type"`
	Channel      string      `json:"channel" bson:"channel"` // sms
	To           string      `json:"to" bson:"to"`
	Body         string      `json:"body" bson:"body"`
	Status       string      `json:"status" bson:"status"` // sent, failed
	ProviderID   string      `json:"providerId,omitempty" bson:"providerId,omitempty"`
	ErrorMessage string      `json:"error,omitempty" bson:"error,omitempty"`
	SentAt       time.Time   `json:"sentAt" bson:"sentAt"`
}
