package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationChannel enumerates delivery channels. Wire-verbatim values.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "Email"
	ChannelPush  NotificationChannel = "Push"
	ChannelSMS   NotificationChannel = "SMS"
)

// ParseChannel rejects values outside the closed channel set.
func ParseChannel(value string) (NotificationChannel, bool) {
	switch NotificationChannel(value) {
	case ChannelEmail, ChannelPush, ChannelSMS:
		return NotificationChannel(value), true
	}
	return "", false
}

// NotificationStatus tracks delivery state. Pending -> Sent | Failed;
// Sent -> Read for the in-app (Push) channel only.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "Pending"
	NotificationSent    NotificationStatus = "Sent"
	NotificationFailed  NotificationStatus = "Failed"
	NotificationRead    NotificationStatus = "Read"
)

// Notification is one dispatch attempt to a recipient.
type Notification struct {
	Auditable
	Channel     NotificationChannel
	RecipientID uuid.UUID
	Subject     string
	Body        string
	Status      NotificationStatus
	SentAt      *time.Time
	ReadAt      *time.Time
	ComplaintID *uuid.UUID
}
