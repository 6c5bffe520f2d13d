package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// NotificationResponse is the wire shape of a notification record.
type NotificationResponse struct {
	ID          uuid.UUID                  `json:"id"`
	Channel     domain.NotificationChannel `json:"channel"`
	Subject     string                     `json:"subject"`
	Body        string                     `json:"body"`
	Status      domain.NotificationStatus  `json:"status"`
	ComplaintID *uuid.UUID                 `json:"complaint_id,omitempty"`
	SentAt      *time.Time                 `json:"sent_at,omitempty"`
	ReadAt      *time.Time                 `json:"read_at,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// FromNotification maps the record to its response.
func FromNotification(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          notification.ID,
		Channel:     notification.Channel,
		Subject:     notification.Subject,
		Body:        notification.Body,
		Status:      notification.Status,
		ComplaintID: notification.ComplaintID,
		SentAt:      notification.SentAt,
		ReadAt:      notification.ReadAt,
		CreatedAt:   notification.CreatedAt,
	}
}
