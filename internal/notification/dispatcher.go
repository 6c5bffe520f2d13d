// Package notification routes lifecycle notifications through their
// delivery channels and tracks per-message delivery state.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gira-airport/complaint-service/internal/clock"
	"github.com/gira-airport/complaint-service/internal/domain"
	"github.com/gira-airport/complaint-service/internal/repository"
	apperrors "github.com/gira-airport/complaint-service/pkg/util/errorutil"
)

// Dispatcher persists every dispatch attempt and routes it by channel.
// Channel failures never propagate to the triggering mutation: the
// message is downgraded to Failed and kept for later retry.
type Dispatcher struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	email         EmailGateway
	realtime      RealtimeChannel
	clock         clock.Clock
	logger        *zap.Logger
}

// NewDispatcher constructs the dispatcher.
func NewDispatcher(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	email EmailGateway,
	realtime RealtimeChannel,
	clk clock.Clock,
	logger *zap.Logger,
) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clk == nil {
		clk = clock.System()
	}
	return &Dispatcher{
		notifications: notifications,
		users:         users,
		email:         email,
		realtime:      realtime,
		clock:         clk,
		logger:        logger,
	}
}

// Send persists the message as Pending, attempts delivery, and records
// Sent or Failed. The returned error covers persistence only; delivery
// errors are absorbed into the Failed status.
func (d *Dispatcher) Send(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	if _, ok := domain.ParseChannel(string(notification.Channel)); !ok {
		return nil, apperrors.NewBadRequest("unknown notification channel", map[string]any{"channel": notification.Channel})
	}
	notification.Status = domain.NotificationPending
	if err := d.notifications.Create(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}

	d.deliver(ctx, notification)

	if err := d.notifications.Update(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

func (d *Dispatcher) deliver(ctx context.Context, notification *domain.Notification) {
	var err error
	switch notification.Channel {
	case domain.ChannelEmail:
		err = d.deliverEmail(ctx, notification)
	case domain.ChannelPush:
		err = d.realtime.Publish(ctx, "user:"+notification.RecipientID.String(), notification)
	case domain.ChannelSMS:
		// Accepted but no SMS provider is wired; the message is recorded
		// without transmission.
	}

	if err != nil {
		d.logger.Warn("notification delivery failed",
			zap.String("channel", string(notification.Channel)),
			zap.String("recipient_id", notification.RecipientID.String()),
			zap.Error(err))
		notification.Status = domain.NotificationFailed
		return
	}
	now := d.clock.Now()
	notification.Status = domain.NotificationSent
	notification.SentAt = &now
}

func (d *Dispatcher) deliverEmail(ctx context.Context, notification *domain.Notification) error {
	recipient, err := d.users.GetByID(ctx, notification.RecipientID)
	if err != nil {
		return err
	}
	return d.email.Send(ctx, recipient.Email, notification.Subject, notification.Body)
}

// MarkRead acknowledges an in-app notification. Only the recipient's own
// Push messages in Sent state can transition to Read.
func (d *Dispatcher) MarkRead(ctx context.Context, id, recipientID uuid.UUID) (*domain.Notification, error) {
	notification, err := d.notifications.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if notification.RecipientID != recipientID {
		return nil, apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
	}
	if notification.Channel != domain.ChannelPush {
		return nil, apperrors.NewBadRequest("only in-app notifications can be marked read", nil)
	}
	if notification.Status != domain.NotificationSent {
		return nil, apperrors.NewConflict("notification is not in Sent state", nil)
	}
	now := d.clock.Now()
	notification.Status = domain.NotificationRead
	notification.ReadAt = &now
	if err := d.notifications.Update(ctx, notification); err != nil {
		return nil, apperrors.MapError(err)
	}
	return notification, nil
}

// RetryFailed re-attempts delivery of every Failed message and returns
// how many went out.
func (d *Dispatcher) RetryFailed(ctx context.Context) (int, error) {
	failed, err := d.notifications.ListFailed(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	sent := 0
	for i := range failed {
		notification := &failed[i]
		d.deliver(ctx, notification)
		if err := d.notifications.Update(ctx, notification); err != nil {
			d.logger.Warn("failed to persist retried notification",
				zap.String("id", notification.ID.String()), zap.Error(err))
			continue
		}
		if notification.Status == domain.NotificationSent {
			sent++
		}
	}
	return sent, nil
}

// PurgeOlderThan removes messages created before the cutoff.
func (d *Dispatcher) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	deleted, err := d.notifications.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return deleted, nil
}

// ListForRecipient returns a recipient's notification feed.
func (d *Dispatcher) ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	items, err := d.notifications.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// CountUnread returns the number of unread in-app notifications.
func (d *Dispatcher) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	count, err := d.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}
