package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/gira-airport/complaint-service/internal/api/dto"
	"github.com/gira-airport/complaint-service/internal/notification"
	apperrors "github.com/gira-airport/complaint-service/pkg/util/errorutil"
)

// NotificationsHandler exposes the caller's notification log.
type NotificationsHandler struct {
	dispatcher *notification.Dispatcher
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(dispatcher *notification.Dispatcher) *NotificationsHandler {
	return &NotificationsHandler{dispatcher: dispatcher}
}

// List GET /notifications.
func (h *NotificationsHandler) List(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)
	notifications, err := h.dispatcher.ListForRecipient(c.Context(), actor.ID, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, dto.FromNotification(&notifications[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UnreadCount GET /notifications/unread-count.
func (h *NotificationsHandler) UnreadCount(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	count, err := h.dispatcher.CountUnread(c.Context(), actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"unread": count}})
}

// MarkRead POST /notifications/:id/read.
func (h *NotificationsHandler) MarkRead(c *fiber.Ctx) error {
	actor, err := requireActor(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperrors.NewBadRequest("invalid notification id", nil)
	}
	updated, err := h.dispatcher.MarkRead(c.Context(), id, actor.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromNotification(updated)})
}

// RetryFailed POST /notifications/retry-failed. Administrative: replays
// every Failed message through its channel.
func (h *NotificationsHandler) RetryFailed(c *fiber.Ctx) error {
	sent, err := h.dispatcher.RetryFailed(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"retried": sent}})
}

// Purge DELETE /notifications/purge. Administrative: drops messages older
// than ?days (default 90).
func (h *NotificationsHandler) Purge(c *fiber.Ctx) error {
	days := queryInt(c, "days", 90)
	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := h.dispatcher.PurgeOlderThan(c.Context(), cutoff)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"purged": deleted}})
}

func queryInt(c *fiber.Ctx, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}
