package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gira-airport/complaint-service/internal/domain"
	apperrors "github.com/gira-airport/complaint-service/pkg/util/errorutil"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type memoryNotificationRepo struct {
	records map[uuid.UUID]*domain.Notification
}

func newMemoryNotificationRepo() *memoryNotificationRepo {
	return &memoryNotificationRepo{records: make(map[uuid.UUID]*domain.Notification)}
}

func (r *memoryNotificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	copied := *notification
	r.records[notification.ID] = &copied
	return nil
}

func (r *memoryNotificationRepo) Update(_ context.Context, notification *domain.Notification) error {
	if _, ok := r.records[notification.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *notification
	r.records[notification.ID] = &copied
	return nil
}

func (r *memoryNotificationRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Notification, error) {
	stored, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *memoryNotificationRepo) ListByRecipient(_ context.Context, recipientID uuid.UUID, _, _ int) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, stored := range r.records {
		if stored.RecipientID == recipientID {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *memoryNotificationRepo) ListFailed(_ context.Context) ([]domain.Notification, error) {
	var result []domain.Notification
	for _, stored := range r.records {
		if stored.Status == domain.NotificationFailed {
			result = append(result, *stored)
		}
	}
	return result, nil
}

func (r *memoryNotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, stored := range r.records {
		if stored.RecipientID == recipientID && stored.Channel == domain.ChannelPush && stored.Status == domain.NotificationSent {
			count++
		}
	}
	return count, nil
}

func (r *memoryNotificationRepo) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	var deleted int64
	for id, stored := range r.records {
		if stored.CreatedAt.Before(cutoff) {
			delete(r.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func (r *stubUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return user, nil
}

func (r *stubUserRepo) ListSupervisors(_ context.Context) ([]domain.User, error) {
	return nil, nil
}

type stubEmailGateway struct {
	sent []string
	err  error
}

func (g *stubEmailGateway) Send(_ context.Context, to, _, _ string) error {
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, to)
	return nil
}

type stubRealtimeChannel struct {
	topics []string
	err    error
}

func (c *stubRealtimeChannel) Publish(_ context.Context, topic string, _ *domain.Notification) error {
	if c.err != nil {
		return c.err
	}
	c.topics = append(c.topics, topic)
	return nil
}

type dispatcherFixture struct {
	dispatcher *Dispatcher
	repo       *memoryNotificationRepo
	email      *stubEmailGateway
	realtime   *stubRealtimeChannel
	now        time.Time
	recipient  *domain.User
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	recipient := &domain.User{FirstName: "Aminata", LastName: "Diallo", Email: "aminata@example.com", Role: domain.RolePassenger, Active: true}
	recipient.ID = uuid.New()

	fx := &dispatcherFixture{
		repo:      newMemoryNotificationRepo(),
		email:     &stubEmailGateway{},
		realtime:  &stubRealtimeChannel{},
		now:       time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
		recipient: recipient,
	}
	fx.dispatcher = NewDispatcher(
		fx.repo,
		&stubUserRepo{users: map[uuid.UUID]*domain.User{recipient.ID: recipient}},
		fx.email,
		fx.realtime,
		fixedClock{now: fx.now},
		nil,
	)
	return fx
}

func (fx *dispatcherFixture) message(channel domain.NotificationChannel) *domain.Notification {
	return &domain.Notification{
		Channel:     channel,
		RecipientID: fx.recipient.ID,
		Subject:     "Mise à jour du statut de votre réclamation",
		Body:        "Le statut est passé à : InProgress",
	}
}

func TestSendPushPublishesToRecipientTopic(t *testing.T) {
	fx := newDispatcherFixture(t)

	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, fx.now, *sent.SentAt)
	require.Len(t, fx.realtime.topics, 1)
	assert.Equal(t, "user:"+fx.recipient.ID.String(), fx.realtime.topics[0])
}

func TestSendRejectsUnknownChannel(t *testing.T) {
	fx := newDispatcherFixture(t)
	message := fx.message(domain.NotificationChannel("FAX"))

	_, err := fx.dispatcher.Send(context.Background(), message)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "BAD_REQUEST"))
	assert.Empty(t, fx.repo.records)
}

func TestSendEmailResolvesRecipientAddress(t *testing.T) {
	fx := newDispatcherFixture(t)

	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelEmail))
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationSent, sent.Status)
	assert.Equal(t, []string{"aminata@example.com"}, fx.email.sent)
}

func TestSendEmailUnknownRecipientFailsSoftly(t *testing.T) {
	fx := newDispatcherFixture(t)
	message := fx.message(domain.ChannelEmail)
	message.RecipientID = uuid.New()

	sent, err := fx.dispatcher.Send(context.Background(), message)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, sent.Status)
	assert.Nil(t, sent.SentAt)
}

func TestSendDeliveryFailureIsRecordedNotReturned(t *testing.T) {
	fx := newDispatcherFixture(t)
	fx.realtime.err = errors.New("redis down")

	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, sent.Status)

	stored, err := fx.repo.GetByID(context.Background(), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationFailed, stored.Status)
}

func TestSendSMSAcceptedWithoutTransmission(t *testing.T) {
	fx := newDispatcherFixture(t)

	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelSMS))
	require.NoError(t, err)

	assert.Equal(t, domain.NotificationSent, sent.Status)
	assert.Empty(t, fx.email.sent)
	assert.Empty(t, fx.realtime.topics)
}

func TestMarkRead(t *testing.T) {
	fx := newDispatcherFixture(t)
	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)

	read, err := fx.dispatcher.MarkRead(context.Background(), sent.ID, fx.recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationRead, read.Status)
	require.NotNil(t, read.ReadAt)

	// Already read.
	_, err = fx.dispatcher.MarkRead(context.Background(), sent.ID, fx.recipient.ID)
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestMarkReadRejectsOtherRecipients(t *testing.T) {
	fx := newDispatcherFixture(t)
	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)

	_, err = fx.dispatcher.MarkRead(context.Background(), sent.ID, uuid.New())
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestMarkReadRejectsEmailChannel(t *testing.T) {
	fx := newDispatcherFixture(t)
	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelEmail))
	require.NoError(t, err)

	_, err = fx.dispatcher.MarkRead(context.Background(), sent.ID, fx.recipient.ID)
	require.Error(t, err)
	assert.Equal(t, "BAD_REQUEST", apperrors.ToDomainError(err).Code)
}

func TestRetryFailed(t *testing.T) {
	fx := newDispatcherFixture(t)
	fx.realtime.err = errors.New("redis down")
	sent, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)
	require.Equal(t, domain.NotificationFailed, sent.Status)

	fx.realtime.err = nil
	retried, err := fx.dispatcher.RetryFailed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retried)

	stored, err := fx.repo.GetByID(context.Background(), sent.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationSent, stored.Status)
}

func TestCountUnreadCountsOnlySentPush(t *testing.T) {
	fx := newDispatcherFixture(t)
	first, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)
	_, err = fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)
	_, err = fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelEmail))
	require.NoError(t, err)

	count, err := fx.dispatcher.CountUnread(context.Background(), fx.recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = fx.dispatcher.MarkRead(context.Background(), first.ID, fx.recipient.ID)
	require.NoError(t, err)
	count, err = fx.dispatcher.CountUnread(context.Background(), fx.recipient.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPurgeOlderThan(t *testing.T) {
	fx := newDispatcherFixture(t)
	_, err := fx.dispatcher.Send(context.Background(), fx.message(domain.ChannelPush))
	require.NoError(t, err)

	deleted, err := fx.dispatcher.PurgeOlderThan(context.Background(), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
