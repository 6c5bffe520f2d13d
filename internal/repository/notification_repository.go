package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gira-airport/complaint-service/internal/domain"
)

const notificationColumns = `id, channel, recipient_id, subject, body, status, sent_at, read_at,
               complaint_id, created_at, updated_at`

// NotificationRepository persists dispatch attempts and their delivery
// state.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	Update(ctx context.Context, notification *domain.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]domain.Notification, error)
	ListFailed(ctx context.Context) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository instantiates the repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (channel, recipient_id, subject, body, status, complaint_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		notification.Channel,
		notification.RecipientID,
		notification.Subject,
		notification.Body,
		notification.Status,
		notification.ComplaintID,
	).Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt)
}

func (r *notificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	const query = `
        UPDATE notifications SET status=$1, sent_at=$2, read_at=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		notification.Status,
		notification.SentAt,
		notification.ReadAt,
		notification.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	var notification domain.Notification
	if err := scanNotification(r.pool.QueryRow(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id=$1`, id), &notification); err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	const query = `SELECT ` + notificationColumns + `
        FROM notifications WHERE recipient_id=$1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.fetchMany(ctx, query, recipientID, limit, offset)
}

func (r *notificationRepository) ListFailed(ctx context.Context) ([]domain.Notification, error) {
	const query = `SELECT ` + notificationColumns + `
        FROM notifications WHERE status='Failed' ORDER BY created_at ASC`
	return r.fetchMany(ctx, query)
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE recipient_id=$1 AND channel='Push' AND status='Sent'`,
		recipientID,
	).Scan(&count)
	return count, err
}

func (r *notificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *notificationRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Notification, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Notification
	for rows.Next() {
		var notification domain.Notification
		if err := scanNotification(rows, &notification); err != nil {
			return nil, err
		}
		result = append(result, notification)
	}
	return result, rows.Err()
}

func scanNotification(row pgx.Row, notification *domain.Notification) error {
	return row.Scan(
		&notification.ID,
		&notification.Channel,
		&notification.RecipientID,
		&notification.Subject,
		&notification.Body,
		&notification.Status,
		&notification.SentAt,
		&notification.ReadAt,
		&notification.ComplaintID,
		&notification.CreatedAt,
		&notification.UpdatedAt,
	)
}
