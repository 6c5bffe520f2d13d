package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// AuditRepository stores the append-only audit trail. Append is the only
// mutation; entries are never updated or deleted.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds the repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_entries (complaint_id, actor_id, action, old_value, new_value, comment)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.ComplaintID,
		entry.ActorID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.Comment,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditRepository) ListByComplaint(ctx context.Context, complaintID uuid.UUID) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, complaint_id, actor_id, action, old_value, new_value, comment, created_at
        FROM audit_entries WHERE complaint_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditEntry
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.ComplaintID,
			&entry.ActorID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.Comment,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
