package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// ErrVersionConflict signals a lost-update detected by the optimistic
// version check on Update.
var ErrVersionConflict = errors.New("complaint version conflict")

const complaintColumns = `id, number, title, description, status, priority, category_id, sub_category_id,
               submitter_id, agent_id, location, resolved_at, due_at, breached,
               satisfaction, satisfaction_comment, metadata, version, created_at, updated_at`

// ComplaintRepository encapsulates complaint persistence.
type ComplaintRepository interface {
	Create(ctx context.Context, complaint *domain.Complaint) error
	Update(ctx context.Context, complaint *domain.Complaint) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error)
	GetByNumber(ctx context.Context, number string) (*domain.Complaint, error)
	ListBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]domain.Complaint, error)
	ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Complaint, error)
	ListAll(ctx context.Context) ([]domain.Complaint, error)
	ListOverdue(ctx context.Context, now time.Time) ([]domain.Complaint, error)
	MarkBreached(ctx context.Context, id uuid.UUID) (bool, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (number, title, description, status, priority, category_id, sub_category_id,
                                submitter_id, agent_id, location, due_at, breached, metadata)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.Number,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.CategoryID,
		complaint.SubCategoryID,
		complaint.SubmitterID,
		complaint.AgentID,
		complaint.Location,
		complaint.DueAt,
		complaint.Breached,
		complaint.Metadata,
	).Scan(&complaint.ID, &complaint.Version, &complaint.CreatedAt, &complaint.UpdatedAt)
}

// Update persists the aggregate with an optimistic version check so two
// concurrent editors cannot silently overwrite each other.
func (r *complaintRepository) Update(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        UPDATE complaints SET title=$1, description=$2, status=$3, priority=$4, agent_id=$5,
            resolved_at=$6, due_at=$7, breached=$8, satisfaction=$9, satisfaction_comment=$10,
            metadata=$11, version=version+1, updated_at=NOW()
        WHERE id=$12 AND version=$13`
	cmd, err := r.pool.Exec(ctx, query,
		complaint.Title,
		complaint.Description,
		complaint.Status,
		complaint.Priority,
		complaint.AgentID,
		complaint.ResolvedAt,
		complaint.DueAt,
		complaint.Breached,
		complaint.Satisfaction,
		complaint.SatisfactionComment,
		complaint.Metadata,
		complaint.ID,
		complaint.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	complaint.Version++
	return nil
}

func (r *complaintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM complaints WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *complaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id=$1`, id)
}

func (r *complaintRepository) GetByNumber(ctx context.Context, number string) (*domain.Complaint, error) {
	return r.fetchSingle(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE number=$1`, number)
}

func (r *complaintRepository) ListBySubmitter(ctx context.Context, submitterID uuid.UUID) ([]domain.Complaint, error) {
	return r.fetchMany(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE submitter_id=$1 ORDER BY created_at DESC`, submitterID)
}

func (r *complaintRepository) ListByAgent(ctx context.Context, agentID uuid.UUID) ([]domain.Complaint, error) {
	return r.fetchMany(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE agent_id=$1 ORDER BY created_at DESC`, agentID)
}

func (r *complaintRepository) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return r.fetchMany(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC`)
}

// ListOverdue selects escalation candidates through the breach index
// instead of scanning the whole table.
func (r *complaintRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Complaint, error) {
	const query = `SELECT ` + complaintColumns + `
        FROM complaints
        WHERE breached = FALSE AND due_at IS NOT NULL AND due_at < $1
          AND status NOT IN ('Resolved','Closed','Cancelled')
        ORDER BY due_at ASC`
	return r.fetchMany(ctx, query, now)
}

// MarkBreached flips the breached flag exactly once. The WHERE clause is
// the idempotency gate: a concurrent sweeper run loses the race and gets
// false back.
func (r *complaintRepository) MarkBreached(ctx context.Context, id uuid.UUID) (bool, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE complaints SET breached=TRUE, updated_at=NOW() WHERE id=$1 AND breached=FALSE`, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *complaintRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Complaint, error) {
	var complaint domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, arg), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) fetchMany(ctx context.Context, query string, args ...any) ([]domain.Complaint, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}

func scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	return row.Scan(
		&complaint.ID,
		&complaint.Number,
		&complaint.Title,
		&complaint.Description,
		&complaint.Status,
		&complaint.Priority,
		&complaint.CategoryID,
		&complaint.SubCategoryID,
		&complaint.SubmitterID,
		&complaint.AgentID,
		&complaint.Location,
		&complaint.ResolvedAt,
		&complaint.DueAt,
		&complaint.Breached,
		&complaint.Satisfaction,
		&complaint.SatisfactionComment,
		&complaint.Metadata,
		&complaint.Version,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
}
