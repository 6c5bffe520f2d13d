package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FileDirectory links already-uploaded files to complaints. Upload and
// signed-URL issuance happen in a separate service; only the metadata
// rows live here.
type FileDirectory interface {
	Attach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error)
	Detach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error)
}

type fileDirectory struct {
	pool *pgxpool.Pool
}

// NewFileDirectory builds a Postgres-backed file directory.
func NewFileDirectory(pool *pgxpool.Pool) FileDirectory {
	return &fileDirectory{pool: pool}
}

func (r *fileDirectory) Attach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error) {
	const query = `
		UPDATE files
		SET complaint_id = $2, updated_at = NOW()
		WHERE id = $1 AND complaint_id IS NULL
		RETURNING name`
	var name string
	if err := r.pool.QueryRow(ctx, query, fileID, complaintID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}

func (r *fileDirectory) Detach(ctx context.Context, fileID, complaintID uuid.UUID) (string, error) {
	const query = `
		UPDATE files
		SET complaint_id = NULL, updated_at = NOW()
		WHERE id = $1 AND complaint_id = $2
		RETURNING name`
	var name string
	if err := r.pool.QueryRow(ctx, query, fileID, complaintID).Scan(&name); err != nil {
		return "", err
	}
	return name, nil
}
