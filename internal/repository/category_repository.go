package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// CategoryRepository resolves taxonomy references. The taxonomy itself is
// managed elsewhere; complaints only read category names.
type CategoryRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	GetSubCategoryByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error)
}

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository instantiates the repository.
func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &categoryRepository{pool: pool}
}

func (r *categoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var category domain.Category
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, active, created_at, updated_at FROM categories WHERE id=$1`, id).Scan(
		&category.ID,
		&category.Name,
		&category.Active,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetSubCategoryByID(ctx context.Context, id uuid.UUID) (*domain.SubCategory, error) {
	var sub domain.SubCategory
	err := r.pool.QueryRow(ctx,
		`SELECT id, category_id, name, active, created_at, updated_at FROM sub_categories WHERE id=$1`, id).Scan(
		&sub.ID,
		&sub.CategoryID,
		&sub.Name,
		&sub.Active,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
