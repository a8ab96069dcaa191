package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	db *pgxpool.Pool
}

func newPgxCategoryRepository(db *pgxpool.Pool) portsrepo.CategoryRepositoryFacade {
	return &PgxCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

const categoryColumns = `category_id, COALESCE(user_id, ''), name, category_type, color,
	icon, is_system, created_at, created_by, last_updated_at, last_updated_by`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var cat domain.Category
	err := row.Scan(
		&cat.CategoryID,
		&cat.UserID,
		&cat.Name,
		&cat.CategoryType,
		&cat.Color,
		&cat.Icon,
		&cat.IsSystem,
		&cat.CreatedAt,
		&cat.CreatedBy,
		&cat.LastUpdatedAt,
		&cat.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan category: %w", err)
	}
	return &cat, nil
}

func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
        INSERT INTO categories (category_id, user_id, name, category_type, color, icon,
            is_system, created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10, $11);
    `
	_, err := r.db.Exec(ctx, query,
		category.CategoryID,
		category.UserID,
		category.Name,
		category.CategoryType,
		category.Color,
		category.Icon,
		category.IsSystem,
		category.CreatedAt,
		category.CreatedBy,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}
	return nil
}

func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE category_id = $1 AND deleted_at IS NULL;`
	return scanCategory(r.db.QueryRow(ctx, query, categoryID))
}

func (r *PgxCategoryRepository) ListCategoriesByUser(ctx context.Context, userID string) ([]domain.Category, error) {
	// System categories plus the user's own, system first.
	query := `
        SELECT ` + categoryColumns + `
        FROM categories
        WHERE deleted_at IS NULL AND (is_system OR user_id = $1)
        ORDER BY is_system DESC, name;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		cat, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *cat)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating category rows: %w", rows.Err())
	}
	return categories, nil
}

func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
        UPDATE categories
        SET name = $1, color = $2, icon = $3, last_updated_at = $4, last_updated_by = $5
        WHERE category_id = $6 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		category.Name,
		category.Color,
		category.Icon,
		category.LastUpdatedAt,
		category.LastUpdatedBy,
		category.CategoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCategoryRepository) MarkCategoryDeleted(ctx context.Context, categoryID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE categories
        SET deleted_at = $1, last_updated_at = $1, last_updated_by = $2
        WHERE category_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.db.Exec(ctx, query, deletedAt, deletedBy, categoryID)
	if err != nil {
		return fmt.Errorf("failed to mark category deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
