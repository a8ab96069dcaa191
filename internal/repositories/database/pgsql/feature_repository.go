package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFeatureRepository struct {
	db *pgxpool.Pool
}

func newPgxFeatureRepository(db *pgxpool.Pool) portsrepo.FeatureRepositoryFacade {
	return &PgxFeatureRepository{db: db}
}

var _ portsrepo.FeatureRepositoryFacade = (*PgxFeatureRepository)(nil)

const featureDefinitionColumns = `key, name, COALESCE(description, ''), category,
	default_enabled, is_premium, sort_order`

func scanFeatureDefinition(row pgx.Row) (*domain.FeatureDefinition, error) {
	var def domain.FeatureDefinition
	err := row.Scan(
		&def.Key,
		&def.Name,
		&def.Description,
		&def.Category,
		&def.DefaultEnabled,
		&def.IsPremium,
		&def.SortOrder,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan feature definition: %w", err)
	}
	return &def, nil
}

func (r *PgxFeatureRepository) ListFeatureDefinitions(ctx context.Context) ([]domain.FeatureDefinition, error) {
	query := `SELECT ` + featureDefinitionColumns + ` FROM feature_definitions ORDER BY sort_order, key;`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature definitions: %w", err)
	}
	defer rows.Close()

	definitions := []domain.FeatureDefinition{}
	for rows.Next() {
		def, err := scanFeatureDefinition(rows)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, *def)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating feature definition rows: %w", rows.Err())
	}
	return definitions, nil
}

func (r *PgxFeatureRepository) FindFeatureDefinitionByKey(ctx context.Context, key string) (*domain.FeatureDefinition, error) {
	query := `SELECT ` + featureDefinitionColumns + ` FROM feature_definitions WHERE key = $1;`
	return scanFeatureDefinition(r.db.QueryRow(ctx, query, key))
}

func (r *PgxFeatureRepository) ListUserFeatureFlags(ctx context.Context, userID string) ([]domain.UserFeatureFlag, error) {
	query := `
        SELECT user_id, feature_key, enabled, created_at, created_by, last_updated_at, last_updated_by
        FROM user_feature_flags
        WHERE user_id = $1;
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user feature flags: %w", err)
	}
	defer rows.Close()

	flags := []domain.UserFeatureFlag{}
	for rows.Next() {
		var flag domain.UserFeatureFlag
		err := rows.Scan(
			&flag.UserID,
			&flag.FeatureKey,
			&flag.Enabled,
			&flag.CreatedAt,
			&flag.CreatedBy,
			&flag.LastUpdatedAt,
			&flag.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user feature flag: %w", err)
		}
		flags = append(flags, flag)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user feature flag rows: %w", rows.Err())
	}
	return flags, nil
}

func (r *PgxFeatureRepository) UpsertUserFeatureFlag(ctx context.Context, flag domain.UserFeatureFlag) error {
	query := `
        INSERT INTO user_feature_flags (user_id, feature_key, enabled,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_id, feature_key) DO UPDATE SET
            enabled = EXCLUDED.enabled,
            last_updated_at = EXCLUDED.last_updated_at,
            last_updated_by = EXCLUDED.last_updated_by;
    `
	_, err := r.db.Exec(ctx, query,
		flag.UserID,
		flag.FeatureKey,
		flag.Enabled,
		flag.CreatedAt,
		flag.CreatedBy,
		flag.LastUpdatedAt,
		flag.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user feature flag: %w", err)
	}
	return nil
}
