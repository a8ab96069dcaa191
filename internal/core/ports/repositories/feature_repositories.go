package repositories

import (
	"context"

	"github.com/finlens/finlens_backend/internal/core/domain"
)

// FeatureReader defines read operations for feature flag data
type FeatureReader interface {
	// ListFeatureDefinitions retrieves all known feature definitions.
	ListFeatureDefinitions(ctx context.Context) ([]domain.FeatureDefinition, error)

	// FindFeatureDefinitionByKey retrieves a feature definition by its key.
	FindFeatureDefinitionByKey(ctx context.Context, key string) (*domain.FeatureDefinition, error)

	// ListUserFeatureFlags retrieves a user's per-feature overrides.
	ListUserFeatureFlags(ctx context.Context, userID string) ([]domain.UserFeatureFlag, error)
}

// FeatureWriter defines write operations for feature flag data
type FeatureWriter interface {
	// UpsertUserFeatureFlag creates or replaces a user's override for a feature.
	UpsertUserFeatureFlag(ctx context.Context, flag domain.UserFeatureFlag) error
}

// FeatureRepositoryFacade combines all feature-flag repository interfaces
type FeatureRepositoryFacade interface {
	FeatureReader
	FeatureWriter
}
