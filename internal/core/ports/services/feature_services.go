package services

import (
	"context"

	"github.com/finlens/finlens_backend/internal/core/domain"
)

// FeatureReaderSvc defines read operations for feature flags
type FeatureReaderSvc interface {
	// ListFeatures resolves the effective feature states for a user,
	// applying per-user overrides on top of the defaults.
	ListFeatures(ctx context.Context, userID string) ([]domain.FeatureState, error)

	// IsFeatureEnabled reports whether a single feature is enabled for a user.
	IsFeatureEnabled(ctx context.Context, userID string, key string) (bool, error)
}

// FeatureWriterSvc defines write operations for feature flags
type FeatureWriterSvc interface {
	// SetUserFeature sets a user's override for a feature.
	SetUserFeature(ctx context.Context, userID string, key string, enabled bool) error

	// ToggleUserFeature flips a user's effective state for a feature and
	// returns the new state.
	ToggleUserFeature(ctx context.Context, userID string, key string) (bool, error)
}

// FeatureSvcFacade combines all feature-flag service interfaces
type FeatureSvcFacade interface {
	FeatureReaderSvc
	FeatureWriterSvc
}
