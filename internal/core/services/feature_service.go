package services

import (
	"context"
	"fmt"
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
)

// featureServiceImpl implements the FeatureSvcFacade interface
type featureServiceImpl struct {
	BaseService
	featureRepo portsrepo.FeatureRepositoryFacade
}

// NewFeatureService creates a new feature flag service
func NewFeatureService(repo portsrepo.FeatureRepositoryFacade) portssvc.FeatureSvcFacade {
	return &featureServiceImpl{featureRepo: repo}
}

var _ portssvc.FeatureSvcFacade = (*featureServiceImpl)(nil)

func (s *featureServiceImpl) ListFeatures(ctx context.Context, userID string) ([]domain.FeatureState, error) {
	definitions, err := s.featureRepo.ListFeatureDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feature definitions: %w", err)
	}

	overrides, err := s.featureRepo.ListUserFeatureFlags(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user feature flags: %w", err)
	}
	overrideByKey := make(map[string]bool, len(overrides))
	for _, o := range overrides {
		overrideByKey[o.FeatureKey] = o.Enabled
	}

	states := make([]domain.FeatureState, len(definitions))
	for i, def := range definitions {
		enabled := def.DefaultEnabled
		if v, ok := overrideByKey[def.Key]; ok {
			enabled = v
		}
		states[i] = domain.FeatureState{
			FeatureKey:  def.Key,
			FeatureName: def.Name,
			Enabled:     enabled,
			IsPremium:   def.IsPremium,
			Category:    def.Category,
		}
	}
	return states, nil
}

func (s *featureServiceImpl) IsFeatureEnabled(ctx context.Context, userID string, key string) (bool, error) {
	def, err := s.featureRepo.FindFeatureDefinitionByKey(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to find feature definition: %w", err)
	}

	overrides, err := s.featureRepo.ListUserFeatureFlags(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to list user feature flags: %w", err)
	}
	for _, o := range overrides {
		if o.FeatureKey == key {
			return o.Enabled, nil
		}
	}
	return def.DefaultEnabled, nil
}

func (s *featureServiceImpl) ToggleUserFeature(ctx context.Context, userID string, key string) (bool, error) {
	enabled, err := s.IsFeatureEnabled(ctx, userID, key)
	if err != nil {
		return false, err
	}
	if err := s.SetUserFeature(ctx, userID, key, !enabled); err != nil {
		return false, err
	}
	return !enabled, nil
}

func (s *featureServiceImpl) SetUserFeature(ctx context.Context, userID string, key string, enabled bool) error {
	if _, err := s.featureRepo.FindFeatureDefinitionByKey(ctx, key); err != nil {
		return fmt.Errorf("unknown feature %q: %w", key, err)
	}

	now := time.Now()
	flag := domain.UserFeatureFlag{
		UserID:      userID,
		FeatureKey:  key,
		Enabled:     enabled,
		AuditFields: domain.NewAuditFields(userID, now),
	}
	if err := s.featureRepo.UpsertUserFeatureFlag(ctx, flag); err != nil {
		return fmt.Errorf("failed to set feature flag: %w", err)
	}
	return nil
}
