package dto

import (
	"github.com/finlens/finlens_backend/internal/core/domain"
)

// SetFeatureRequest toggles one feature for the current user.
type SetFeatureRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// FeatureCheckResponse reports the effective state of one feature.
type FeatureCheckResponse struct {
	FeatureKey string `json:"featureKey"`
	Enabled    bool   `json:"enabled"`
}

// FeatureStateResponse is the resolved state of one feature for the user.
type FeatureStateResponse struct {
	FeatureKey  string `json:"featureKey"`
	FeatureName string `json:"featureName"`
	Enabled     bool   `json:"enabled"`
	IsPremium   bool   `json:"isPremium"`
	Category    string `json:"category"`
}

// ToListFeatureStateResponse converts resolved feature states to DTOs.
func ToListFeatureStateResponse(states []domain.FeatureState) []FeatureStateResponse {
	res := make([]FeatureStateResponse, len(states))
	for i, s := range states {
		res[i] = FeatureStateResponse{
			FeatureKey:  s.FeatureKey,
			FeatureName: s.FeatureName,
			Enabled:     s.Enabled,
			IsPremium:   s.IsPremium,
			Category:    s.Category,
		}
	}
	return res
}
