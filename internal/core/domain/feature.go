package domain

// FeatureDefinition declares an application feature that can be toggled per
// user. Definitions are static rows seeded by migration.
type FeatureDefinition struct {
	Key            string `json:"key"` // Primary Key, e.g. "insights_dashboard"
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category"`
	DefaultEnabled bool   `json:"defaultEnabled"`
	IsPremium      bool   `json:"isPremium"`
	SortOrder      int    `json:"sortOrder"`
}

// UserFeatureFlag is one user's override of a feature definition. Users
// without an override fall back to the definition's default.
type UserFeatureFlag struct {
	UserID     string `json:"userID"`     // FK -> User
	FeatureKey string `json:"featureKey"` // FK -> FeatureDefinition
	Enabled    bool   `json:"enabled"`
	AuditFields
}

// FeatureState is the resolved view of one feature for one user: the
// definition merged with any user override.
type FeatureState struct {
	FeatureKey  string `json:"featureKey"`
	FeatureName string `json:"featureName"`
	Enabled     bool   `json:"enabled"`
	IsPremium   bool   `json:"isPremium"`
	Category    string `json:"category"`
}
