package services_test

import (
	"context"
	"testing"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FeatureRepository ---
type MockFeatureRepository struct {
	mock.Mock
}

func (m *MockFeatureRepository) ListFeatureDefinitions(ctx context.Context) ([]domain.FeatureDefinition, error) {
	args := m.Called(ctx)
	var defs []domain.FeatureDefinition
	if args.Get(0) != nil {
		defs = args.Get(0).([]domain.FeatureDefinition)
	}
	return defs, args.Error(1)
}

func (m *MockFeatureRepository) FindFeatureDefinitionByKey(ctx context.Context, key string) (*domain.FeatureDefinition, error) {
	args := m.Called(ctx, key)
	var def *domain.FeatureDefinition
	if args.Get(0) != nil {
		def = args.Get(0).(*domain.FeatureDefinition)
	}
	return def, args.Error(1)
}

func (m *MockFeatureRepository) ListUserFeatureFlags(ctx context.Context, userID string) ([]domain.UserFeatureFlag, error) {
	args := m.Called(ctx, userID)
	var flags []domain.UserFeatureFlag
	if args.Get(0) != nil {
		flags = args.Get(0).([]domain.UserFeatureFlag)
	}
	return flags, args.Error(1)
}

func (m *MockFeatureRepository) UpsertUserFeatureFlag(ctx context.Context, flag domain.UserFeatureFlag) error {
	args := m.Called(ctx, flag)
	return args.Error(0)
}

// --- Test Suite ---
type FeatureServiceTestSuite struct {
	suite.Suite
	mockFeatureRepo *MockFeatureRepository
	service         portssvc.FeatureSvcFacade
}

func (suite *FeatureServiceTestSuite) SetupTest() {
	suite.mockFeatureRepo = new(MockFeatureRepository)
	suite.service = services.NewFeatureService(suite.mockFeatureRepo)
}

func (suite *FeatureServiceTestSuite) TestListFeatures_MergesOverrides() {
	ctx := context.Background()
	userID := uuid.NewString()
	definitions := []domain.FeatureDefinition{
		{Key: "statement_upload", Name: "Statement Upload", DefaultEnabled: true},
		{Key: "insights_summary", Name: "Insights Summary", DefaultEnabled: true},
		{Key: "export_data", Name: "Export Data", DefaultEnabled: false},
	}
	overrides := []domain.UserFeatureFlag{
		{UserID: userID, FeatureKey: "insights_summary", Enabled: false},
		{UserID: userID, FeatureKey: "export_data", Enabled: true},
	}

	suite.mockFeatureRepo.On("ListFeatureDefinitions", ctx).Return(definitions, nil).Once()
	suite.mockFeatureRepo.On("ListUserFeatureFlags", ctx, userID).Return(overrides, nil).Once()

	states, err := suite.service.ListFeatures(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(states, 3)
	byKey := make(map[string]bool, len(states))
	for _, s := range states {
		byKey[s.FeatureKey] = s.Enabled
	}
	suite.True(byKey["statement_upload"])
	suite.False(byKey["insights_summary"])
	suite.True(byKey["export_data"])
	suite.mockFeatureRepo.AssertExpectations(suite.T())
}

func (suite *FeatureServiceTestSuite) TestIsFeatureEnabled_DefaultWithoutOverride() {
	ctx := context.Background()
	userID := uuid.NewString()
	def := &domain.FeatureDefinition{Key: "statement_upload", DefaultEnabled: true}

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "statement_upload").Return(def, nil).Once()
	suite.mockFeatureRepo.On("ListUserFeatureFlags", ctx, userID).Return([]domain.UserFeatureFlag{}, nil).Once()

	enabled, err := suite.service.IsFeatureEnabled(ctx, userID, "statement_upload")

	suite.Require().NoError(err)
	suite.True(enabled)
}

func (suite *FeatureServiceTestSuite) TestIsFeatureEnabled_OverrideWins() {
	ctx := context.Background()
	userID := uuid.NewString()
	def := &domain.FeatureDefinition{Key: "statement_upload", DefaultEnabled: true}
	overrides := []domain.UserFeatureFlag{{UserID: userID, FeatureKey: "statement_upload", Enabled: false}}

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "statement_upload").Return(def, nil).Once()
	suite.mockFeatureRepo.On("ListUserFeatureFlags", ctx, userID).Return(overrides, nil).Once()

	enabled, err := suite.service.IsFeatureEnabled(ctx, userID, "statement_upload")

	suite.Require().NoError(err)
	suite.False(enabled)
}

func (suite *FeatureServiceTestSuite) TestSetUserFeature_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	def := &domain.FeatureDefinition{Key: "export_data", DefaultEnabled: false}

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "export_data").Return(def, nil).Once()
	suite.mockFeatureRepo.On("UpsertUserFeatureFlag", ctx, mock.MatchedBy(func(flag domain.UserFeatureFlag) bool {
		return flag.UserID == userID && flag.FeatureKey == "export_data" && flag.Enabled
	})).Return(nil).Once()

	err := suite.service.SetUserFeature(ctx, userID, "export_data", true)

	suite.Require().NoError(err)
	suite.mockFeatureRepo.AssertExpectations(suite.T())
}

func (suite *FeatureServiceTestSuite) TestSetUserFeature_UnknownKey() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "no_such_feature").Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.SetUserFeature(ctx, userID, "no_such_feature", true)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeatureRepo.AssertNotCalled(suite.T(), "UpsertUserFeatureFlag")
}

func (suite *FeatureServiceTestSuite) TestToggleUserFeature_FlipsDefault() {
	ctx := context.Background()
	userID := uuid.NewString()
	def := &domain.FeatureDefinition{Key: "statement_upload", DefaultEnabled: true}

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "statement_upload").Return(def, nil).Twice()
	suite.mockFeatureRepo.On("ListUserFeatureFlags", ctx, userID).Return([]domain.UserFeatureFlag{}, nil).Once()
	suite.mockFeatureRepo.On("UpsertUserFeatureFlag", ctx, mock.MatchedBy(func(flag domain.UserFeatureFlag) bool {
		return flag.UserID == userID && flag.FeatureKey == "statement_upload" && !flag.Enabled
	})).Return(nil).Once()

	enabled, err := suite.service.ToggleUserFeature(ctx, userID, "statement_upload")

	suite.Require().NoError(err)
	suite.False(enabled)
	suite.mockFeatureRepo.AssertExpectations(suite.T())
}

func (suite *FeatureServiceTestSuite) TestToggleUserFeature_FlipsOverride() {
	ctx := context.Background()
	userID := uuid.NewString()
	def := &domain.FeatureDefinition{Key: "export_data", DefaultEnabled: false}
	overrides := []domain.UserFeatureFlag{{UserID: userID, FeatureKey: "export_data", Enabled: false}}

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "export_data").Return(def, nil).Twice()
	suite.mockFeatureRepo.On("ListUserFeatureFlags", ctx, userID).Return(overrides, nil).Once()
	suite.mockFeatureRepo.On("UpsertUserFeatureFlag", ctx, mock.MatchedBy(func(flag domain.UserFeatureFlag) bool {
		return flag.FeatureKey == "export_data" && flag.Enabled
	})).Return(nil).Once()

	enabled, err := suite.service.ToggleUserFeature(ctx, userID, "export_data")

	suite.Require().NoError(err)
	suite.True(enabled)
	suite.mockFeatureRepo.AssertExpectations(suite.T())
}

func (suite *FeatureServiceTestSuite) TestToggleUserFeature_UnknownKey() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockFeatureRepo.On("FindFeatureDefinitionByKey", ctx, "no_such_feature").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ToggleUserFeature(ctx, userID, "no_such_feature")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockFeatureRepo.AssertNotCalled(suite.T(), "UpsertUserFeatureFlag")
}

func TestFeatureServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FeatureServiceTestSuite))
}
