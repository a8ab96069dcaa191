package services_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/finlens/finlens_backend/internal/platform/config"
	"github.com/finlens/finlens_backend/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type TokenServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	cfg          *config.Config
	service      portssvc.TokenSvcFacade
}

func (suite *TokenServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.cfg = &config.Config{
		JWTSecret:                  "test-secret",
		JWTIssuer:                  "finlens-test",
		JWTExpiryDuration:          15 * time.Minute,
		RefreshTokenExpiryDuration: 7 * 24 * time.Hour,
	}
	userService := services.NewUserService(suite.mockUserRepo)
	suite.service = services.NewTokenService(suite.cfg, userService)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_RoundTrips() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	token, expiry, err := suite.service.GenerateAccessToken(ctx, user)

	suite.Require().NoError(err)
	suite.NotEmpty(token)
	suite.WithinDuration(time.Now().Add(suite.cfg.JWTExpiryDuration), expiry, 5*time.Second)

	claims, err := utils.ParseAndValidateJWT(token, suite.cfg.JWTSecret)
	suite.Require().NoError(err)
	suite.Equal(user.UserID, claims.Subject)
	suite.Equal(suite.cfg.JWTIssuer, claims.Issuer)
}

func (suite *TokenServiceTestSuite) TestGenerateAccessToken_RejectsWrongSecret() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	token, _, err := suite.service.GenerateAccessToken(ctx, user)
	suite.Require().NoError(err)

	_, err = utils.ParseAndValidateJWT(token, "some-other-secret")
	suite.Require().Error(err)
}

func (suite *TokenServiceTestSuite) TestGenerateRefreshToken_UniquePerCall() {
	ctx := context.Background()
	user := &domain.User{UserID: uuid.NewString()}

	first, expiry, err := suite.service.GenerateRefreshToken(ctx, user)
	suite.Require().NoError(err)
	second, _, err := suite.service.GenerateRefreshToken(ctx, user)
	suite.Require().NoError(err)

	suite.NotEmpty(first)
	suite.NotEqual(first, second)
	suite.WithinDuration(time.Now().Add(suite.cfg.RefreshTokenExpiryDuration), expiry, 5*time.Second)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	rawToken, err := utils.GenerateSecureRandomString(32)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       sql.NullString{String: utils.HashRefreshToken(rawToken), Valid: true},
		RefreshTokenExpiryTime: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	result, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, rawToken)

	suite.Require().NoError(err)
	suite.Equal(user, result)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_Expired() {
	ctx := context.Background()
	userID := uuid.NewString()
	rawToken, err := utils.GenerateSecureRandomString(32)
	suite.Require().NoError(err)

	user := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       sql.NullString{String: utils.HashRefreshToken(rawToken), Valid: true},
		RefreshTokenExpiryTime: sql.NullTime{Time: time.Now().Add(-time.Minute), Valid: true},
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	result, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, rawToken)

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_HashMismatch() {
	ctx := context.Background()
	userID := uuid.NewString()

	user := &domain.User{
		UserID:                 userID,
		RefreshTokenHash:       sql.NullString{String: utils.HashRefreshToken("some-other-token"), Valid: true},
		RefreshTokenExpiryTime: sql.NullTime{Time: time.Now().Add(time.Hour), Valid: true},
	}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	result, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, "stolen-token")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_NoStoredToken() {
	ctx := context.Background()
	userID := uuid.NewString()

	// A user who logged out has no stored hash and no expiry.
	user := &domain.User{UserID: userID}
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()

	result, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, "anything")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrRefreshTokenExpired)
}

func (suite *TokenServiceTestSuite) TestValidateAndParseRefreshToken_UnknownUser() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, apperrors.ErrNotFound).Once()

	result, err := suite.service.ValidateAndParseRefreshToken(ctx, userID, "anything")

	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func TestTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TokenServiceTestSuite))
}
