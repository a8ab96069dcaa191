package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/finlens/finlens_backend/pkg/moneyparse"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.BankAccount, error) {
	args := m.Called(ctx, accountID)
	var account *domain.BankAccount
	if args.Get(0) != nil {
		account = args.Get(0).(*domain.BankAccount)
	}
	return account, args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.BankAccount, error) {
	args := m.Called(ctx, userID)
	var accounts []domain.BankAccount
	if args.Get(0) != nil {
		accounts = args.Get(0).([]domain.BankAccount)
	}
	return accounts, args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, balance, userID, now)
	return args.Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountSvcFacade
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsCurrencyAndBalance() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:        "Everyday Checking",
		AccountType: domain.AccountChecking,
		Institution: "ICICI",
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(account domain.BankAccount) bool {
		return account.UserID == userID &&
			account.CurrencyCode == string(moneyparse.DefaultCurrency) &&
			account.CurrentBalance.IsZero() &&
			account.IsActive
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, userID, req)

	suite.Require().NoError(err)
	suite.NotEmpty(account.AccountID)
	suite.Equal(userID, account.CreatedBy)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalance() {
	ctx := context.Background()
	userID := uuid.NewString()
	opening := decimal.RequireFromString("1250.75")
	req := dto.CreateAccountRequest{
		Name:         "Savings",
		AccountType:  domain.AccountSavings,
		CurrencyCode: "USD",
		Balance:      &opening,
	}

	suite.mockAccountRepo.On("SaveAccount", ctx, mock.MatchedBy(func(account domain.BankAccount) bool {
		return account.CurrencyCode == "USD" && account.CurrentBalance.Equal(opening)
	})).Return(nil).Once()

	account, err := suite.service.CreateAccount(ctx, userID, req)

	suite.Require().NoError(err)
	suite.True(account.CurrentBalance.Equal(opening))
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	expected := &domain.BankAccount{AccountID: accountID, UserID: userID, Name: "Checking"}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(expected, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, userID, accountID)

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_OtherUsersAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	owned := &domain.BankAccount{AccountID: accountID, UserID: uuid.NewString()}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(owned, nil).Once()

	account, err := suite.service.GetAccountByID(ctx, uuid.NewString(), accountID)

	suite.Require().Error(err)
	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccountServiceTestSuite) TestListAccounts_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expected := []domain.BankAccount{
		{AccountID: uuid.NewString(), UserID: userID, Name: "Checking"},
		{AccountID: uuid.NewString(), UserID: userID, Name: "Savings"},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, userID).Return(expected, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, userID)

	suite.Require().NoError(err)
	suite.Len(accounts, 2)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	existing := &domain.BankAccount{AccountID: accountID, UserID: userID, Name: "Old", IsActive: true}
	newName := "Renamed"
	inactive := false

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("UpdateAccount", ctx, mock.MatchedBy(func(account domain.BankAccount) bool {
		return account.Name == newName && !account.IsActive && account.LastUpdatedBy == userID
	})).Return(nil).Once()

	account, err := suite.service.UpdateAccount(ctx, userID, accountID, dto.UpdateAccountRequest{Name: &newName, IsActive: &inactive})

	suite.Require().NoError(err)
	suite.Equal(newName, account.Name)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	existing := &domain.BankAccount{AccountID: accountID, UserID: userID, IsActive: true}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(existing, nil).Once()
	suite.mockAccountRepo.On("DeactivateAccount", ctx, accountID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.DeactivateAccount(ctx, userID, accountID)

	suite.Require().NoError(err)
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	err := suite.service.DeactivateAccount(ctx, uuid.NewString(), accountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "DeactivateAccount")
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
