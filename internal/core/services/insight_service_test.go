package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InsightServiceTestSuite struct {
	suite.Suite
	mockAccountRepo     *MockAccountRepository
	mockTransactionRepo *MockTransactionRepository
	service             portssvc.InsightSvcFacade
}

func (suite *InsightServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.service = services.NewInsightService(suite.mockAccountRepo, suite.mockTransactionRepo)
}

func (suite *InsightServiceTestSuite) TestGetSummary_SkipsInactiveAccounts() {
	ctx := context.Background()
	userID := uuid.NewString()
	accounts := []domain.BankAccount{
		{AccountID: uuid.NewString(), UserID: userID, CurrentBalance: decimal.RequireFromString("1000.00"), IsActive: true},
		{AccountID: uuid.NewString(), UserID: userID, CurrentBalance: decimal.RequireFromString("250.50"), IsActive: true},
		{AccountID: uuid.NewString(), UserID: userID, CurrentBalance: decimal.RequireFromString("99999.99"), IsActive: false},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, userID).Return(accounts, nil).Once()
	suite.mockTransactionRepo.On("SumByTypeInRange", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, decimal.Zero, int64(0), nil).Once()
	suite.mockTransactionRepo.On("FindRecentTransactions", ctx, userID, 5).Return([]domain.Transaction{}, nil).Once()

	summary, err := suite.service.GetSummary(ctx, userID)

	suite.Require().NoError(err)
	suite.True(summary.TotalBalance.Equal(decimal.RequireFromString("1250.50")))
	suite.Equal(2, summary.AccountCount)
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *InsightServiceTestSuite) TestGetSummary_MonthlyFlow() {
	ctx := context.Background()
	userID := uuid.NewString()
	credits := decimal.RequireFromString("5000.00")
	debits := decimal.RequireFromString("3200.25")

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, userID).Return([]domain.BankAccount{}, nil).Once()
	suite.mockTransactionRepo.On("SumByTypeInRange", ctx, userID, mock.MatchedBy(func(from time.Time) bool {
		// Range starts at the first instant of the current month.
		now := time.Now()
		return from.Year() == now.Year() && from.Month() == now.Month() && from.Day() == 1 && from.Hour() == 0
	}), mock.AnythingOfType("time.Time")).Return(credits, debits, int64(17), nil).Once()
	suite.mockTransactionRepo.On("FindRecentTransactions", ctx, userID, 5).Return([]domain.Transaction{}, nil).Once()

	summary, err := suite.service.GetSummary(ctx, userID)

	suite.Require().NoError(err)
	suite.True(summary.CurrentMonth.Income.Equal(credits))
	suite.True(summary.CurrentMonth.Expenses.Equal(debits))
	suite.True(summary.CurrentMonth.Net.Equal(decimal.RequireFromString("1799.75")))
	suite.Equal(int64(17), summary.CurrentMonth.TransactionCount)
	suite.Equal(time.Now().Format("2006 January"), summary.CurrentMonth.Month)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *InsightServiceTestSuite) TestGetSummary_RecentTransactions() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	accounts := []domain.BankAccount{
		{AccountID: accountID, UserID: userID, Name: "Salary Account", CurrentBalance: decimal.Zero, IsActive: true},
	}
	recent := []domain.Transaction{
		{TransactionID: uuid.NewString(), UserID: userID, AccountID: accountID, Description: "Latest", Amount: decimal.RequireFromString("12.00"), Type: domain.Debit},
		{TransactionID: uuid.NewString(), UserID: userID, AccountID: uuid.NewString(), Description: "Older", Amount: decimal.RequireFromString("88.00"), Type: domain.Credit},
	}

	suite.mockAccountRepo.On("ListAccountsByUser", ctx, userID).Return(accounts, nil).Once()
	suite.mockTransactionRepo.On("SumByTypeInRange", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(decimal.Zero, decimal.Zero, int64(2), nil).Once()
	suite.mockTransactionRepo.On("FindRecentTransactions", ctx, userID, 5).Return(recent, nil).Once()

	summary, err := suite.service.GetSummary(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(summary.RecentTransactions, 2)
	suite.Equal("Latest", summary.RecentTransactions[0].Description)
	suite.Equal("Salary Account", summary.RecentTransactions[0].AccountName)
	suite.Equal("Unknown Account", summary.RecentTransactions[1].AccountName)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func TestInsightServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InsightServiceTestSuite))
}
