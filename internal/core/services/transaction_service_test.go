package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/core/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock TransactionRepository ---
// Implements TransactionRepositoryWithTx so the statement suite can reuse it.
// FindExistingDedupHashesFn, when set, computes the result from the actual
// hashes instead of a canned map.
type MockTransactionRepository struct {
	mock.Mock
	FindExistingDedupHashesFn func(accountID string, hashes []string) map[string]struct{}
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	var txn *domain.Transaction
	if args.Get(0) != nil {
		txn = args.Get(0).(*domain.Transaction)
	}
	return txn, args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, userID string, filters portsrepo.TransactionFilters) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, userID, filters)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindExistingDedupHashes(ctx context.Context, accountID string, hashes []string) (map[string]struct{}, error) {
	args := m.Called(ctx, accountID, hashes)
	if m.FindExistingDedupHashesFn != nil {
		return m.FindExistingDedupHashesFn(accountID, hashes), args.Error(1)
	}
	var existing map[string]struct{}
	if args.Get(0) != nil {
		existing = args.Get(0).(map[string]struct{})
	}
	return existing, args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) (int, error) {
	args := m.Called(ctx, tx, txns)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) MarkTransactionDeleted(ctx context.Context, transactionID string, deletedAt time.Time, deletedBy string) error {
	args := m.Called(ctx, transactionID, deletedAt, deletedBy)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumByTypeInRange(ctx context.Context, userID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, int64, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Get(2).(int64), args.Error(3)
}

func (m *MockTransactionRepository) FindRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	return txns, args.Error(1)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	var tx pgx.Tx
	if args.Get(0) != nil {
		tx = args.Get(0).(pgx.Tx)
	}
	return tx, args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- Test Suite ---
type TransactionServiceTestSuite struct {
	suite.Suite
	mockTransactionRepo *MockTransactionRepository
	mockAccountRepo     *MockAccountRepository
	service             portssvc.TransactionSvcFacade
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.mockTransactionRepo = new(MockTransactionRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewTransactionService(suite.mockTransactionRepo, suite.mockAccountRepo)
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	account := &domain.BankAccount{AccountID: accountID, UserID: userID}
	req := dto.CreateTransactionRequest{
		AccountID:       accountID,
		TransactionDate: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Description:     "Coffee",
		Amount:          decimal.RequireFromString("4.50"),
		Type:            domain.Debit,
	}
	wantHash := domain.DedupHash(userID, accountID, req.TransactionDate, req.Amount, req.Description, req.Type, "")

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()
	suite.mockTransactionRepo.On("SaveTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.UserID == userID && txn.DedupHash == wantHash && txn.Amount.Equal(req.Amount)
	})).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, userID, req)

	suite.Require().NoError(err)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(wantHash, txn.DedupHash)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_OtherUsersAccount() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := &domain.BankAccount{AccountID: accountID, UserID: uuid.NewString()}
	req := dto.CreateTransactionRequest{
		AccountID:       accountID,
		TransactionDate: time.Now(),
		Description:     "Coffee",
		Amount:          decimal.RequireFromString("4.50"),
		Type:            domain.Debit,
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

	txn, err := suite.service.CreateTransaction(ctx, uuid.NewString(), req)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *TransactionServiceTestSuite) TestCreateTransaction_NonPositiveAmount() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	account := &domain.BankAccount{AccountID: accountID, UserID: userID}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.RequireFromString("-10")} {
		suite.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(account, nil).Once()

		txn, err := suite.service.CreateTransaction(ctx, userID, dto.CreateTransactionRequest{
			AccountID:       accountID,
			TransactionDate: time.Now(),
			Description:     "Bad amount",
			Amount:          amount,
			Type:            domain.Debit,
		})

		suite.Require().Error(err)
		suite.Nil(txn)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockTransactionRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *TransactionServiceTestSuite) TestGetTransactionByID_OtherUsersTransaction() {
	ctx := context.Background()
	transactionID := uuid.NewString()
	owned := &domain.Transaction{TransactionID: transactionID, UserID: uuid.NewString()}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, transactionID).Return(owned, nil).Once()

	txn, err := suite.service.GetTransactionByID(ctx, uuid.NewString(), transactionID)

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestListTransactions_ClampsPagination() {
	ctx := context.Background()
	userID := uuid.NewString()

	suite.mockTransactionRepo.On("ListTransactions", ctx, userID, mock.MatchedBy(func(filters portsrepo.TransactionFilters) bool {
		return filters.Limit == 50 && filters.Offset == 0
	})).Return([]domain.Transaction{}, int64(0), nil).Twice()

	_, _, err := suite.service.ListTransactions(ctx, userID, portsrepo.TransactionFilters{Limit: 0, Offset: -5})
	suite.Require().NoError(err)
	_, _, err = suite.service.ListTransactions(ctx, userID, portsrepo.TransactionFilters{Limit: 10000})
	suite.Require().NoError(err)

	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestListTransactions_PassesFiltersThrough() {
	ctx := context.Background()
	userID := uuid.NewString()
	accountID := uuid.NewString()
	txnType := domain.Credit
	filters := portsrepo.TransactionFilters{AccountID: &accountID, TransactionType: &txnType, Limit: 25}
	expected := []domain.Transaction{{TransactionID: uuid.NewString(), UserID: userID}}

	suite.mockTransactionRepo.On("ListTransactions", ctx, userID, filters).Return(expected, int64(1), nil).Once()

	txns, total, err := suite.service.ListTransactions(ctx, userID, filters)

	suite.Require().NoError(err)
	suite.Len(txns, 1)
	suite.Equal(int64(1), total)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestUpdateTransaction_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	transactionID := uuid.NewString()
	existing := &domain.Transaction{TransactionID: transactionID, UserID: userID, Description: "raw import text"}
	newDescription := "Monthly rent"
	categoryID := uuid.NewString()

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, transactionID).Return(existing, nil).Once()
	suite.mockTransactionRepo.On("UpdateTransaction", ctx, mock.MatchedBy(func(txn domain.Transaction) bool {
		return txn.Description == newDescription && txn.CategoryID == categoryID && txn.LastUpdatedBy == userID
	})).Return(nil).Once()

	txn, err := suite.service.UpdateTransaction(ctx, userID, transactionID, dto.UpdateTransactionRequest{
		Description: &newDescription,
		CategoryID:  &categoryID,
	})

	suite.Require().NoError(err)
	suite.Equal(newDescription, txn.Description)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func (suite *TransactionServiceTestSuite) TestDeleteTransaction_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	transactionID := uuid.NewString()
	existing := &domain.Transaction{TransactionID: transactionID, UserID: userID}

	suite.mockTransactionRepo.On("FindTransactionByID", ctx, transactionID).Return(existing, nil).Once()
	suite.mockTransactionRepo.On("MarkTransactionDeleted", ctx, transactionID, mock.AnythingOfType("time.Time"), userID).Return(nil).Once()

	err := suite.service.DeleteTransaction(ctx, userID, transactionID)

	suite.Require().NoError(err)
	suite.mockTransactionRepo.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}
