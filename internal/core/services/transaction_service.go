package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	portssvc "github.com/finlens/finlens_backend/internal/core/ports/services"
	"github.com/finlens/finlens_backend/internal/dto"
	"github.com/google/uuid"
)

// transactionServiceImpl implements the TransactionSvcFacade interface
type transactionServiceImpl struct {
	BaseService
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountRepo     portsrepo.AccountReader
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo portsrepo.TransactionRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.TransactionSvcFacade {
	return &transactionServiceImpl{
		transactionRepo: repo,
		accountRepo:     accountRepo,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionServiceImpl)(nil)

func (s *transactionServiceImpl) CreateTransaction(ctx context.Context, userID string, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account for transaction: %w", err)
	}
	if account.UserID != userID {
		return nil, apperrors.ErrForbidden
	}

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}

	now := time.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		TransactionDate: req.TransactionDate,
		Description:     req.Description,
		Amount:          req.Amount,
		Type:            req.Type,
		MerchantName:    req.MerchantName,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
		AuditFields:     domain.NewAuditFields(userID, now),
	}
	txn.DedupHash = domain.DedupHash(userID, req.AccountID, req.TransactionDate, req.Amount, req.Description, req.Type, req.ReferenceNumber)

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("account_id", req.AccountID))
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return &txn, nil
}

func (s *transactionServiceImpl) GetTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if txn.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return txn, nil
}

func (s *transactionServiceImpl) ListTransactions(ctx context.Context, userID string, filters portsrepo.TransactionFilters) ([]domain.Transaction, int64, error) {
	if filters.Limit <= 0 || filters.Limit > 500 {
		filters.Limit = 50
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	txns, total, err := s.transactionRepo.ListTransactions(ctx, userID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, total, nil
}

func (s *transactionServiceImpl) ListRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}
	txns, err := s.transactionRepo.FindRecentTransactions(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return txns, nil
}

func (s *transactionServiceImpl) UpdateTransaction(ctx context.Context, userID string, transactionID string, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	txn, err := s.GetTransactionByID(ctx, userID, transactionID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		txn.CategoryID = *req.CategoryID
	}
	if req.Description != nil {
		txn.Description = *req.Description
	}
	if req.MerchantName != nil {
		txn.MerchantName = *req.MerchantName
	}
	if req.Notes != nil {
		txn.Notes = *req.Notes
	}
	if req.IsRecurring != nil {
		txn.IsRecurring = *req.IsRecurring
	}
	if req.IsExcluded != nil {
		txn.IsExcluded = *req.IsExcluded
	}
	txn.Touch(userID, time.Now())

	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		s.LogError(ctx, err, "Failed to update transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}
	return txn, nil
}

func (s *transactionServiceImpl) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	if _, err := s.GetTransactionByID(ctx, userID, transactionID); err != nil {
		return err
	}
	if err := s.transactionRepo.MarkTransactionDeleted(ctx, transactionID, time.Now(), userID); err != nil {
		s.LogError(ctx, err, "Failed to delete transaction", slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}
