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
	"github.com/finlens/finlens_backend/pkg/moneyparse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountServiceImpl implements the AccountSvcFacade interface
type accountServiceImpl struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountServiceImpl{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountServiceImpl)(nil)

func (s *accountServiceImpl) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.BankAccount, error) {
	now := time.Now()

	currency := req.CurrencyCode
	if currency == "" {
		currency = string(moneyparse.DefaultCurrency)
	}

	balance := decimal.Zero
	if req.Balance != nil {
		balance = *req.Balance
	}

	account := domain.BankAccount{
		AccountID:          uuid.NewString(),
		UserID:             userID,
		Name:               req.Name,
		AccountType:        req.AccountType,
		Institution:        req.Institution,
		AccountNumberLast4: req.AccountNumberLast4,
		CurrencyCode:       currency,
		CurrentBalance:     balance,
		Color:              req.Color,
		IsActive:           true,
		AuditFields:        domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountServiceImpl) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.BankAccount, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return account, nil
}

func (s *accountServiceImpl) ListAccounts(ctx context.Context, userID string) ([]domain.BankAccount, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

func (s *accountServiceImpl) UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.BankAccount, error) {
	account, err := s.GetAccountByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Institution != nil {
		account.Institution = *req.Institution
	}
	if req.Color != nil {
		account.Color = *req.Color
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.Touch(userID, time.Now())

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

func (s *accountServiceImpl) DeactivateAccount(ctx context.Context, userID string, accountID string) error {
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate account", slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	return nil
}
