package services

import (
	"context"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/finlens/finlens_backend/internal/dto"
)

// AccountReaderSvc defines read operations for bank account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account owned by the user.
	GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.BankAccount, error)

	// ListAccounts retrieves all accounts owned by the user.
	ListAccounts(ctx context.Context, userID string) ([]domain.BankAccount, error)
}

// AccountWriterSvc defines write operations for bank account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.BankAccount, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, userID string, accountID string, req dto.UpdateAccountRequest) (*domain.BankAccount, error)

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, userID string, accountID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
