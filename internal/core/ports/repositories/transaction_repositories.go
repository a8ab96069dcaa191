package repositories

import (
	"context"
	"time"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionFilters captures the optional filters for transaction listing.
// Nil fields are ignored.
type TransactionFilters struct {
	AccountID       *string
	CategoryID      *string
	StatementID     *string
	TransactionType *domain.TransactionType
	StartDate       *time.Time
	EndDate         *time.Time
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
	Search          *string
	Limit           int
	Offset          int
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated list of a user's transactions,
	// newest first. It also returns the total count matching the filters.
	ListTransactions(ctx context.Context, userID string, filters TransactionFilters) ([]domain.Transaction, int64, error)

	// FindExistingDedupHashes reports which of the given dedup hashes already
	// exist for the account.
	FindExistingDedupHashes(ctx context.Context, accountID string, hashes []string) (map[string]struct{}, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransaction persists a new transaction.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactionsInTx persists a batch of transactions within a database
	// transaction, skipping rows whose dedup hash already exists for the account.
	// It returns the number of rows actually inserted.
	SaveTransactionsInTx(ctx context.Context, tx pgx.Tx, txns []domain.Transaction) (int, error)

	// UpdateTransaction updates an existing transaction's details.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error

	// MarkTransactionDeleted marks a transaction as deleted (soft delete).
	MarkTransactionDeleted(ctx context.Context, transactionID string, deletedAt time.Time, deletedBy string) error
}

// TransactionAggregator defines aggregate queries used by insights.
type TransactionAggregator interface {
	// SumByTypeInRange returns the total credited and debited amounts and the
	// number of transactions for a user within the given date range.
	SumByTypeInRange(ctx context.Context, userID string, from, to time.Time) (credits decimal.Decimal, debits decimal.Decimal, count int64, err error)

	// FindRecentTransactions retrieves the most recent transactions for a user.
	FindRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionAggregator
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
