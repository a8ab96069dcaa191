package repositories

import (
	"context"

	"github.com/finlens/finlens_backend/internal/core/domain"
)

// StatementReader defines read operations for statement data
type StatementReader interface {
	// FindStatementByID retrieves a specific statement by its unique identifier.
	FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error)

	// ListStatementsByUser retrieves all statements uploaded by a user, newest first.
	ListStatementsByUser(ctx context.Context, userID string) ([]domain.Statement, error)
}

// StatementWriter defines write operations for statement data
type StatementWriter interface {
	// SaveStatement persists a new statement record.
	SaveStatement(ctx context.Context, statement domain.Statement) error

	// UpdateStatement updates an existing statement's status and counters.
	UpdateStatement(ctx context.Context, statement domain.Statement) error

	// DeleteStatement removes a statement record. Imported transactions are
	// kept and detached from the statement.
	DeleteStatement(ctx context.Context, statementID string) error
}

// StatementRepositoryFacade combines all statement-related repository interfaces
type StatementRepositoryFacade interface {
	StatementReader
	StatementWriter
}
