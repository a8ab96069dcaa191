package services

import (
	"context"

	"github.com/finlens/finlens_backend/internal/core/domain"
	"github.com/finlens/finlens_backend/internal/dto"
)

// StatementUploaderSvc defines the statement ingestion operations.
type StatementUploaderSvc interface {
	// UploadStatement parses an uploaded statement file, records the upload and
	// returns a preview of the parsed transactions without importing them.
	UploadStatement(ctx context.Context, userID string, accountID string, filename string, data []byte) (*dto.StatementPreviewResponse, error)

	// ConfirmImport imports the previously parsed transactions of a statement,
	// skipping rows that already exist for the account.
	ConfirmImport(ctx context.Context, userID string, statementID string) (*dto.ImportResultResponse, error)
}

// StatementReaderSvc defines read operations for statement data
type StatementReaderSvc interface {
	// GetStatementByID retrieves a statement owned by the user.
	GetStatementByID(ctx context.Context, userID string, statementID string) (*domain.Statement, error)

	// ListStatements retrieves the user's uploaded statements, newest first.
	ListStatements(ctx context.Context, userID string) ([]domain.Statement, error)
}

// StatementLifecycleSvc defines destructive statement operations.
type StatementLifecycleSvc interface {
	// DeleteStatement removes a statement record and its stored file.
	// Transactions already imported from it are kept.
	DeleteStatement(ctx context.Context, userID string, statementID string) error
}

// ParserInfoSvc exposes the registered statement parsers and banks.
type ParserInfoSvc interface {
	// ListSupportedBanks returns the banks a statement can be parsed for.
	ListSupportedBanks(ctx context.Context) []dto.BankInfoResponse

	// ListParsers returns the registered parser names.
	ListParsers(ctx context.Context) []string
}

// StatementSvcFacade combines all statement-related service interfaces
type StatementSvcFacade interface {
	StatementUploaderSvc
	StatementReaderSvc
	StatementLifecycleSvc
	ParserInfoSvc
}
