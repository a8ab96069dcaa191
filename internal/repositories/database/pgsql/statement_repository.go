package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/finlens/finlens_backend/internal/apperrors"
	"github.com/finlens/finlens_backend/internal/core/domain"
	portsrepo "github.com/finlens/finlens_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStatementRepository struct {
	db *pgxpool.Pool
}

func newPgxStatementRepository(db *pgxpool.Pool) portsrepo.StatementRepositoryFacade {
	return &PgxStatementRepository{db: db}
}

var _ portsrepo.StatementRepositoryFacade = (*PgxStatementRepository)(nil)

const statementColumns = `statement_id, user_id, COALESCE(account_id, ''), filename, file_path,
	file_size, file_type, status, statement_date, start_date, end_date,
	transaction_count, COALESCE(error_message, ''), processed_at,
	COALESCE(bank_name, ''), detection_confidence, COALESCE(parser_used, ''),
	created_at, created_by, last_updated_at, last_updated_by`

func scanStatement(row pgx.Row) (*domain.Statement, error) {
	var st domain.Statement
	err := row.Scan(
		&st.StatementID,
		&st.UserID,
		&st.AccountID,
		&st.Filename,
		&st.FilePath,
		&st.FileSize,
		&st.FileType,
		&st.Status,
		&st.StatementDate,
		&st.StartDate,
		&st.EndDate,
		&st.TransactionCount,
		&st.ErrorMessage,
		&st.ProcessedAt,
		&st.BankName,
		&st.DetectionConfidence,
		&st.ParserUsed,
		&st.CreatedAt,
		&st.CreatedBy,
		&st.LastUpdatedAt,
		&st.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan statement: %w", err)
	}
	return &st, nil
}

func (r *PgxStatementRepository) SaveStatement(ctx context.Context, statement domain.Statement) error {
	query := `
        INSERT INTO statements (statement_id, user_id, account_id, filename, file_path,
            file_size, file_type, status, statement_date, start_date, end_date,
            transaction_count, error_message, processed_at, bank_name,
            detection_confidence, parser_used,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10, $11, $12,
            NULLIF($13, ''), $14, NULLIF($15, ''), $16, NULLIF($17, ''), $18, $19, $20, $21);
    `
	_, err := r.db.Exec(ctx, query,
		statement.StatementID,
		statement.UserID,
		statement.AccountID,
		statement.Filename,
		statement.FilePath,
		statement.FileSize,
		statement.FileType,
		statement.Status,
		statement.StatementDate,
		statement.StartDate,
		statement.EndDate,
		statement.TransactionCount,
		statement.ErrorMessage,
		statement.ProcessedAt,
		statement.BankName,
		statement.DetectionConfidence,
		statement.ParserUsed,
		statement.CreatedAt,
		statement.CreatedBy,
		statement.LastUpdatedAt,
		statement.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save statement: %w", err)
	}
	return nil
}

func (r *PgxStatementRepository) FindStatementByID(ctx context.Context, statementID string) (*domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE statement_id = $1;`
	return scanStatement(r.db.QueryRow(ctx, query, statementID))
}

func (r *PgxStatementRepository) ListStatementsByUser(ctx context.Context, userID string) ([]domain.Statement, error) {
	query := `SELECT ` + statementColumns + ` FROM statements WHERE user_id = $1 ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query statements: %w", err)
	}
	defer rows.Close()

	statements := []domain.Statement{}
	for rows.Next() {
		st, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		statements = append(statements, *st)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating statement rows: %w", rows.Err())
	}
	return statements, nil
}

func (r *PgxStatementRepository) DeleteStatement(ctx context.Context, statementID string) error {
	// Imported transactions keep their statement_id reference via ON DELETE SET NULL.
	query := `DELETE FROM statements WHERE statement_id = $1;`
	cmdTag, err := r.db.Exec(ctx, query, statementID)
	if err != nil {
		return fmt.Errorf("failed to delete statement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxStatementRepository) UpdateStatement(ctx context.Context, statement domain.Statement) error {
	query := `
        UPDATE statements
        SET status = $1, transaction_count = $2, error_message = NULLIF($3, ''),
            processed_at = $4, start_date = $5, end_date = $6,
            last_updated_at = $7, last_updated_by = $8
        WHERE statement_id = $9;
    `
	cmdTag, err := r.db.Exec(ctx, query,
		statement.Status,
		statement.TransactionCount,
		statement.ErrorMessage,
		statement.ProcessedAt,
		statement.StartDate,
		statement.EndDate,
		statement.LastUpdatedAt,
		statement.LastUpdatedBy,
		statement.StatementID,
	)
	if err != nil {
		return fmt.Errorf("failed to update statement: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
